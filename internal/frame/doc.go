// Package frame orchestrates a planar frame analysis.
//
// A [Frame] is built from line segments with per-line section properties
// and optional constraint, load and hinge records. The pipeline runs in
// strict stages:
//
//	f, err := frame.New(in, frame.WithEvalPoints(21))
//	err = f.EstablishTopology()   // nodes, elements, DOF map
//	err = f.AssembleSystem()      // FullK and the force vector
//	err = f.CalculateDisplacements()
//	err = f.ComputeSectionalForces()
//
// [Frame.Analyze] runs all of them. After a solve, [Frame.Buckling] and
// [Frame.CriticalLoadFactor] estimate the load factor at which the
// reference load case becomes unstable.
//
// # Node identity
//
// Line endpoints with equal coordinates share one node and all three of
// its DOFs. When a hinge record sits on a repeated coordinate, the second
// and later elements get their own node there: it reuses the translational
// DOFs and receives a fresh rotational DOF, releasing the moment.
package frame
