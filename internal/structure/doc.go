// Package structure provides the topological primitives of a planar frame.
//
// The package defines the data the analysis engine is built on:
//
//   - [Point] and [Line]: opaque 2D geometry handed over by the host
//   - [Node]: a point with three degrees of freedom [dx, dy, rz]
//   - [ConstraintNode], [LoadNode], [HingeNode]: auxiliary records that
//     attach supports, nodal loads or moment releases to a node
//
// # Node identity
//
// Two points denote the same node when their coordinates are equal. By
// default the comparison is exact; a positive tolerance can be supplied to
// [Point.Equal] to merge endpoints that differ by rounding noise:
//
//	if aux.Matches(node, 0) {
//	    // exact match
//	}
//
// Near-duplicate coordinates that fail to merge are not reported; they simply
// produce two disconnected nodes.
package structure
