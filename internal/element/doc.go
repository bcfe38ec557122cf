// Package element implements the planar frame elements.
//
// Two element kinds share one 6-DOF layout [u1, v1, θ1, u2, v2, θ2]:
//
//   - [Bar]: axial stiffness only (A·E/L)
//   - [Beam]: axial plus Euler-Bernoulli bending (E·I)
//
// Every element builds its local stiffness matrix, transforms it to global
// axes with the direction-cosine matrix G (K = Gᵗ·Kl·G) and provides the
// equivalent nodal load vector of a uniform transverse load. After a solve,
// [Element.ComputeSolution] recovers normal force, shear force and bending
// moment at evenly spaced stations along the element.
//
// # Second-order terms
//
// [Element.GeometricNonlinearStiffness] scales the bending block with the
// stability functions φ1..φ5 of the element's normal force. It requires the
// normal-force field to be recovered first:
//
//	if err := beam.ComputeSolution(u, 11); err != nil {
//	    return err
//	}
//	kg, err := beam.GeometricNonlinearStiffness()
//
// [Element.GeometricStiffness] returns the linearized geometric stiffness
// used by the eigenvalue buckling analysis.
package element
