// Package viz renders solved frames in the terminal.
//
// The package offers three views of a stored [storage.Result]:
//
//   - [Canvas]: Braille pixel canvas drawing the undeformed and deformed frame
//   - [Diagram]: asciigraph plot of one sectional force along an element
//   - [Browser]: Bubble Tea app stepping through elements and force fields
//
// # Key Bindings
//
//	j/k   - Previous/next element
//	tab   - Cycle normal, shear and moment
//	+/-   - Deformation amplification
//	t     - Cycle color themes
//	q     - Quit
package viz
