// Package genomics contains definitions related to genomic data.
package genomics

import "fmt"

// Region defines a half-open region of genomic interest over a single
// reference sequence.
type Region struct {
	// ReferenceID identifies the reference sequence the coordinates below
	// refer to.
	ReferenceID int32
	// Start and End specify the zero-based half-open range (in base pairs)
	// relative to the reference.  If End is zero, it is treated as though it
	// was set to the last possible read position.
	Start, End uint32
}

func (region Region) String() string {
	return fmt.Sprintf("[reference:%d, start:%d, end:%d]", region.ReferenceID, region.Start, region.End)
}
