// Package convert bridges the generic sprite-area format (classified by
// package scan) and the game's native tile/planet/sky formats. Conversion
// is exposed as a cooperative iterator (Advance does one image's worth
// of work per call), plus a run-to-completion helper built on top of it,
// generalising a staged decode()/encode() pipeline into an explicit step
// function.
package convert

import (
	"fmt"

	"github.com/sf3k/skyconv/internal/errs"
)

// Status is the outcome of one Advance call.
type Status int

const (
	// StatusOK means the iterator made progress; call Advance again.
	StatusOK Status = iota
	// StatusDone means every image has been processed.
	StatusDone
)

// Iterator is the cooperative single-step contract every converter in this
// package implements.
type Iterator interface {
	Advance() (Status, error)
}

// Run drives it to completion, returning the first error encountered.
func Run(it Iterator) error {
	for {
		status, err := it.Advance()
		if err != nil {
			return err
		}
		if status == StatusDone {
			return nil
		}
	}
}

// invertRows copies src's rows into dst in reverse order. Both slices must
// be exactly rows*rowBytes long. The sprite-area format stores pixel rows
// bottom-up; every native format stores them top-down, so every bridging
// direction passes through this once.
func invertRows(src []byte, rowBytes, rows int, dst []byte) {
	for r := 0; r < rows; r++ {
		srcRow := src[(rows-1-r)*rowBytes : (rows-r)*rowBytes]
		copy(dst[r*rowBytes:(r+1)*rowBytes], srcRow)
	}
}

// sizeMismatch reports the canonical error for a bitmap whose recorded
// pixel data doesn't match the size the native format requires.
func sizeMismatch(kind string, n, got, want int) error {
	return fmt.Errorf("%w: %s %d: pixel data is %d bytes, want %d", errs.ErrBadImages, kind, n, got, want)
}
