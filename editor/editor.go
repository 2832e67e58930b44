// Package editor implements a per-sky undo/redo log of reversible edit
// records, one or more editors per sky with independent selections, and
// the edit operations that build and apply those records.
//
// A Session owns exactly one sky.Value and the undo log shared by every
// Editor attached to it. Editors hold a non-owning reference to their
// Session and must be closed before it is discarded: the sky owns its
// editors by list membership, not the other way around.
package editor

import "github.com/sf3k/skyconv/sky"

// Kind identifies which variant of Record is populated. Go has no native
// sum type, so Record carries one field set per kind and Kind selects
// which are valid.
type Kind int

const (
	KindSetStarsHeight Kind = iota
	KindSetRenderOffset
	KindAddRenderOffset
	KindSetPlain
	KindSmooth
	KindInterpolate
	KindInsertArray
	KindInsertPlain
	KindInsertGradient
	KindMove
	KindCopy
)

// Callbacks receives redraw notifications from a Session, synchronously
// and in source order. A nil Callbacks is valid; the Session treats every
// method as a no-op.
type Callbacks interface {
	// RedrawBands reports that bands in [lo, hi) changed.
	RedrawBands(lo, hi int)
	// RedrawRenderOffset reports that the render offset scalar changed.
	RedrawRenderOffset()
	// RedrawStarsHeight reports that the stars height scalar changed.
	RedrawStarsHeight()
}

// SelectCallback receives a selection-changed notification from an Editor.
// It fires only when (low, high) actually moved or resized.
type SelectCallback func(e *Editor, oldLow, oldHigh, newLow, newHigh int)

// fill holds the parameters of a colour fill: the number of bands the fill
// would have produced before any truncation at the end of the sky, the
// start/end colours for InsertPlain/InsertGradient/Interpolate, and
// whether each endpoint colour is itself part of the fill.
type fill struct {
	length       int
	startColour  sky.Band
	endColour    sky.Band
	includeStart bool
	includeEnd   bool
}

// valueSwap is the old/new pair behind a scalar edit record.
type valueSwap struct {
	old, rep int32
}

// Record is one reversible edit. Only the fields relevant to Kind are
// populated.
type Record struct {
	kind Kind

	// Populated for KindSetStarsHeight/KindSetRenderOffset/KindAddRenderOffset.
	stars, render valueSwap

	// Populated for every splice kind (KindSetPlain..KindCopy).
	dstStart   int
	oldDstEnd  int
	newDstEnd  int
	srcStart   int
	lsize      int
	lost       []sky.Band
	budgeLost  []sky.Band
	fresh      []sky.Band
	fillParams fill

	prev, next *Record
}
