package editor

import "github.com/sf3k/skyconv/sky"

// Editor is one view onto a Session's sky: a selection (anchor, cursor)
// and an undo/redo cursor shared with every sibling editor via the
// Session. The zero Editor is not valid; use Session.NewEditor.
type Editor struct {
	session  *Session
	anchor   int
	cursor   int
	onSelect SelectCallback
}

// Session returns the session this editor belongs to.
func (e *Editor) Session() *Session {
	return e.session
}

// setSelection is the single place that mutates (anchor, cursor) and
// fires onSelect; it reports whether the raw pair changed.
func (e *Editor) setSelection(newAnchor, newCursor int) bool {
	oldAnchor, oldCursor := e.anchor, e.cursor
	if newAnchor == oldAnchor && newCursor == oldCursor {
		return false
	}
	e.anchor, e.cursor = newAnchor, newCursor

	oldLow, oldHigh := minMax(oldAnchor, oldCursor)
	newLow, newHigh := minMax(newAnchor, newCursor)
	if (oldLow != newLow || oldHigh != newHigh) && e.onSelect != nil {
		e.onSelect(e, oldLow, oldHigh, newLow, newHigh)
	}
	return true
}

func minMax(a, b int) (lo, hi int) {
	if a < b {
		return a, b
	}
	return b, a
}

// HasSelection reports whether the selection is non-empty.
func (e *Editor) HasSelection() bool {
	return e.anchor != e.cursor
}

// Range returns the ordered selection endpoints.
func (e *Editor) Range() (low, high int) {
	return minMax(e.anchor, e.cursor)
}

// CaretPos returns the anchor (the fixed end of the selection, which is the
// caret position when the selection is empty).
func (e *Editor) CaretPos() int {
	return e.anchor
}

// SetCaret collapses the selection to a single clamped position.
func (e *Editor) SetCaret(pos int) bool {
	pos = sky.ClampPos(pos)
	return e.setSelection(pos, pos)
}

// SetSelectionEnd moves the cursor end of the selection, leaving the
// anchor fixed.
func (e *Editor) SetSelectionEnd(pos int) bool {
	pos = sky.ClampPos(pos)
	return e.setSelection(e.anchor, pos)
}

// SetSelectionNearest keeps whichever of the ordered endpoints is farther
// from pos and moves the other to pos.
func (e *Editor) SetSelectionNearest(pos int) bool {
	pos = sky.ClampPos(pos)
	low, high := e.Range()

	keep := low
	if abs(pos-low) < abs(pos-high) {
		keep = high
	}
	return e.setSelection(keep, pos)
}

// ClearSelection collapses the selection to its anchor.
func (e *Editor) ClearSelection() bool {
	return e.SetCaret(e.anchor)
}

// SelectAll selects every band.
func (e *Editor) SelectAll() bool {
	return e.setSelection(0, sky.NumBands)
}

// SelectedColour returns the colour at the selection's low endpoint.
// Precondition: HasSelection().
func (e *Editor) SelectedColour() sky.Band {
	low, _ := e.Range()
	return e.session.value.Band(low)
}

// GetArray copies up to len(dst) selected colours into dst and returns the
// number of colours that would have been copied had dst been large
// enough.
func (e *Editor) GetArray(dst []int) int {
	low, high := e.Range()
	if low == high {
		return 0
	}
	end := high
	if high-low > len(dst) {
		end = low + len(dst)
	}
	bands := e.session.value.Bands()
	for pos := low; pos < end; pos++ {
		dst[pos-low] = int(bands[pos])
	}
	return high - low
}

// CanUndo reports whether Undo would have any effect.
func (e *Editor) CanUndo() bool {
	return e.session.CanUndo()
}

// CanRedo reports whether Redo would have any effect.
func (e *Editor) CanRedo() bool {
	return e.session.CanRedo()
}

// Undo reverses the most recently applied edit record and moves the
// session's undo cursor one step back.
func (e *Editor) Undo() bool {
	s := e.session
	if s.nextUndo == nil {
		return false
	}
	rec := s.nextUndo
	s.nextUndo = rec.prev

	changed := false
	switch rec.kind {
	case KindSetStarsHeight:
		changed = s.setStarsHeight(rec.stars.old, nil)
	case KindSetRenderOffset:
		changed = s.setRenderOffset(rec.render.old, nil)
	case KindAddRenderOffset:
		if s.setStarsHeight(rec.stars.old, nil) {
			changed = true
		}
		if s.setRenderOffset(rec.render.old, nil) {
			changed = true
		}
	case KindMove:
		changed = s.undoMove(e, rec)
		if changed {
			s.redrawMove(rec)
		}
	default: // KindCopy, KindSetPlain, KindSmooth, KindInterpolate,
		// KindInsertArray, KindInsertPlain, KindInsertGradient
		changed = s.undoEdit(e, rec)
		if changed {
			s.redrawChanged(rec)
		}
	}

	switch rec.kind {
	case KindMove:
		s.selectMoveDst(e, rec)
	case KindCopy, KindSetPlain, KindSmooth, KindInterpolate,
		KindInsertArray, KindInsertPlain, KindInsertGradient:
		s.selectReplaced(e, rec)
	}
	return changed
}

// Redo re-applies the next undone edit record and advances the session's
// undo cursor one step forward. palette is required for
// record kinds that re-execute a gradient fill (Interpolate, Smooth,
// InsertGradient); pass nil for sessions that never use those operations.
func (e *Editor) Redo(p *Palette) bool {
	s := e.session
	redoItem := s.redoItem()
	if redoItem == nil {
		return false
	}
	s.nextUndo = redoItem
	rec := redoItem

	changed := false
	switch rec.kind {
	case KindSetStarsHeight:
		changed = s.setStarsHeight(rec.stars.rep, nil)
	case KindSetRenderOffset:
		changed = s.setRenderOffset(rec.render.rep, nil)
	case KindAddRenderOffset:
		if s.setStarsHeight(rec.stars.rep, nil) {
			changed = true
		}
		if s.setRenderOffset(rec.render.rep, nil) {
			changed = true
		}
	case KindSetPlain:
		if writePlain(s.value, rec.dstStart, rec.oldDstEnd, rec.fillParams.startColour, nil, 0) {
			s.redrawBands(rec.dstStart, rec.oldDstEnd)
			changed = true
		}
	case KindSmooth:
		if smoothRange(s.value, p, rec.dstStart, rec.oldDstEnd) {
			s.redrawBands(rec.dstStart, rec.oldDstEnd)
			changed = true
		}
	case KindInterpolate:
		if interpolateRange(s.value, p, rec.dstStart, rec.oldDstEnd, rec.fillParams, nil, 0) {
			s.redrawBands(rec.dstStart, rec.oldDstEnd)
			changed = true
		}
	case KindMove:
		changed = s.redoMove(e, rec, p)
		if changed {
			s.redrawMove(rec)
		}
	case KindCopy, KindInsertArray, KindInsertPlain, KindInsertGradient:
		changed = s.redoInsert(e, rec, p)
		if changed {
			s.redrawChanged(rec)
		}
	}

	switch rec.kind {
	case KindMove, KindCopy, KindSetPlain, KindSmooth, KindInterpolate, KindInsertArray:
		s.selectInserted(e, rec)
	case KindInsertPlain, KindInsertGradient:
		e.setSelection(rec.newDstEnd, rec.newDstEnd)
	}
	return changed
}
