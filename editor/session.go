package editor

import "github.com/sf3k/skyconv/sky"

// Session owns one sky.Value, the undo/redo log shared by every Editor
// attached to it, and the host's Callbacks. The zero Session is not
// valid; use NewSession.
type Session struct {
	value   *sky.Value
	cb      Callbacks
	editors []*Editor

	head, tail *Record
	nextUndo   *Record
}

// NewSession wraps v in an editing session. cb may be nil, in which case
// every redraw notification is dropped.
func NewSession(v *sky.Value, cb Callbacks) *Session {
	return &Session{value: v, cb: cb}
}

// Value returns the sky this session is editing.
func (s *Session) Value() *sky.Value {
	return s.value
}

// NewEditor attaches a new Editor to this session, with the caret at band
// 0 and an empty selection. onSelect may be nil.
func (s *Session) NewEditor(onSelect SelectCallback) *Editor {
	e := &Editor{session: s, onSelect: onSelect}
	s.editors = append(s.editors, e)
	return e
}

// RemoveEditor detaches e from this session. e must not be used afterward.
func (s *Session) RemoveEditor(e *Editor) {
	for i, ed := range s.editors {
		if ed == e {
			s.editors = append(s.editors[:i], s.editors[i+1:]...)
			return
		}
	}
}

func (s *Session) redrawBands(lo, hi int) {
	if s.cb != nil {
		s.cb.RedrawBands(lo, hi)
	}
}

func (s *Session) redrawRenderOffset() {
	if s.cb != nil {
		s.cb.RedrawRenderOffset()
	}
}

func (s *Session) redrawStarsHeight() {
	if s.cb != nil {
		s.cb.RedrawStarsHeight()
	}
}

// CanUndo reports whether Undo would have any effect.
func (s *Session) CanUndo() bool {
	return s.nextUndo != nil
}

// CanRedo reports whether Redo would have any effect.
func (s *Session) CanRedo() bool {
	return s.nextUndo != s.tail
}

// redoItem returns the record one step ahead of nextUndo.
func (s *Session) redoItem() *Record {
	if s.nextUndo != nil {
		return s.nextUndo.next
	}
	return s.head
}

// addUndo truncates the log after nextUndo, appends rec, and advances the
// cursor to it: a new edit discards any redo history.
func (s *Session) addUndo(rec *Record) {
	redoItem := s.redoItem()
	if redoItem != nil {
		if redoItem.prev != nil {
			redoItem.prev.next = nil
		} else {
			s.head = nil
		}
		s.tail = redoItem.prev
	}

	rec.prev = s.tail
	rec.next = nil
	if s.tail != nil {
		s.tail.next = rec
	} else {
		s.head = rec
	}
	s.tail = rec
	s.nextUndo = rec
}

// makeValueRecord appends a bare scalar-edit record (payload filled in by
// setRenderOffset/setStarsHeight once the old/new values are known).
func (s *Session) makeValueRecord(kind Kind) *Record {
	rec := &Record{kind: kind}
	s.addUndo(rec)
	return rec
}

// makeRecord appends a splice record sized for a replace of
// [dstStart, dstStart+(dstEnd-dstStart)) with f.length bands (truncated to
// fit before NumBands).
func (s *Session) makeRecord(kind Kind, dstStart, dstEnd, srcStart int, f fill) *Record {
	dstSize := dstEnd - dstStart
	trimLen := f.length
	if dstStart+trimLen > sky.NumBands {
		trimLen = sky.NumBands - dstStart
	}
	budgeSize := abs(dstSize - trimLen)
	lostSize := min(dstSize, trimLen)

	freshSize := 0
	if kind == KindMove || kind == KindCopy || kind == KindInsertArray {
		freshSize = trimLen
	}

	rec := &Record{
		kind:       kind,
		dstStart:   dstStart,
		oldDstEnd:  dstStart + dstSize,
		newDstEnd:  dstStart + trimLen,
		srcStart:   srcStart,
		lsize:      lostSize,
		fillParams: f,
	}
	if lostSize > 0 {
		rec.lost = make([]sky.Band, lostSize)
	}
	if freshSize > 0 {
		rec.fresh = make([]sky.Band, freshSize)
	}
	if budgeSize > 0 {
		rec.budgeLost = make([]sky.Band, budgeSize)
	}
	s.addUndo(rec)
	return rec
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// setRenderOffset applies a clamped render offset, recording the old/new
// pair into rec if non-nil, and reports whether the scalar changed.
func (s *Session) setRenderOffset(v int32, rec *Record) bool {
	old := s.value.RenderOffset()
	if rec != nil {
		rec.render = valueSwap{old: old, rep: v}
	}
	if v == old {
		return false
	}
	s.value.SetRenderOffsetRaw(v)
	s.redrawRenderOffset()
	return true
}

// setStarsHeight applies a clamped stars height, recording the old/new
// pair into rec if non-nil, and reports whether the scalar changed.
func (s *Session) setStarsHeight(v int32, rec *Record) bool {
	old := s.value.StarsHeight()
	if rec != nil {
		rec.stars = valueSwap{old: old, rep: v}
	}
	if v == old {
		return false
	}
	s.value.SetStarsHeightRaw(v)
	s.redrawStarsHeight()
	return true
}

// SetRenderOffset replaces the render offset, clamping it into range
// first.
func (s *Session) SetRenderOffset(v int32) bool {
	if v < sky.MinRenderOffset {
		v = sky.MinRenderOffset
	} else if v > sky.MaxRenderOffset {
		v = sky.MaxRenderOffset
	}
	rec := s.makeValueRecord(KindSetRenderOffset)
	return s.setRenderOffset(v, rec)
}

// SetStarsHeight replaces the stars height, clamping it into range first.
func (s *Session) SetStarsHeight(v int32) bool {
	if v < sky.MinStarsHeight {
		v = sky.MinStarsHeight
	} else if v > sky.MaxStarsHeight {
		v = sky.MaxStarsHeight
	}
	rec := s.makeValueRecord(KindSetStarsHeight)
	return s.setStarsHeight(v, rec)
}

// AddRenderOffset raises the render offset by offset and lowers the stars
// height by the same amount, each clamped into range. The two clamps are
// sequential, not independent:
// offset is re-clamped against the stars-height bounds using the value left
// over from the render-offset clamp, exactly as SFSkyEdit's
// edit_sky_add_render_offset does, so a render-offset clamp can leave the
// stars-height adjustment using a different delta than was applied to the
// render offset.
func (s *Session) AddRenderOffset(offset int32) bool {
	renderOffset := s.value.RenderOffset()
	if offset < sky.MinRenderOffset-renderOffset {
		offset = sky.MinRenderOffset - renderOffset
	} else if offset > sky.MaxRenderOffset-renderOffset {
		offset = sky.MaxRenderOffset - renderOffset
	}
	renderOffset += offset

	starsHeight := s.value.StarsHeight()
	if offset > starsHeight-sky.MinStarsHeight {
		offset = starsHeight - sky.MinStarsHeight
	} else if offset < starsHeight-sky.MaxStarsHeight {
		offset = starsHeight - sky.MaxStarsHeight
	}
	starsHeight -= offset

	rec := s.makeValueRecord(KindAddRenderOffset)
	changed := false
	if s.setStarsHeight(starsHeight, rec) {
		changed = true
	}
	if s.setRenderOffset(renderOffset, rec) {
		changed = true
	}
	return changed
}

// allUpdateIndices remaps every editor attached to this session except
// excluded, for ndel bands replaced by nadd bands at start. The
// originating editor is updated separately by the caller to keep its
// own redraw region minimal.
func (s *Session) allUpdateIndices(excluded *Editor, start, oldEnd, newEnd int) {
	ndel := oldEnd - start
	nadd := newEnd - start
	if ndel == 0 && nadd == 0 {
		return
	}
	for _, ed := range s.editors {
		if ed == excluded {
			continue
		}
		newAnchor := updateIndex(ed.anchor, start, ndel, nadd)
		newCursor := updateIndex(ed.cursor, start, ndel, nadd)
		ed.setSelection(newAnchor, newCursor)
	}
}

// prepareImport budges the sky to accommodate rec's size change and
// remaps sibling editors' selections, before the splice's content is
// written.
func (s *Session) prepareImport(editor *Editor, rec *Record) bool {
	changed := budge(s.value, rec.oldDstEnd, rec.newDstEnd, rec.budgeLost)
	s.allUpdateIndices(editor, rec.dstStart, rec.oldDstEnd, rec.newDstEnd)
	return changed
}

// deleteRange removes [start, end) by budging the tail down, for Move's
// source-range removal.
func (s *Session) deleteRange(editor *Editor, start, end int, lost []sky.Band) bool {
	changed := budgeDown(s.value, start, end, lost)
	s.allUpdateIndices(editor, start, end, start)
	return changed
}

func (s *Session) redrawChanged(rec *Record) {
	if rec.oldDstEnd == rec.newDstEnd {
		s.redrawBands(rec.dstStart, rec.oldDstEnd)
	} else {
		s.redrawBands(rec.dstStart, sky.NumBands)
	}
}

func (s *Session) redrawMove(rec *Record) {
	srcSize := rec.newDstEnd - rec.dstStart
	srcEnd := rec.srcStart + srcSize
	dstStart := budgeIndex(rec.dstStart, rec.srcStart, srcSize)
	dstEnd := budgeIndex(rec.oldDstEnd, rec.srcStart, srcSize)

	redrawEnd := sky.NumBands
	if dstStart == dstEnd {
		redrawEnd = max(srcEnd, dstEnd)
	}
	s.redrawBands(min(rec.srcStart, dstStart), redrawEnd)
}

func (s *Session) selectMoveDst(editor *Editor, rec *Record) {
	srcSize := rec.newDstEnd - rec.dstStart
	dstStart := budgeIndex(rec.dstStart, rec.srcStart, srcSize)
	dstEnd := budgeIndex(rec.oldDstEnd, rec.srcStart, srcSize)
	editor.setSelection(dstStart, dstEnd)
}

func (s *Session) selectInserted(editor *Editor, rec *Record) {
	editor.setSelection(rec.dstStart, rec.newDstEnd)
}

func (s *Session) selectReplaced(editor *Editor, rec *Record) {
	editor.setSelection(rec.dstStart, rec.oldDstEnd)
}

func (s *Session) caretAfterInsert(editor *Editor, rec *Record) {
	editor.setSelection(rec.newDstEnd, rec.newDstEnd)
}

// undoEdit reverses every splice kind except Move's source-side effects
// (handled separately by undoMove): restores the in-place overwritten
// bytes, unbudges the size change, and remaps sibling editors back.
func (s *Session) undoEdit(editor *Editor, rec *Record) bool {
	changed := false
	if setBandArray(s.value, rec.dstStart, rec.dstStart+rec.lsize, rec.lost, nil, 0) {
		changed = true
	}
	if unbudge(s.value, rec.oldDstEnd, rec.newDstEnd, rec.budgeLost) {
		changed = true
	}
	switch rec.kind {
	case KindMove, KindCopy, KindInsertArray, KindInsertPlain, KindInsertGradient:
		s.allUpdateIndices(editor, rec.dstStart, rec.newDstEnd, rec.oldDstEnd)
	}
	return changed
}

// undoMove additionally re-inserts the source bytes Move removed.
func (s *Session) undoMove(editor *Editor, rec *Record) bool {
	changed := s.undoEdit(editor, rec)

	srcSize := rec.newDstEnd - rec.dstStart
	srcEnd := rec.srcStart + srcSize

	if budgeUp(s.value, rec.srcStart, srcEnd, nil) {
		changed = true
	}
	if setBandArray(s.value, rec.srcStart, srcEnd, rec.fresh, nil, 0) {
		changed = true
	}
	s.allUpdateIndices(editor, rec.srcStart, rec.srcStart, srcEnd)
	return changed
}

// redoInsert re-applies every splice kind except Move's source-side
// removal (handled by redoMove). For SetPlain/Interpolate/Smooth the
// caller re-executes the operation directly instead of calling this.
func (s *Session) redoInsert(editor *Editor, rec *Record, p *Palette) bool {
	changed := budge(s.value, rec.oldDstEnd, rec.newDstEnd, nil)
	s.allUpdateIndices(editor, rec.dstStart, rec.oldDstEnd, rec.newDstEnd)

	switch rec.kind {
	case KindMove, KindCopy, KindInsertArray:
		if setBandArray(s.value, rec.dstStart, rec.newDstEnd, rec.fresh, nil, 0) {
			changed = true
		}
	case KindInsertPlain:
		if writePlain(s.value, rec.dstStart, rec.newDstEnd, rec.fillParams.startColour, nil, 0) {
			changed = true
		}
	case KindInsertGradient:
		if interpolateRange(s.value, p, rec.dstStart, rec.newDstEnd, rec.fillParams, nil, 0) {
			changed = true
		}
	}
	return changed
}

func (s *Session) redoMove(editor *Editor, rec *Record, p *Palette) bool {
	srcEnd := rec.srcStart + (rec.newDstEnd - rec.dstStart)
	changed := s.deleteRange(editor, rec.srcStart, srcEnd, nil)
	if s.redoInsert(editor, rec, p) {
		changed = true
	}
	return changed
}
