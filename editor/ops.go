// The edit ops that build one Record and apply it. Each returns whether
// the sky actually changed; an out-of-memory condition has no Go
// equivalent because a failed slice allocation panics rather than
// returning an error, so these signatures carry no error
// result.
package editor

import "github.com/sf3k/skyconv/sky"

// setColour writes rep at pos, saving the overwritten band into
// lost[idx] when idx is within the saved range.
func setColour(v *sky.Value, pos int, rep sky.Band, lost []sky.Band, idx, lsize int) bool {
	bands := v.Bands()
	old := bands[pos]
	if idx < lsize && lost != nil {
		lost[idx] = old
	}
	if old == rep {
		return false
	}
	bands[pos] = rep
	return true
}

// interpolateRange writes a gradient between fill.startColour and
// fill.endColour across [start, end).
func interpolateRange(v *sky.Value, p *Palette, start, end int, f fill, lost []sky.Band, lsize int) bool {
	changed := false
	dist := f.length

	effectiveStart := start
	if f.includeStart {
		if start < end {
			if setColour(v, effectiveStart, f.startColour, lost, effectiveStart-start, lsize) {
				changed = true
			}
		}
		effectiveStart++
	} else {
		dist++
	}

	effectiveEnd := start + f.length
	if f.includeEnd {
		effectiveEnd--
		if effectiveEnd < end && effectiveEnd >= effectiveStart {
			if setColour(v, effectiveEnd, f.endColour, lost, effectiveEnd-start, lsize) {
				changed = true
			}
		}
	} else {
		dist++
	}

	if effectiveStart >= effectiveEnd {
		return changed
	}

	dist--
	if effectiveEnd > end {
		effectiveEnd = end
	}

	start3 := p[f.startColour]
	end3 := p[f.endColour]
	redInc := float64(int(end3.R)-int(start3.R)) / float64(dist)
	redFrac := float64(start3.R)
	greenInc := float64(int(end3.G)-int(start3.G)) / float64(dist)
	greenFrac := float64(start3.G)
	blueInc := float64(int(end3.B)-int(start3.B)) / float64(dist)
	blueFrac := float64(start3.B)

	for pos := effectiveStart; pos < effectiveEnd; pos++ {
		redFrac += redInc
		greenFrac += greenInc
		blueFrac += blueInc

		near := nearestPaletteEntry(p, int(redFrac+0.5), int(greenFrac+0.5), int(blueFrac+0.5))
		if setColour(v, pos, near, lost, pos-start, lsize) {
			changed = true
		}
	}
	return changed
}

// smoothRange replaces the bands strictly between the centres of each
// adjacent pair of homogeneous colour runs in [start, end) with an
// interpolated gradient between their colours.
func smoothRange(v *sky.Value, p *Palette, start, end int) bool {
	changed := false
	lastTrans := start
	lastCentre := start

	for row := start + 1; row < end; row++ {
		if v.Band(row) == v.Band(lastTrans) {
			continue
		}

		if lastTrans == start {
			lastCentre = start
		} else {
			centre := lastTrans + (row-lastTrans)/2
			if centre-lastCentre >= 2 {
				f := fill{
					length:      centre - lastCentre - 1,
					startColour: v.Band(lastCentre),
					endColour:   v.Band(centre),
				}
				if interpolateRange(v, p, lastCentre+1, centre, f, nil, 0) {
					changed = true
				}
			}
			lastCentre = centre
		}
		lastTrans = row
	}

	if lastTrans != start && end-lastCentre >= 3 {
		f := fill{
			length:      end - lastCentre - 2,
			startColour: v.Band(lastCentre),
			endColour:   v.Band(end - 1),
		}
		if interpolateRange(v, p, lastCentre+1, end-1, f, nil, 0) {
			changed = true
		}
	}
	return changed
}

// Smooth interpolates between the centres of homogeneous colour runs
// within the selection.
func (e *Editor) Smooth(p *Palette) bool {
	start, end := e.Range()
	rec := e.session.makeRecord(KindSmooth, start, end, 0, fill{length: end - start})
	getBandArray(e.session.value, start, end, rec.lost)

	changed := smoothRange(e.session.value, p, start, end)
	if changed {
		e.session.redrawBands(start, end)
	}
	return changed
}

// SetPlain overwrites the selection with a single colour.
func (e *Editor) SetPlain(colour int) bool {
	band := sky.ClampColour(colour)
	low, high := e.Range()
	rec := e.session.makeRecord(KindSetPlain, low, high, 0, fill{length: high - low, startColour: band})

	changed := writePlain(e.session.value, low, high, band, rec.lost, rec.lsize)
	if changed {
		e.session.redrawBands(low, high)
	}
	return changed
}

// Interpolate replaces the selection with a gradient between startCol and
// endCol, including both endpoints.
func (e *Editor) Interpolate(p *Palette, startCol, endCol int) bool {
	sc := sky.ClampColour(startCol)
	ec := sky.ClampColour(endCol)
	low, high := e.Range()
	f := fill{length: high - low, startColour: sc, endColour: ec, includeStart: true, includeEnd: true}
	rec := e.session.makeRecord(KindInterpolate, low, high, 0, f)

	changed := interpolateRange(e.session.value, p, low, high, f, rec.lost, rec.lsize)
	if changed {
		e.session.redrawBands(low, high)
	}
	return changed
}

// InsertArray replaces the selection with src, substituting the default
// colour for any out-of-range entry, and selects the inserted range.
// valid reports whether every entry of src was in range.
func (e *Editor) InsertArray(src []int) (changed, valid bool) {
	dstStart, dstEnd := e.Range()
	rec := e.session.makeRecord(KindInsertArray, dstStart, dstEnd, 0, fill{length: len(src)})

	changed = e.session.prepareImport(e, rec)
	if c, v := setArray(e.session.value, dstStart, rec.newDstEnd, src, rec.lost, rec.lsize); c {
		changed, valid = true, v
	} else {
		valid = v
	}
	getBandArray(e.session.value, dstStart, rec.newDstEnd, rec.fresh)

	if changed {
		e.session.redrawChanged(rec)
	}
	e.session.selectInserted(e, rec)
	return changed, valid
}

// InsertPlain replaces the selection with number bands of colour col and
// places the caret just past the inserted range.
func (e *Editor) InsertPlain(number, col int) bool {
	band := sky.ClampColour(col)
	dstStart, dstEnd := e.Range()
	rec := e.session.makeRecord(KindInsertPlain, dstStart, dstEnd, 0, fill{length: number, startColour: band})

	changed := e.session.prepareImport(e, rec)
	if writePlain(e.session.value, dstStart, rec.newDstEnd, band, rec.lost, rec.lsize) {
		changed = true
	}

	if changed {
		e.session.redrawChanged(rec)
	}
	e.session.caretAfterInsert(e, rec)
	return changed
}

// InsertGradient replaces the selection with an interpolated gradient of
// number bands and places the caret just past it.
func (e *Editor) InsertGradient(p *Palette, number, startCol, endCol int, incStart, incEnd bool) bool {
	sc := sky.ClampColour(startCol)
	ec := sky.ClampColour(endCol)
	dstStart, dstEnd := e.Range()
	f := fill{length: number, startColour: sc, endColour: ec, includeStart: incStart, includeEnd: incEnd}
	rec := e.session.makeRecord(KindInsertGradient, dstStart, dstEnd, 0, f)

	changed := e.session.prepareImport(e, rec)
	if interpolateRange(e.session.value, p, dstStart, rec.newDstEnd, f, rec.lost, rec.lsize) {
		changed = true
	}

	if changed {
		e.session.redrawChanged(rec)
	}
	e.session.caretAfterInsert(e, rec)
	return changed
}

// DeleteColours removes the selection, shifting the tail down.
func (e *Editor) DeleteColours() bool {
	return e.InsertPlain(0, 0)
}

// Copy replaces e's selection with src's selected colours (which may
// belong to a different sky), then selects the inserted range. A no-op
// copy of a selection onto itself is reported unchanged.
func (e *Editor) Copy(src *Editor) bool {
	srcStart, srcEnd := src.Range()
	dstStart, dstEnd := e.Range()
	if src.session == e.session && dstStart == srcStart && dstEnd == srcEnd {
		return false
	}

	rec := e.session.makeRecord(KindCopy, dstStart, dstEnd, srcStart, fill{length: srcEnd - srcStart})
	truncSrcSize := rec.newDstEnd - dstStart
	getBandArray(src.session.value, srcStart, srcStart+truncSrcSize, rec.fresh)

	changed := e.session.prepareImport(e, rec)
	if setBandArray(e.session.value, dstStart, rec.newDstEnd, rec.fresh, rec.lost, rec.lsize) {
		changed = true
	}

	if changed {
		e.session.redrawChanged(rec)
	}
	e.session.selectInserted(e, rec)
	return changed
}

// Move moves src's selected colours (which must belong to the same sky as
// e) to replace e's selection, then selects the moved range. A move of a
// selection into itself is reported unchanged.
func (e *Editor) Move(src *Editor) bool {
	srcStart, srcEnd := src.Range()
	dstStart, dstEnd := e.Range()
	if dstStart >= srcStart && dstEnd <= srcEnd {
		return false
	}

	srcSize := srcEnd - srcStart
	nDstStart := budgeIndex(dstStart, srcStart, -srcSize)
	nDstEnd := budgeIndex(dstEnd, srcStart, -srcSize)

	rec := e.session.makeRecord(KindMove, nDstStart, nDstEnd, srcStart, fill{length: srcSize})

	changed := e.session.deleteRange(e, srcStart, srcEnd, rec.fresh)
	if e.session.prepareImport(e, rec) {
		changed = true
	}
	if setBandArray(e.session.value, nDstStart, rec.newDstEnd, rec.fresh, rec.lost, rec.lsize) {
		changed = true
	}

	if changed {
		e.session.redrawMove(rec)
	}
	e.session.selectInserted(e, rec)
	return changed
}
