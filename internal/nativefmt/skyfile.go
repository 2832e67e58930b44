package nativefmt

import (
	"fmt"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/sky"
	"github.com/sf3k/skyconv/stream"
)

// SkyRowWidth is the pixel width of each of the two rows a native sky band
// occupies: each band-pair is 4+4 = 8 bytes.
const SkyRowWidth = 4

// SkyHeaderSize is the fixed size of the render_offset/stars_height pair
// that precedes the 126 band-pairs.
const SkyHeaderSize = 8

// DecodeBandPair validates one native band's dither row and plain row and
// returns the band's colour. dither holds SkyRowWidth alternating pixels of
// prev (band k-1, or band 0 for k=0) and the band's own colour; plain holds
// SkyRowWidth copies of the band's colour. Both rows are validated for
// internal consistency and cross-checked against each other.
func DecodeBandPair(dither, plain [SkyRowWidth]byte, prev sky.Band) (sky.Band, error) {
	for i := 1; i < SkyRowWidth; i++ {
		if plain[i] != plain[0] {
			return 0, fmt.Errorf("%w: plain row pixels not uniform", errs.ErrBadImages)
		}
	}
	cur := sky.Band(plain[0])

	for i := 2; i < SkyRowWidth; i += 2 {
		if dither[i] != dither[0] {
			return 0, fmt.Errorf("%w: dither row even pixels not equal", errs.ErrBadImages)
		}
	}
	for i := 3; i < SkyRowWidth; i += 2 {
		if dither[i] != dither[1] {
			return 0, fmt.Errorf("%w: dither row odd pixels not equal", errs.ErrBadImages)
		}
	}
	if sky.Band(dither[0]) != prev {
		return 0, fmt.Errorf("%w: dither row does not encode previous band", errs.ErrBadImages)
	}
	if sky.Band(dither[1]) != cur {
		return 0, fmt.Errorf("%w: dither row does not encode current band", errs.ErrBadImages)
	}
	return cur, nil
}

// EncodeBandPair produces the dither row and plain row for a band, given
// the previous band's colour (band -1 := band 0).
func EncodeBandPair(prev, cur sky.Band) (dither, plain [SkyRowWidth]byte) {
	for i := 0; i < SkyRowWidth; i += 2 {
		dither[i] = byte(prev)
	}
	for i := 1; i < SkyRowWidth; i += 2 {
		dither[i] = byte(cur)
	}
	for i := range plain {
		plain[i] = byte(cur)
	}
	return dither, plain
}

// ReadSky reads and validates a native sky file from r, decoding its 126
// dithered row-pairs into a sky.Value.
func ReadSky(r *stream.Reader) (*sky.Value, error) {
	renderOffset, err := r.ReadInt32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: sky header: %v", errs.ErrReadFail, err)
	}
	starsHeight, err := r.ReadInt32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: sky header: %v", errs.ErrReadFail, err)
	}
	if renderOffset < sky.MinRenderOffset || renderOffset > sky.MaxRenderOffset {
		return nil, fmt.Errorf("%w: render_offset %d out of range", errs.ErrBadRend, renderOffset)
	}
	if starsHeight < sky.MinStarsHeight || starsHeight > sky.MaxStarsHeight {
		return nil, fmt.Errorf("%w: stars_height %d out of range", errs.ErrBadStar, starsHeight)
	}

	v := sky.New()
	v.SetRenderOffsetRaw(renderOffset)
	v.SetStarsHeightRaw(starsHeight)

	prev := sky.Band(0)
	for k := 0; k < sky.NumBands; k++ {
		var dither, plain [SkyRowWidth]byte
		if _, err := r.Read(dither[:]); err != nil {
			return nil, fmt.Errorf("%w: band %d dither row", errs.ErrTrunc, k)
		}
		if _, err := r.Read(plain[:]); err != nil {
			return nil, fmt.Errorf("%w: band %d plain row", errs.ErrTrunc, k)
		}
		cur, err := DecodeBandPair(dither, plain, prev)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", k, err)
		}
		v.SetBandRaw(k, int(cur))
		prev = cur
	}
	return v, nil
}

// WriteSky writes a native sky file to w, re-dithering v's 126 bands.
func WriteSky(w *stream.Writer, v *sky.Value) error {
	if err := w.WriteInt32LE(v.RenderOffset()); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
	}
	if err := w.WriteInt32LE(v.StarsHeight()); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
	}
	prev := sky.Band(0)
	for k := 0; k < sky.NumBands; k++ {
		cur := v.Band(k)
		dither, plain := EncodeBandPair(prev, cur)
		if _, err := w.Write(dither[:]); err != nil {
			return fmt.Errorf("%w: band %d: %v", errs.ErrWriteFail, k, err)
		}
		if _, err := w.Write(plain[:]); err != nil {
			return fmt.Errorf("%w: band %d: %v", errs.ErrWriteFail, k, err)
		}
		prev = cur
	}
	return nil
}
