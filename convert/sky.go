package convert

import (
	"fmt"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/internal/nativefmt"
	"github.com/sf3k/skyconv/internal/scan"
	"github.com/sf3k/skyconv/internal/spritearea"
	"github.com/sf3k/skyconv/sky"
)

// skySpriteHeight is the sprite-area height of the sky sprite: two rows
// (dither, plain) per band. See scan.skySpriteHeight for the same
// reconciliation of the sky's "(4×126)" shorthand dimension class.
const skySpriteHeight = 2 * sky.NumBands

// SkyFromSprites bridges a scanned sprite area's sky sprite into a
// sky.Value, one band per Advance call.
type SkyFromSprites struct {
	entry  scan.Entry
	value  *sky.Value
	cursor int
	prev   sky.Band
}

// NewSkyFromSprites requires the scan to have found both a sky sprite and
// a "HEIG" extension block.
func NewSkyFromSprites(ctx *scan.ScanContext) (*SkyFromSprites, error) {
	if ctx.Sky == nil {
		return nil, errs.ErrBadSprite
	}
	if !ctx.HasHeig {
		return nil, errs.ErrNoHeight
	}
	if len(ctx.Sky.Pixels) != nativefmt.SkyRowWidth*skySpriteHeight {
		return nil, sizeMismatch("sky", 0, len(ctx.Sky.Pixels), nativefmt.SkyRowWidth*skySpriteHeight)
	}
	v := sky.New()
	v.SetRenderOffsetRaw(ctx.RenderOffset)
	v.SetStarsHeightRaw(ctx.StarsHeight)
	return &SkyFromSprites{entry: *ctx.Sky, value: v}, nil
}

// Result returns the sky value built so far.
func (it *SkyFromSprites) Result() *sky.Value { return it.value }

func spriteRow(pixels []byte, rowIdx int) [nativefmt.SkyRowWidth]byte {
	var row [nativefmt.SkyRowWidth]byte
	copy(row[:], pixels[rowIdx*nativefmt.SkyRowWidth:(rowIdx+1)*nativefmt.SkyRowWidth])
	return row
}

// Advance decodes one band's dither/plain row pair. The sprite stores rows
// bottom-up while the native band order is top-down, so native row r maps
// to sprite row skySpriteHeight-1-r.
func (it *SkyFromSprites) Advance() (Status, error) {
	if it.cursor >= sky.NumBands {
		return StatusDone, nil
	}
	k := it.cursor
	ditherRow := skySpriteHeight - 1 - 2*k
	plainRow := skySpriteHeight - 1 - (2*k + 1)

	dither := spriteRow(it.entry.Pixels, ditherRow)
	plain := spriteRow(it.entry.Pixels, plainRow)
	cur, err := nativefmt.DecodeBandPair(dither, plain, it.prev)
	if err != nil {
		return 0, fmt.Errorf("band %d: %w", k, err)
	}
	it.value.SetBandRaw(k, int(cur))
	it.prev = cur

	it.cursor++
	if it.cursor >= sky.NumBands {
		return StatusDone, nil
	}
	return StatusOK, nil
}

// SkyToSprites bridges a sky.Value into sprite-area form, one band per
// Advance call.
type SkyToSprites struct {
	value  *sky.Value
	area   *spritearea.Area
	pixels []byte
	cursor int
	prev   sky.Band
}

// NewSkyToSprites prepares the sprite area's header. If withExt is true, a
// "HEIG" extension block carrying the sky's scalars precedes the sprite.
func NewSkyToSprites(v *sky.Value, withExt bool) *SkyToSprites {
	a := &spritearea.Area{}
	if withExt {
		a.Extension = heigExtension(v)
	}
	pixels := make([]byte, nativefmt.SkyRowWidth*skySpriteHeight)
	a.Sprites = make([]spritearea.Sprite, 1)
	return &SkyToSprites{value: v, area: a, pixels: pixels}
}

// Result returns the sprite area built so far. The single sprite's header
// is only finalised once Advance returns StatusDone.
func (it *SkyToSprites) Result() *spritearea.Area { return it.area }

// Advance encodes one band's dither/plain row pair into the sprite's
// pixel buffer, and on the final band assembles the sprite header.
func (it *SkyToSprites) Advance() (Status, error) {
	if it.cursor >= sky.NumBands {
		return StatusDone, nil
	}
	k := it.cursor
	cur := it.value.Band(k)
	dither, plain := nativefmt.EncodeBandPair(it.prev, cur)
	it.prev = cur

	ditherRow := skySpriteHeight - 1 - 2*k
	plainRow := skySpriteHeight - 1 - (2*k + 1)
	copy(it.pixels[ditherRow*nativefmt.SkyRowWidth:(ditherRow+1)*nativefmt.SkyRowWidth], dither[:])
	copy(it.pixels[plainRow*nativefmt.SkyRowWidth:(plainRow+1)*nativefmt.SkyRowWidth], plain[:])

	it.cursor++
	if it.cursor >= sky.NumBands {
		it.finish()
		return StatusDone, nil
	}
	return StatusOK, nil
}

func (it *SkyToSprites) finish() {
	var h spritearea.SpriteHeader
	h.SetName("sky")
	h.WidthWordsMinus1 = int32(nativefmt.SkyRowWidth/4 - 1)
	h.HeightMinus1 = int32(skySpriteHeight - 1)
	h.RightBit = int32((nativefmt.SkyRowWidth*8 - 1) % 32)
	h.ImageOffset = spritearea.SpriteHeaderSize
	h.MaskOffset = h.ImageOffset + int32(len(it.pixels))
	h.Type = eightBppSpriteType
	it.area.Sprites[0] = spritearea.Sprite{Header: h, Pixels: it.pixels}
}
