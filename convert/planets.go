package convert

import (
	"fmt"
	"strconv"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/internal/nativefmt"
	"github.com/sf3k/skyconv/internal/scan"
	"github.com/sf3k/skyconv/internal/spritearea"
)

// Planet row layout: each row is margin-free content
// (visiblePlanetWidth bytes) plus a marginWidth-byte black margin. Copy B
// carries the margin on the left (margin then content); copy A carries it
// on the right (content then margin), exactly the layout a planet sprite
// itself uses, which is why decodePlanetImage can hand copy A's bytes
// straight to the sprite.
const (
	marginWidth        = 2
	visiblePlanetWidth = nativefmt.PlanetWidth - marginWidth
)

// planetRowException reports whether row of imageIndex is the hard-coded
// asset-specific exception where a non-zero penultimate column is expected
// found in the reference assets. It is intentionally not generalised.
func planetRowException(imageIndex, row int) bool {
	return imageIndex == 1 && row >= 12 && row <= 22
}

// decodePlanetImage validates img's two dithered copies against each other
// and returns the native-row-order (top-down) sprite bytes, which are
// identical to copy A's layout.
func decodePlanetImage(img nativefmt.PlanetImage, imageIndex int) ([]byte, error) {
	sprite := append([]byte(nil), img.CopyA[:]...)
	for row := 0; row < nativefmt.PlanetHeight; row++ {
		aRow := img.CopyA[row*nativefmt.PlanetWidth : (row+1)*nativefmt.PlanetWidth]
		bRow := img.CopyB[row*nativefmt.PlanetWidth : (row+1)*nativefmt.PlanetWidth]
		for i := 0; i < visiblePlanetWidth; i++ {
			if aRow[i] != bRow[i+marginWidth] {
				return nil, fmt.Errorf("%w: image %d row %d col %d: copies differ", errs.ErrBadImages, imageIndex, row, i)
			}
		}
		if bRow[0] != 0 || bRow[1] != 0 {
			return nil, fmt.Errorf("%w: image %d row %d: copy B margin not zero", errs.ErrBadImages, imageIndex, row)
		}
		if aRow[visiblePlanetWidth+1] != 0 {
			return nil, fmt.Errorf("%w: image %d row %d: copy A last column not zero", errs.ErrBadImages, imageIndex, row)
		}
		if aRow[visiblePlanetWidth] != 0 && !planetRowException(imageIndex, row) {
			return nil, fmt.Errorf("%w: image %d row %d: copy A penultimate column not zero", errs.ErrBadImages, imageIndex, row)
		}
	}
	return sprite, nil
}

// encodePlanetImage takes native-row-order (top-down) sprite bytes and
// produces the two dithered copies.
func encodePlanetImage(topDown []byte) nativefmt.PlanetImage {
	var img nativefmt.PlanetImage
	copy(img.CopyA[:], topDown)
	for row := 0; row < nativefmt.PlanetHeight; row++ {
		content := topDown[row*nativefmt.PlanetWidth : row*nativefmt.PlanetWidth+visiblePlanetWidth]
		bRow := img.CopyB[row*nativefmt.PlanetWidth : (row+1)*nativefmt.PlanetWidth]
		copy(bRow[marginWidth:], content)
	}
	return img
}

// PlanetsFromSprites bridges a scanned sprite area into native planets, one
// image per Advance call.
type PlanetsFromSprites struct {
	ctx     *scan.ScanContext
	planets *nativefmt.Planets
	cursor  int
}

// NewPlanetsFromSprites requires an "OFFS" extension block to supply each
// image's paint offset.
func NewPlanetsFromSprites(ctx *scan.ScanContext) (*PlanetsFromSprites, error) {
	if !ctx.HasOffs {
		return nil, errs.ErrNoOffset
	}
	count := ctx.MaxPlanetNum + 1
	h := nativefmt.PlanetHeader{LastImageNum: int32(ctx.MaxPlanetNum)}
	offs := nativefmt.DefaultPlanetOffsets(count)
	for i := 0; i < count; i++ {
		h.DataOffsets[i] = offs[i]
		if i < len(ctx.Offsets) {
			h.PaintCoords[i] = nativefmt.PaintCoord{X: ctx.Offsets[i].X, Y: ctx.Offsets[i].Y}
		}
	}
	p := &nativefmt.Planets{Header: h, Images: make([]nativefmt.PlanetImage, count)}
	return &PlanetsFromSprites{ctx: ctx, planets: p}, nil
}

// Result returns the native planets built so far.
func (it *PlanetsFromSprites) Result() *nativefmt.Planets { return it.planets }

// Advance converts one image index. Missing indices are left as the zero
// image.
func (it *PlanetsFromSprites) Advance() (Status, error) {
	last := it.ctx.MaxPlanetNum
	if it.cursor > last {
		return StatusDone, nil
	}
	n := it.cursor
	if e, ok := it.ctx.Planets[n]; ok {
		if len(e.Pixels) != nativefmt.PlanetBytes {
			return 0, sizeMismatch("planet", n, len(e.Pixels), nativefmt.PlanetBytes)
		}
		topDown := make([]byte, nativefmt.PlanetBytes)
		invertRows(e.Pixels, nativefmt.PlanetWidth, nativefmt.PlanetHeight, topDown)
		it.planets.Images[n] = encodePlanetImage(topDown)
	}
	it.cursor++
	if it.cursor > last {
		return StatusDone, nil
	}
	return StatusOK, nil
}

// PlanetsToSprites bridges native planets into sprite-area form, one image
// per Advance call.
type PlanetsToSprites struct {
	planets *nativefmt.Planets
	area    *spritearea.Area
	cursor  int
}

// NewPlanetsToSprites prepares the sprite area's header. If withExt is
// true, an "OFFS" extension block carrying the planets' paint offsets
// precedes the first sprite.
func NewPlanetsToSprites(planets *nativefmt.Planets, withExt bool) *PlanetsToSprites {
	a := &spritearea.Area{}
	if withExt {
		a.Extension = offsExtension(planets.Header)
	}
	a.Sprites = make([]spritearea.Sprite, len(planets.Images))
	return &PlanetsToSprites{planets: planets, area: a}
}

// Result returns the sprite area built so far.
func (it *PlanetsToSprites) Result() *spritearea.Area { return it.area }

// Advance decodes one image's two dithered copies and emits its sprite.
func (it *PlanetsToSprites) Advance() (Status, error) {
	if it.cursor >= len(it.planets.Images) {
		return StatusDone, nil
	}
	n := it.cursor
	topDown, err := decodePlanetImage(it.planets.Images[n], n)
	if err != nil {
		return 0, err
	}
	pixels := make([]byte, nativefmt.PlanetBytes)
	invertRows(topDown, nativefmt.PlanetWidth, nativefmt.PlanetHeight, pixels)

	var h spritearea.SpriteHeader
	h.SetName(planetSpriteName(n))
	h.WidthWordsMinus1 = int32((nativefmt.PlanetWidth+3)/4 - 1)
	h.HeightMinus1 = int32(nativefmt.PlanetHeight - 1)
	lastWordPixels := nativefmt.PlanetWidth - int(h.WidthWordsMinus1)*4
	h.RightBit = int32(lastWordPixels*8 - 1)
	h.ImageOffset = spritearea.SpriteHeaderSize
	h.MaskOffset = h.ImageOffset + int32(len(pixels))
	h.Type = eightBppSpriteType

	it.area.Sprites[n] = spritearea.Sprite{Header: h, Pixels: pixels}
	it.cursor++
	if it.cursor >= len(it.planets.Images) {
		return StatusDone, nil
	}
	return StatusOK, nil
}

func planetSpriteName(n int) string {
	return "planet_" + strconv.Itoa(n)
}
