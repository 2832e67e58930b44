package convert

import (
	"strconv"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/internal/nativefmt"
	"github.com/sf3k/skyconv/internal/scan"
	"github.com/sf3k/skyconv/internal/spritearea"
)

// TilesFromSprites bridges a scanned sprite area into a native tile-set,
// one tile bitmap per Advance call.
type TilesFromSprites struct {
	ctx    *scan.ScanContext
	tiles  *nativefmt.Tiles
	cursor int
}

// NewTilesFromSprites builds the iterator's header from ctx and allocates
// the result's bitmap slots. It requires an "ANIM" extension block;
// without one the converter cannot synthesise the tile-set header.
func NewTilesFromSprites(ctx *scan.ScanContext) (*TilesFromSprites, error) {
	if !ctx.HasAnim {
		return nil, errs.ErrNoAnim
	}
	tiles := &nativefmt.Tiles{
		Header: nativefmt.TileHeader{
			LastTileNum:     int32(ctx.MaxTileNum),
			SplashAnim1:     ctx.Anim[0],
			SplashAnim2:     ctx.Anim[1],
			SplashTriggers2: ctx.Anim[2],
		},
		Bitmaps: make([][nativefmt.TileBytes]byte, ctx.MaxTileNum+1),
	}
	return &TilesFromSprites{ctx: ctx, tiles: tiles}, nil
}

// Result returns the tile-set built so far. Only meaningful once Advance
// has returned StatusDone.
func (it *TilesFromSprites) Result() *nativefmt.Tiles { return it.tiles }

// Advance converts one tile index's worth of pixel data. Missing indices
// (gaps in the scanned offset table) are left as the zero bitmap.
func (it *TilesFromSprites) Advance() (Status, error) {
	if it.cursor > it.ctx.MaxTileNum {
		return StatusDone, nil
	}
	n := it.cursor
	if e, ok := it.ctx.Tiles[n]; ok {
		if len(e.Pixels) != nativefmt.TileBytes {
			return 0, sizeMismatch("tile", n, len(e.Pixels), nativefmt.TileBytes)
		}
		invertRows(e.Pixels, nativefmt.TileWidth, nativefmt.TileHeight, it.tiles.Bitmaps[n][:])
	}
	it.cursor++
	if it.cursor > it.ctx.MaxTileNum {
		return StatusDone, nil
	}
	return StatusOK, nil
}

// TilesToSprites bridges a native tile-set into sprite-area form, one tile
// bitmap per Advance call.
type TilesToSprites struct {
	tiles  *nativefmt.Tiles
	area   *spritearea.Area
	cursor int
}

// NewTilesToSprites prepares the sprite area's header. If withExt is true,
// an "ANIM" extension block carrying the tile-set's animation fields
// precedes the first sprite.
func NewTilesToSprites(tiles *nativefmt.Tiles, withExt bool) *TilesToSprites {
	a := &spritearea.Area{}
	if withExt {
		a.Extension = animExtension(tiles.Header)
	}
	a.Sprites = make([]spritearea.Sprite, len(tiles.Bitmaps))
	return &TilesToSprites{tiles: tiles, area: a}
}

// Result returns the sprite area built so far.
func (it *TilesToSprites) Result() *spritearea.Area { return it.area }

// Advance emits one tile's sprite header and row-inverted pixel data.
func (it *TilesToSprites) Advance() (Status, error) {
	if it.cursor >= len(it.tiles.Bitmaps) {
		return StatusDone, nil
	}
	n := it.cursor
	pixels := make([]byte, nativefmt.TileBytes)
	invertRows(it.tiles.Bitmaps[n][:], nativefmt.TileWidth, nativefmt.TileHeight, pixels)

	var h spritearea.SpriteHeader
	h.SetName(tileSpriteName(n))
	h.WidthWordsMinus1 = int32(nativefmt.TileWidth/4 - 1)
	h.HeightMinus1 = int32(nativefmt.TileHeight - 1)
	h.RightBit = int32((nativefmt.TileWidth*8 - 1) % 32)
	h.ImageOffset = spritearea.SpriteHeaderSize
	h.MaskOffset = h.ImageOffset + int32(len(pixels))
	h.Type = eightBppSpriteType

	it.area.Sprites[n] = spritearea.Sprite{Header: h, Pixels: pixels}
	it.cursor++
	if it.cursor >= len(it.tiles.Bitmaps) {
		return StatusDone, nil
	}
	return StatusOK, nil
}

func tileSpriteName(n int) string {
	return "tile_" + strconv.Itoa(n)
}
