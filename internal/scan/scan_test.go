package scan

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/internal/nativefmt"
	"github.com/sf3k/skyconv/internal/spritearea"
)

func newSprite(name string, width, height int, typ int32) spritearea.Sprite {
	var h spritearea.SpriteHeader
	h.SetName(name)
	words := (width + 3) / 4
	h.WidthWordsMinus1 = int32(words - 1)
	h.HeightMinus1 = int32(height - 1)
	h.RightBit = int32((width-(words-1)*4)*8 - 1)
	h.ImageOffset = spritearea.SpriteHeaderSize
	h.Type = typ
	pixels := make([]byte, width*height)
	h.MaskOffset = h.ImageOffset + int32(len(pixels))
	return spritearea.Sprite{Header: h, Pixels: pixels}
}

const eightBppOldMode = 21

func TestScan_ClassifiesTiles(t *testing.T) {
	a := &spritearea.Area{Sprites: []spritearea.Sprite{
		newSprite("tile_0", nativefmt.TileWidth, nativefmt.TileHeight, eightBppOldMode),
		newSprite("tile_3", nativefmt.TileWidth, nativefmt.TileHeight, eightBppOldMode),
		newSprite("junk", 7, 7, eightBppOldMode),
	}}
	ctx, err := Scan(a)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(ctx.Tiles) != 2 {
		t.Fatalf("len(Tiles) = %d, want 2", len(ctx.Tiles))
	}
	if ctx.MaxTileNum != 3 {
		t.Errorf("MaxTileNum = %d, want 3", ctx.MaxTileNum)
	}
	if ctx.BadSprites != 1 {
		t.Errorf("BadSprites = %d, want 1", ctx.BadSprites)
	}
}

func TestScan_ClassifiesPlanets(t *testing.T) {
	a := &spritearea.Area{Sprites: []spritearea.Sprite{
		newSprite("planet_0", nativefmt.PlanetWidth, nativefmt.PlanetHeight, eightBppOldMode),
		newSprite("planet_1", nativefmt.PlanetWidth, nativefmt.PlanetHeight, eightBppOldMode),
	}}
	ctx, err := Scan(a)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(ctx.Planets) != 2 || ctx.MaxPlanetNum != 1 {
		t.Errorf("Planets = %v, MaxPlanetNum = %d", ctx.Planets, ctx.MaxPlanetNum)
	}
}

func TestScan_ClassifiesSky(t *testing.T) {
	a := &spritearea.Area{Sprites: []spritearea.Sprite{
		newSprite("sky", nativefmt.SkyRowWidth, skySpriteHeight, eightBppOldMode),
	}}
	ctx, err := Scan(a)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if ctx.Sky == nil {
		t.Fatal("Sky entry not recorded")
	}
}

func TestScan_RejectsAmbiguousArea(t *testing.T) {
	a := &spritearea.Area{Sprites: []spritearea.Sprite{
		newSprite("tile_0", nativefmt.TileWidth, nativefmt.TileHeight, eightBppOldMode),
		newSprite("planet_0", nativefmt.PlanetWidth, nativefmt.PlanetHeight, eightBppOldMode),
	}}
	_, err := Scan(a)
	if !errors.Is(err, errs.ErrBadSprite) {
		t.Fatalf("Scan() error = %v, want ErrBadSprite", err)
	}
}

func TestScan_RejectsNonEightBppAsBad(t *testing.T) {
	a := &spritearea.Area{Sprites: []spritearea.Sprite{
		newSprite("tile_0", nativefmt.TileWidth, nativefmt.TileHeight, 9), // 4bpp mode
	}}
	ctx, err := Scan(a)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if ctx.BadSprites != 1 || len(ctx.Tiles) != 0 {
		t.Errorf("ctx = %+v, want 1 bad sprite and no tiles", ctx)
	}
}

func appendExt(ext []byte, tag string, payload []byte) []byte {
	ext = append(ext, []byte(tag)...)
	return append(ext, payload...)
}

func TestScan_ParsesAnimExtensionAndClamps(t *testing.T) {
	a := &spritearea.Area{
		Sprites: []spritearea.Sprite{
			newSprite("tile_0", nativefmt.TileWidth, nativefmt.TileHeight, eightBppOldMode),
		},
	}
	payload := make([]byte, 12)
	payload[0] = 9 // exceeds max_tile_num (0), must clamp
	a.Extension = appendExt(nil, "ANIM", payload)

	ctx, err := Scan(a)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !ctx.HasAnim || !ctx.FixedHdr {
		t.Fatalf("ctx = %+v, want HasAnim and FixedHdr", ctx)
	}
	if ctx.Anim[0][0] != 0 {
		t.Errorf("Anim[0][0] = %d, want clamped to 0", ctx.Anim[0][0])
	}
}

func TestScan_ParsesOffsExtensionAndClamps(t *testing.T) {
	a := &spritearea.Area{
		Sprites: []spritearea.Sprite{
			newSprite("planet_0", nativefmt.PlanetWidth, nativefmt.PlanetHeight, eightBppOldMode),
		},
	}
	var payload []byte
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], 1)
	payload = append(payload, count[:]...)
	var xy [8]byte
	binary.LittleEndian.PutUint32(xy[0:4], uint32(int32(5))) // out of range, must clamp to 0
	y := int32(-999)
	binary.LittleEndian.PutUint32(xy[4:8], uint32(y))
	payload = append(payload, xy[:]...)
	a.Extension = appendExt(nil, "OFFS", payload)

	ctx, err := Scan(a)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !ctx.HasOffs || !ctx.FixedHdr {
		t.Fatalf("ctx = %+v, want HasOffs and FixedHdr", ctx)
	}
	if ctx.Offsets[0].X != 0 {
		t.Errorf("Offsets[0].X = %d, want 0", ctx.Offsets[0].X)
	}
	if ctx.Offsets[0].Y != -nativefmt.PlanetHeight {
		t.Errorf("Offsets[0].Y = %d, want %d", ctx.Offsets[0].Y, -nativefmt.PlanetHeight)
	}
}

func TestScan_ParsesHeigExtensionAndClamps(t *testing.T) {
	a := &spritearea.Area{}
	var payload [8]byte
	render := int32(-1)
	binary.LittleEndian.PutUint32(payload[0:4], uint32(render)) // below MinRenderOffset
	binary.LittleEndian.PutUint32(payload[4:8], uint32(int32(100)))
	a.Extension = appendExt(nil, "HEIG", payload[:])

	ctx, err := Scan(a)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !ctx.HasHeig || !ctx.FixedRender || ctx.FixedStars {
		t.Fatalf("ctx = %+v, want HasHeig and FixedRender only", ctx)
	}
	if ctx.RenderOffset != 0 {
		t.Errorf("RenderOffset = %d, want 0", ctx.RenderOffset)
	}
	if ctx.StarsHeight != 100 {
		t.Errorf("StarsHeight = %d, want 100", ctx.StarsHeight)
	}
}
