package convert

import (
	"errors"
	"testing"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/internal/nativefmt"
	"github.com/sf3k/skyconv/internal/scan"
)

func bottomUpTile(fill func(row, col int) byte) []byte {
	pixels := make([]byte, nativefmt.TileBytes)
	for row := 0; row < nativefmt.TileHeight; row++ {
		for col := 0; col < nativefmt.TileWidth; col++ {
			// Row 0 of a bottom-up bitmap is the image's bottom row, i.e. the
			// highest top-down row index.
			topDownRow := nativefmt.TileHeight - 1 - row
			pixels[row*nativefmt.TileWidth+col] = fill(topDownRow, col)
		}
	}
	return pixels
}

func TestTilesFromSprites_RoundTrip(t *testing.T) {
	ctx := &scan.ScanContext{
		Tiles: map[int]scan.Entry{
			0: {Pixels: bottomUpTile(func(row, col int) byte { return byte(row*16 + col) })},
			2: {Pixels: bottomUpTile(func(row, col int) byte { return byte(col) })},
		},
		MaxTileNum: 2,
		HasAnim:    true,
		Anim:       [3][4]byte{{0, 1, 2, 0}, {1, 1, 1, 1}, {2, 0, 1, 2}},
	}

	it, err := NewTilesFromSprites(ctx)
	if err != nil {
		t.Fatalf("NewTilesFromSprites() error = %v", err)
	}
	if err := Run(it); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	tiles := it.Result()
	if tiles.Header.LastTileNum != 2 {
		t.Fatalf("LastTileNum = %d, want 2", tiles.Header.LastTileNum)
	}
	// tile 0, top-down row 0 col 0 should be byte(0*16+0) = 0; row 1 col 2 = 18.
	if tiles.Bitmaps[0][1*16+2] != byte(1*16+2) {
		t.Errorf("tile 0 row1 col2 = %d, want %d", tiles.Bitmaps[0][1*16+2], byte(1*16+2))
	}
	// tile 1 is a gap: must be all zero.
	for _, b := range tiles.Bitmaps[1] {
		if b != 0 {
			t.Fatalf("gap tile 1 not zero-filled")
		}
	}

	// Convert back and check the row inversion round-trips.
	back := NewTilesToSprites(tiles, true)
	if err := Run(back); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	area := back.Result()
	if len(area.Extension) == 0 {
		t.Fatal("expected ANIM extension block")
	}
	got := area.Sprites[0].Pixels
	want := ctx.Tiles[0].Pixels
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("round-trip mismatch at byte %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestTilesFromSprites_RequiresAnim(t *testing.T) {
	ctx := &scan.ScanContext{MaxTileNum: 0}
	_, err := NewTilesFromSprites(ctx)
	if !errors.Is(err, errs.ErrNoAnim) {
		t.Fatalf("NewTilesFromSprites() error = %v, want ErrNoAnim", err)
	}
}

func TestTilesFromSprites_RejectsWrongSize(t *testing.T) {
	ctx := &scan.ScanContext{
		Tiles:      map[int]scan.Entry{0: {Pixels: make([]byte, 10)}},
		MaxTileNum: 0,
		HasAnim:    true,
	}
	it, err := NewTilesFromSprites(ctx)
	if err != nil {
		t.Fatalf("NewTilesFromSprites() error = %v", err)
	}
	_, err = it.Advance()
	if !errors.Is(err, errs.ErrBadImages) {
		t.Fatalf("Advance() error = %v, want ErrBadImages", err)
	}
}
