package csvbridge

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/internal/nativefmt"
	"github.com/sf3k/skyconv/sky"
)

func TestTileAnimCSV_RoundTrip(t *testing.T) {
	h := nativefmt.TileHeader{
		LastTileNum:     10,
		SplashAnim1:     [4]byte{1, 2, 3, 4},
		SplashAnim2:     [4]byte{5, 6, 7, 8},
		SplashTriggers2: [4]byte{9, 0, 1, 2},
	}
	var buf bytes.Buffer
	if err := WriteTileAnimCSV(&buf, h); err != nil {
		t.Fatalf("WriteTileAnimCSV() error = %v", err)
	}

	got, err := ReadTileAnimCSV(&buf, nativefmt.TileHeader{LastTileNum: h.LastTileNum})
	if err != nil {
		t.Fatalf("ReadTileAnimCSV() error = %v", err)
	}
	if got.SplashAnim1 != h.SplashAnim1 || got.SplashAnim2 != h.SplashAnim2 || got.SplashTriggers2 != h.SplashTriggers2 {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestTileAnimCSV_RejectsWrongLineCount(t *testing.T) {
	r := strings.NewReader("1,2,3,4\n5,6,7,8\n")
	_, err := ReadTileAnimCSV(r, nativefmt.TileHeader{})
	if !errors.Is(err, errs.ErrBadAnims) {
		t.Fatalf("ReadTileAnimCSV() error = %v, want ErrBadAnims", err)
	}
}

func TestTileAnimCSV_RejectsOversizedInput(t *testing.T) {
	r := strings.NewReader(strings.Repeat("1,2,3,4\n", 40))
	_, err := ReadTileAnimCSV(r, nativefmt.TileHeader{})
	if !errors.Is(err, errs.ErrStrOFlo) {
		t.Fatalf("ReadTileAnimCSV() error = %v, want ErrStrOFlo", err)
	}
}

func TestPlanetOffsetsCSV_RoundTrip(t *testing.T) {
	h := nativefmt.PlanetHeader{LastImageNum: 1}
	h.PaintCoords[0] = nativefmt.PaintCoord{X: -4, Y: -8}
	h.PaintCoords[1] = nativefmt.PaintCoord{X: 0, Y: -30}

	var buf bytes.Buffer
	if err := WritePlanetOffsetsCSV(&buf, h, 2); err != nil {
		t.Fatalf("WritePlanetOffsetsCSV() error = %v", err)
	}

	got, err := ReadPlanetOffsetsCSV(&buf, nativefmt.PlanetHeader{}, 2)
	if err != nil {
		t.Fatalf("ReadPlanetOffsetsCSV() error = %v", err)
	}
	if got.PaintCoords != h.PaintCoords {
		t.Errorf("round trip mismatch: got %+v, want %+v", got.PaintCoords, h.PaintCoords)
	}
}

func TestPlanetOffsetsCSV_RejectsWrongLineCount(t *testing.T) {
	r := strings.NewReader("-4,-8\n")
	_, err := ReadPlanetOffsetsCSV(r, nativefmt.PlanetHeader{}, 2)
	if !errors.Is(err, errs.ErrBadPaintOff) {
		t.Fatalf("ReadPlanetOffsetsCSV() error = %v, want ErrBadPaintOff", err)
	}
}

func TestSkyScalarsCSV_RoundTrip(t *testing.T) {
	v := sky.New()
	v.SetRenderOffsetRaw(1200)
	v.SetStarsHeightRaw(-400)

	var buf bytes.Buffer
	if err := WriteSkyScalarsCSV(&buf, v); err != nil {
		t.Fatalf("WriteSkyScalarsCSV() error = %v", err)
	}

	got := sky.New()
	if err := ReadSkyScalarsCSV(&buf, got); err != nil {
		t.Fatalf("ReadSkyScalarsCSV() error = %v", err)
	}
	if got.RenderOffset() != v.RenderOffset() || got.StarsHeight() != v.StarsHeight() {
		t.Errorf("round trip mismatch: got %d,%d want %d,%d", got.RenderOffset(), got.StarsHeight(), v.RenderOffset(), v.StarsHeight())
	}
}

func TestSkyScalarsCSV_RejectsExtraLines(t *testing.T) {
	r := strings.NewReader("100,200\n300,400\n")
	err := ReadSkyScalarsCSV(r, sky.New())
	if !errors.Is(err, errs.ErrBadRend) {
		t.Fatalf("ReadSkyScalarsCSV() error = %v, want ErrBadRend", err)
	}
}
