package skyconv

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/internal/nativefmt"
	"github.com/sf3k/skyconv/internal/spritearea"
	"github.com/sf3k/skyconv/sky"
	"github.com/sf3k/skyconv/stream"
)

// memWriteSeeker is an in-memory io.WriteSeeker for round-tripping a
// stream.Writer's output back through a stream.Reader.
type memWriteSeeker struct {
	buf []byte
	pos int64
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var n int64
	switch whence {
	case io.SeekStart:
		n = offset
	case io.SeekCurrent:
		n = m.pos + offset
	case io.SeekEnd:
		n = int64(len(m.buf)) + offset
	}
	m.pos = n
	return n, nil
}

func TestConvertSkyRoundTrip(t *testing.T) {
	v := sky.New()
	v.SetRenderOffsetRaw(900)
	v.SetStarsHeightRaw(-150)
	for i := 0; i < sky.NumBands; i++ {
		v.SetBandRaw(i, (i*7+3)%256)
	}

	area, err := ConvertSkyToSprites(v, true)
	if err != nil {
		t.Fatalf("ConvertSkyToSprites() error = %v", err)
	}

	mw := &memWriteSeeker{}
	w := stream.NewWriter(mw)
	if err := spritearea.WriteArea(w, area); err != nil {
		t.Fatalf("WriteArea() error = %v", err)
	}

	r := stream.NewReader(bytes.NewReader(mw.buf))
	got, err := ConvertSpritesToSky(r)
	if err != nil {
		t.Fatalf("ConvertSpritesToSky() error = %v", err)
	}
	if got.RenderOffset() != v.RenderOffset() || got.StarsHeight() != v.StarsHeight() {
		t.Errorf("scalars = %d,%d want %d,%d", got.RenderOffset(), got.StarsHeight(), v.RenderOffset(), v.StarsHeight())
	}
	for i := 0; i < sky.NumBands; i++ {
		if got.Band(i) != v.Band(i) {
			t.Errorf("Band(%d) = %d, want %d", i, got.Band(i), v.Band(i))
		}
	}
}

func TestConvertTilesRoundTrip(t *testing.T) {
	tiles := &nativefmt.Tiles{
		Header:  nativefmt.TileHeader{LastTileNum: 1},
		Bitmaps: make([][nativefmt.TileBytes]byte, 2),
	}
	for i := range tiles.Bitmaps[1] {
		tiles.Bitmaps[1][i] = byte(i)
	}

	area, err := ConvertTilesToSprites(tiles, true)
	if err != nil {
		t.Fatalf("ConvertTilesToSprites() error = %v", err)
	}

	mw := &memWriteSeeker{}
	w := stream.NewWriter(mw)
	if err := spritearea.WriteArea(w, area); err != nil {
		t.Fatalf("WriteArea() error = %v", err)
	}

	r := stream.NewReader(bytes.NewReader(mw.buf))
	got, err := ConvertSpritesToTiles(r)
	if err != nil {
		t.Fatalf("ConvertSpritesToTiles() error = %v", err)
	}
	if got.Header.LastTileNum != tiles.Header.LastTileNum {
		t.Errorf("LastTileNum = %d, want %d", got.Header.LastTileNum, tiles.Header.LastTileNum)
	}
	if got.Bitmaps[1] != tiles.Bitmaps[1] {
		t.Errorf("Bitmaps[1] mismatch")
	}
}

func TestConvertSpritesToPlanets_RequiresOffs(t *testing.T) {
	tiles := &nativefmt.Tiles{Header: nativefmt.TileHeader{LastTileNum: 0}, Bitmaps: make([][nativefmt.TileBytes]byte, 1)}
	area, err := ConvertTilesToSprites(tiles, true)
	if err != nil {
		t.Fatalf("ConvertTilesToSprites() error = %v", err)
	}

	mw := &memWriteSeeker{}
	w := stream.NewWriter(mw)
	if err := spritearea.WriteArea(w, area); err != nil {
		t.Fatalf("WriteArea() error = %v", err)
	}

	r := stream.NewReader(bytes.NewReader(mw.buf))
	_, err = ConvertSpritesToPlanets(r)
	if !errors.Is(err, errs.ErrNoOffset) {
		t.Errorf("ConvertSpritesToPlanets() error = %v, want ErrNoOffset", err)
	}
}
