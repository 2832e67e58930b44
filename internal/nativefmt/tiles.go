// Package nativefmt implements strict readers and writers for the game's
// native tile-set, planet, and sky binary layouts. Each type here owns
// exactly the bytes the game itself reads; the
// sprite-area bridging (row order, margin stripping, de-dithering against a
// second copy) is a concern of package convert, not this package.
package nativefmt

import (
	"fmt"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/stream"
)

// TileWidth and TileHeight are the fixed dimensions of one native tile
// bitmap: tile sprites are 16×16.
const (
	TileWidth  = 16
	TileHeight = 16
	TileBytes  = TileWidth * TileHeight

	// MaxTileNum is the highest legal tile number.
	MaxTileNum = 254

	// TileHeaderSize is the fixed size of TileHeader on the wire.
	TileHeaderSize = 16
)

// TileHeader is the fixed-size header of a native tile-set file.
type TileHeader struct {
	LastTileNum     int32
	SplashAnim1     [4]byte
	SplashAnim2     [4]byte
	SplashTriggers2 [4]byte
}

// validate enforces: last_tile_num ∈ [0,254] and each
// animation frame ≤ last_tile_num.
func (h *TileHeader) validate() error {
	if h.LastTileNum < 0 || h.LastTileNum > MaxTileNum {
		return fmt.Errorf("%w: last_tile_num %d out of range [0,%d]", errs.ErrBadNumGFX, h.LastTileNum, MaxTileNum)
	}
	for _, frame := range [][4]byte{h.SplashAnim1, h.SplashAnim2, h.SplashTriggers2} {
		for _, f := range frame {
			if int32(f) > h.LastTileNum {
				return fmt.Errorf("%w: animation frame %d exceeds last_tile_num %d", errs.ErrBadAnims, f, h.LastTileNum)
			}
		}
	}
	return nil
}

// Tiles is a fully loaded native tile-set: its header plus one 256-byte,
// top-down, 8bpp bitmap per tile index 0..=LastTileNum.
type Tiles struct {
	Header  TileHeader
	Bitmaps [][TileBytes]byte
}

// ReadTiles reads and validates a native tile-set file from r.
func ReadTiles(r *stream.Reader) (*Tiles, error) {
	var h TileHeader
	last, err := r.ReadInt32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: tile header: %v", errs.ErrReadFail, err)
	}
	h.LastTileNum = last
	for _, dst := range []*[4]byte{&h.SplashAnim1, &h.SplashAnim2, &h.SplashTriggers2} {
		if _, err := r.Read(dst[:]); err != nil {
			return nil, fmt.Errorf("%w: tile header: %v", errs.ErrReadFail, err)
		}
	}
	if err := h.validate(); err != nil {
		return nil, err
	}

	count := int(h.LastTileNum) + 1
	bitmaps := make([][TileBytes]byte, count)
	for i := 0; i < count; i++ {
		if _, err := r.Read(bitmaps[i][:]); err != nil {
			if r.EOF() {
				return nil, fmt.Errorf("%w: tile %d bitmap", errs.ErrTrunc, i)
			}
			return nil, fmt.Errorf("%w: tile %d bitmap: %v", errs.ErrReadFail, i, err)
		}
	}
	return &Tiles{Header: h, Bitmaps: bitmaps}, nil
}

// WriteTiles writes a native tile-set file to w.
func WriteTiles(w *stream.Writer, t *Tiles) error {
	if err := t.Header.validate(); err != nil {
		return err
	}
	if len(t.Bitmaps) != int(t.Header.LastTileNum)+1 {
		return fmt.Errorf("%w: %d bitmaps for last_tile_num %d", errs.ErrBadNumGFX, len(t.Bitmaps), t.Header.LastTileNum)
	}
	if err := w.WriteInt32LE(t.Header.LastTileNum); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
	}
	for _, src := range [][4]byte{t.Header.SplashAnim1, t.Header.SplashAnim2, t.Header.SplashTriggers2} {
		if _, err := w.Write(src[:]); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
		}
	}
	for i, bmp := range t.Bitmaps {
		if _, err := w.Write(bmp[:]); err != nil {
			return fmt.Errorf("%w: tile %d: %v", errs.ErrWriteFail, i, err)
		}
	}
	return nil
}
