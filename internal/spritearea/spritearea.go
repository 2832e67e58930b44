// Package spritearea implements the generic sprite-area
// container that third-party editors read and write. The format is a
// sequential TLV stream much like a JP2 box stream (a small fixed header,
// an optional tagged extension region, then one fixed-size sprite header
// per image followed by its pixel rows), so the reader and writer below
// follow the same ReadBox/WriteBox shape as an ordinary box codec.
package spritearea

import (
	"fmt"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/stream"
)

// HeaderSize is the size of the leading sprite-area header: the extension
// region is placed at [16, first_offset), with the bit-exact layout
// starting the extension at byte 12 and first_offset required to be ≥16;
// both are satisfied by a 12-byte core header (count, first_offset,
// used_size) followed by 4 reserved bytes, so HeaderSize covers both.
const HeaderSize = 16

// reservedSize is the always-zero padding between the core header fields
// and the start of the extension region proper.
const reservedSize = 4

// SpriteHeaderSize is the size of the fixed per-sprite header.
const SpriteHeaderSize = 44

// Old-format sprite mode numbers that indicate an 8-bits-per-pixel mode.
var old8bppModes = [...]int32{10, 13, 15, 21, 24, 28, 32, 36, 40}

// New-format type field layout: bit 31 flags new format, bits 27-29 hold
// log2(bits per pixel).
const (
	newFormatFlag      = uint32(1) << 31
	newFormatBppShift  = 27
	newFormatBppMask   = 0x7
	newFormatEightBpp  = 3 // log2(8)
)

// IsEightBpp reports whether typ encodes an 8-bits-per-pixel sprite, under
// either the old mode-number scheme or the new bitfield scheme.
func IsEightBpp(typ int32) bool {
	u := uint32(typ)
	if u&newFormatFlag != 0 {
		return (u>>newFormatBppShift)&newFormatBppMask == newFormatEightBpp
	}
	for _, m := range old8bppModes {
		if typ == m {
			return true
		}
	}
	return false
}

// SpriteHeader is the fixed 44-byte header preceding one sprite's pixel
// data.
type SpriteHeader struct {
	SizeBytes        int32
	Name             [12]byte
	WidthWordsMinus1 int32
	HeightMinus1     int32
	LeftBit          int32
	RightBit         int32
	ImageOffset      int32
	MaskOffset       int32
	Type             int32
}

// Width returns the sprite's pixel width, assuming 8 bits per pixel (4
// pixels per 32-bit word). The final word need not be fully used: RightBit
// gives the bit offset of the last significant pixel within it, so a width
// that isn't a multiple of 4 (e.g. a planet's 34 pixels) is still exact.
func (h *SpriteHeader) Width() int {
	words := int(h.WidthWordsMinus1) + 1
	lastWordPixels := int(h.RightBit)/8 + 1 - int(h.LeftBit)/8
	return (words-1)*4 + lastWordPixels
}

// Height returns the sprite's pixel height.
func (h *SpriteHeader) Height() int {
	return int(h.HeightMinus1) + 1
}

// NameString returns the NUL/space-trimmed sprite name.
func (h *SpriteHeader) NameString() string {
	n := 0
	for n < len(h.Name) && h.Name[n] != 0 && h.Name[n] != ' ' {
		n++
	}
	return string(h.Name[:n])
}

// SetName stores name into the fixed 12-byte, zero-padded Name field.
func (h *SpriteHeader) SetName(name string) {
	var buf [12]byte
	copy(buf[:], name)
	h.Name = buf
}

// validate enforces the structural per-image invariants: offset bounds.
// The 8bpp pixel-format check is not a container-level invariant (the
// scanner rejects non-8bpp sprites as "bad" without aborting the load), so
// that check lives in package scan.
func (h *SpriteHeader) validate() error {
	if h.ImageOffset < SpriteHeaderSize || h.ImageOffset > h.SizeBytes {
		return fmt.Errorf("%w: image_offset %d out of range [%d,%d]", errs.ErrBadImages, h.ImageOffset, SpriteHeaderSize, h.SizeBytes)
	}
	if h.MaskOffset < h.ImageOffset || h.MaskOffset > h.SizeBytes {
		return fmt.Errorf("%w: mask_offset %d out of range [%d,%d]", errs.ErrBadImages, h.MaskOffset, h.ImageOffset, h.SizeBytes)
	}
	return nil
}

// Sprite is one decoded sprite: its header, the absolute byte offset of
// its pixel data within the area, and the raw pixel bytes themselves
// (bottom-up rows).
type Sprite struct {
	Header       SpriteHeader
	PixelOffset  int64 // absolute offset of the first pixel byte
	Pixels       []byte
}

// Area is a fully loaded sprite area.
type Area struct {
	Count       int32
	FirstOffset int32
	UsedSize    int32
	Extension   []byte
	Sprites     []Sprite
}

func readSpriteHeader(r *stream.Reader) (SpriteHeader, error) {
	var h SpriteHeader
	var err error
	if h.SizeBytes, err = r.ReadInt32LE(); err != nil {
		return h, fmt.Errorf("%w: sprite header: %v", errs.ErrReadFail, err)
	}
	if _, err := r.Read(h.Name[:]); err != nil {
		return h, fmt.Errorf("%w: sprite header: %v", errs.ErrReadFail, err)
	}
	ints := []*int32{&h.WidthWordsMinus1, &h.HeightMinus1, &h.LeftBit, &h.RightBit, &h.ImageOffset, &h.MaskOffset, &h.Type}
	for _, p := range ints {
		v, err := r.ReadInt32LE()
		if err != nil {
			return h, fmt.Errorf("%w: sprite header: %v", errs.ErrReadFail, err)
		}
		*p = v
	}
	return h, nil
}

func writeSpriteHeader(w *stream.Writer, h SpriteHeader) error {
	if err := w.WriteInt32LE(h.SizeBytes); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
	}
	if _, err := w.Write(h.Name[:]); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
	}
	rest := []int32{h.WidthWordsMinus1, h.HeightMinus1, h.LeftBit, h.RightBit, h.ImageOffset, h.MaskOffset, h.Type}
	for _, v := range rest {
		if err := w.WriteInt32LE(v); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
		}
	}
	return nil
}

// ReadArea reads a complete sprite area from r, which must be seekable.
func ReadArea(r *stream.Reader) (*Area, error) {
	a := &Area{}
	count, err := r.ReadInt32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: area header: %v", errs.ErrReadFail, err)
	}
	first, err := r.ReadInt32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: area header: %v", errs.ErrReadFail, err)
	}
	used, err := r.ReadInt32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: area header: %v", errs.ErrReadFail, err)
	}
	var reserved [reservedSize]byte
	if _, err := r.Read(reserved[:]); err != nil {
		return nil, fmt.Errorf("%w: area header: %v", errs.ErrReadFail, err)
	}
	if first < HeaderSize || first > used {
		return nil, fmt.Errorf("%w: first_offset %d out of range [%d,%d]", errs.ErrTooShort, first, HeaderSize, used)
	}
	a.Count, a.FirstOffset, a.UsedSize = count, first, used

	extLen := first - HeaderSize
	if extLen > 0 {
		a.Extension = make([]byte, extLen)
		if _, err := r.Read(a.Extension); err != nil {
			return nil, fmt.Errorf("%w: extension region: %v", errs.ErrReadFail, err)
		}
	}

	a.Sprites = make([]Sprite, 0, count)
	for i := int32(0); i < count; i++ {
		recordStart := r.Tell()
		if recordStart < 0 {
			return nil, errs.ErrBadTell
		}

		h, err := readSpriteHeader(r)
		if err != nil {
			return nil, fmt.Errorf("sprite %d: %w", i, err)
		}
		if err := h.validate(); err != nil {
			return nil, fmt.Errorf("sprite %d: %w", i, err)
		}

		pixelLen := h.SizeBytes - SpriteHeaderSize
		if pixelLen < 0 {
			return nil, fmt.Errorf("%w: sprite %d size_bytes %d too small", errs.ErrBadSprite, i, h.SizeBytes)
		}
		pixels := make([]byte, pixelLen)
		if len(pixels) > 0 {
			if _, err := r.Read(pixels); err != nil {
				return nil, fmt.Errorf("%w: sprite %d pixels: %v", errs.ErrTrunc, i, err)
			}
		}
		a.Sprites = append(a.Sprites, Sprite{
			Header:      h,
			PixelOffset: recordStart + SpriteHeaderSize,
			Pixels:      pixels,
		})
	}
	return a, nil
}

// WriteArea writes a complete sprite area to w, recomputing FirstOffset and
// UsedSize from a.Extension and a.Sprites.
func WriteArea(w *stream.Writer, a *Area) error {
	a.FirstOffset = HeaderSize + int32(len(a.Extension))
	used := a.FirstOffset
	for i := range a.Sprites {
		a.Sprites[i].Header.SizeBytes = SpriteHeaderSize + int32(len(a.Sprites[i].Pixels))
		used += a.Sprites[i].Header.SizeBytes
	}
	a.UsedSize = used
	a.Count = int32(len(a.Sprites))

	if err := w.WriteInt32LE(a.Count); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
	}
	if err := w.WriteInt32LE(a.FirstOffset); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
	}
	if err := w.WriteInt32LE(a.UsedSize); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
	}
	var reserved [reservedSize]byte
	if _, err := w.Write(reserved[:]); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
	}
	if len(a.Extension) > 0 {
		if _, err := w.Write(a.Extension); err != nil {
			return fmt.Errorf("%w: extension region: %v", errs.ErrWriteFail, err)
		}
	}
	for i, s := range a.Sprites {
		if err := s.Header.validate(); err != nil {
			return fmt.Errorf("sprite %d: %w", i, err)
		}
		if err := writeSpriteHeader(w, s.Header); err != nil {
			return fmt.Errorf("sprite %d: %w", i, err)
		}
		if _, err := w.Write(s.Pixels); err != nil {
			return fmt.Errorf("%w: sprite %d pixels: %v", errs.ErrWriteFail, i, err)
		}
	}
	return nil
}
