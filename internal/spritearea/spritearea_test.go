package spritearea

import (
	"errors"
	"io"
	"testing"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/stream"
)

type memRWS struct {
	buf []byte
	pos int64
}

func newMemRWS(data []byte) *memRWS {
	return &memRWS{buf: append([]byte(nil), data...)}
}

func (m *memRWS) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

func (m *memRWS) Write(p []byte) (int, error) {
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

func (m *memRWS) Seek(offset int64, whence int) (int64, error) {
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

func newSprite(name string, width, height int, pixelByte byte) Sprite {
	var h SpriteHeader
	h.SetName(name)
	words := (width + 3) / 4
	h.WidthWordsMinus1 = int32(words - 1)
	h.HeightMinus1 = int32(height - 1)
	h.LeftBit = 0
	h.RightBit = int32((width-(words-1)*4)*8 - 1)
	h.ImageOffset = SpriteHeaderSize
	h.Type = 21 // old-format 8bpp mode number
	pixels := make([]byte, width*height)
	for i := range pixels {
		pixels[i] = pixelByte
	}
	h.MaskOffset = h.ImageOffset + int32(len(pixels))
	return Sprite{Header: h, Pixels: pixels}
}

func TestArea_RoundTrip(t *testing.T) {
	a := &Area{
		Extension: []byte("ANIM"),
		Sprites: []Sprite{
			newSprite("tile_0", 16, 16, 0x11),
			newSprite("sky", 4, 126, 0x22),
		},
	}

	m := newMemRWS(nil)
	w := stream.NewWriter(m)
	if err := WriteArea(w, a); err != nil {
		t.Fatalf("WriteArea() error = %v", err)
	}
	w.Close()

	r := stream.NewReader(newMemRWS(m.buf))
	got, err := ReadArea(r)
	if err != nil {
		t.Fatalf("ReadArea() error = %v", err)
	}
	if got.Count != 2 {
		t.Errorf("Count = %d, want 2", got.Count)
	}
	if string(got.Extension) != "ANIM" {
		t.Errorf("Extension = %q, want ANIM", got.Extension)
	}
	if len(got.Sprites) != 2 {
		t.Fatalf("len(Sprites) = %d, want 2", len(got.Sprites))
	}
	for i, want := range a.Sprites {
		gs := got.Sprites[i]
		if gs.Header.NameString() != want.Header.NameString() {
			t.Errorf("sprite %d name = %q, want %q", i, gs.Header.NameString(), want.Header.NameString())
		}
		if gs.Header.Width() != want.Header.Width() || gs.Header.Height() != want.Header.Height() {
			t.Errorf("sprite %d dims = %dx%d, want %dx%d", i, gs.Header.Width(), gs.Header.Height(), want.Header.Width(), want.Header.Height())
		}
		if string(gs.Pixels) != string(want.Pixels) {
			t.Errorf("sprite %d pixels mismatch", i)
		}
	}
}

func TestArea_RejectsBadImageOffset(t *testing.T) {
	s := newSprite("tile_0", 16, 16, 0)
	s.Header.ImageOffset = SpriteHeaderSize - 1
	a := &Area{Sprites: []Sprite{s}}

	m := newMemRWS(nil)
	w := stream.NewWriter(m)
	err := WriteArea(w, a)
	if !errors.Is(err, errs.ErrBadImages) {
		t.Fatalf("WriteArea() error = %v, want ErrBadImages", err)
	}
}

func TestArea_RejectsBadFirstOffset(t *testing.T) {
	var buf []byte
	buf = append(buf, 0, 0, 0, 0) // count = 0
	buf = append(buf, 4, 0, 0, 0) // first_offset = 4, below HeaderSize
	buf = append(buf, 4, 0, 0, 0) // used_size = 4
	buf = append(buf, make([]byte, reservedSize)...)

	r := stream.NewReader(newMemRWS(buf))
	_, err := ReadArea(r)
	if !errors.Is(err, errs.ErrTooShort) {
		t.Fatalf("ReadArea() error = %v, want ErrTooShort", err)
	}
}

func TestIsEightBpp(t *testing.T) {
	flag := newFormatFlag
	cases := []struct {
		typ  int32
		want bool
	}{
		{10, true},
		{21, true},
		{40, true},
		{9, false},
		{int32(flag | uint32(3)<<newFormatBppShift), true},
		{int32(flag | uint32(4)<<newFormatBppShift), false},
	}
	for _, c := range cases {
		if got := IsEightBpp(c.typ); got != c.want {
			t.Errorf("IsEightBpp(%d) = %v, want %v", c.typ, got, c.want)
		}
	}
}

func TestSpriteHeader_NameRoundTrip(t *testing.T) {
	var h SpriteHeader
	h.SetName("tile_12")
	if got := h.NameString(); got != "tile_12" {
		t.Errorf("NameString() = %q, want tile_12", got)
	}
}
