package nativefmt

import (
	"fmt"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/stream"
)

// Planet bitmap dimensions. PlanetWidth is the padded width including the
// 2-pixel black margin that Copy A/B carry; the actual visible image is
// PlanetWidth-2 wide.
const (
	PlanetWidth  = 34
	PlanetHeight = 36
	PlanetBytes  = PlanetWidth * PlanetHeight

	// MaxLastImageNum is the highest legal last_image_num: a planet file
	// holds at most two images.
	MaxLastImageNum = 1
	MaxPlanetImages = MaxLastImageNum + 1

	// PlanetHeaderSize is the fixed size of PlanetHeader on the wire.
	PlanetHeaderSize = 36

	// PlanetFileSizeMax bounds the offsets a planet file may declare. The
	// source format has no documented upper bound beyond what the host OS
	// permitted; this is a generous bound for a 2-image, 34x36 asset and
	// is treated as an implementation choice, not a format invariant.
	PlanetFileSizeMax = 1 << 20
)

// PaintCoord is a planet image's paint offset, clamped to keep the visible
// (width-2)xheight image within the on-screen canvas.
type PaintCoord struct {
	X, Y int32
}

// CopyOffsets locates a planet image's two dithered copies within the file.
type CopyOffsets struct {
	A, B int32
}

// PlanetHeader is the fixed-size header of a native planet file.
type PlanetHeader struct {
	LastImageNum int32
	PaintCoords  [MaxPlanetImages]PaintCoord
	DataOffsets  [MaxPlanetImages]CopyOffsets
}

type byteRange struct {
	start, end int32 // [start, end)
}

func (r byteRange) overlaps(o byteRange) bool {
	return r.start < o.end && o.start < r.end
}

// validate enforces: last_image_num ∈ {0,1}; each used image's
// paint coordinates keep the visible image on screen; bitmap offsets are
// within bounds and the copies of every used image are non-overlapping.
func (h *PlanetHeader) validate() error {
	if h.LastImageNum < 0 || h.LastImageNum > MaxLastImageNum {
		return fmt.Errorf("%w: last_image_num %d out of range [0,%d]", errs.ErrBadNumGFX, h.LastImageNum, MaxLastImageNum)
	}

	visibleWidth := int32(PlanetWidth - 2)
	var ranges []byteRange
	for i := int32(0); i <= h.LastImageNum; i++ {
		c := h.PaintCoords[i]
		if c.X < -visibleWidth || c.X > 0 {
			return fmt.Errorf("%w: image %d paint x %d out of range [%d,0]", errs.ErrBadPaintOff, i, c.X, -visibleWidth)
		}
		if c.Y < -PlanetHeight || c.Y > 0 {
			return fmt.Errorf("%w: image %d paint y %d out of range [%d,0]", errs.ErrBadPaintOff, i, c.Y, -PlanetHeight)
		}

		offs := h.DataOffsets[i]
		for _, off := range []int32{offs.A, offs.B} {
			if off < PlanetHeaderSize || off > PlanetFileSizeMax-PlanetBytes {
				return fmt.Errorf("%w: image %d data offset %d out of range [%d,%d]", errs.ErrBadDataOff, i, off, PlanetHeaderSize, PlanetFileSizeMax-PlanetBytes)
			}
			ranges = append(ranges, byteRange{off, off + PlanetBytes})
		}
	}
	for i := range ranges {
		for j := i + 1; j < len(ranges); j++ {
			if ranges[i].overlaps(ranges[j]) {
				return fmt.Errorf("%w: overlapping bitmap offsets", errs.ErrBadDataOff)
			}
		}
	}
	return nil
}

// PlanetImage holds the two raw dithered copies read for one image index.
type PlanetImage struct {
	CopyA [PlanetBytes]byte
	CopyB [PlanetBytes]byte
}

// Planets is a fully loaded native planet file: its header plus, for each
// used image, the two raw dithered PlanetBytes-sized copies read from the
// offsets the header declares. De-dithering and margin handling are a
// concern of package convert, not this reader.
type Planets struct {
	Header PlanetHeader
	Images []PlanetImage // len == Header.LastImageNum+1
}

func readPlanetHeader(r *stream.Reader) (PlanetHeader, error) {
	var h PlanetHeader
	last, err := r.ReadInt32LE()
	if err != nil {
		return h, fmt.Errorf("%w: planet header: %v", errs.ErrReadFail, err)
	}
	h.LastImageNum = last
	for i := range h.PaintCoords {
		x, err := r.ReadInt32LE()
		if err != nil {
			return h, fmt.Errorf("%w: planet header: %v", errs.ErrReadFail, err)
		}
		y, err := r.ReadInt32LE()
		if err != nil {
			return h, fmt.Errorf("%w: planet header: %v", errs.ErrReadFail, err)
		}
		h.PaintCoords[i] = PaintCoord{X: x, Y: y}
	}
	for i := range h.DataOffsets {
		a, err := r.ReadInt32LE()
		if err != nil {
			return h, fmt.Errorf("%w: planet header: %v", errs.ErrReadFail, err)
		}
		b, err := r.ReadInt32LE()
		if err != nil {
			return h, fmt.Errorf("%w: planet header: %v", errs.ErrReadFail, err)
		}
		h.DataOffsets[i] = CopyOffsets{A: a, B: b}
	}
	return h, nil
}

func writePlanetHeader(w *stream.Writer, h PlanetHeader) error {
	if err := w.WriteInt32LE(h.LastImageNum); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
	}
	for _, c := range h.PaintCoords {
		if err := w.WriteInt32LE(c.X); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
		}
		if err := w.WriteInt32LE(c.Y); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
		}
	}
	for _, o := range h.DataOffsets {
		if err := w.WriteInt32LE(o.A); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
		}
		if err := w.WriteInt32LE(o.B); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
		}
	}
	return nil
}

// ReadPlanets reads and validates a native planet file from r. r must be
// seekable: each image's two copies live at the byte offsets declared in
// the header, not necessarily immediately after it.
func ReadPlanets(r *stream.Reader) (*Planets, error) {
	h, err := readPlanetHeader(r)
	if err != nil {
		return nil, err
	}
	if err := h.validate(); err != nil {
		return nil, err
	}

	count := int(h.LastImageNum) + 1
	images := make([]PlanetImage, count)
	for i := 0; i < count; i++ {
		offs := h.DataOffsets[i]
		if err := r.Seek(int64(offs.A), stream.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: image %d copy A: %v", errs.ErrBadSeek, i, err)
		}
		if _, err := r.Read(images[i].CopyA[:]); err != nil {
			return nil, fmt.Errorf("%w: image %d copy A: %v", errs.ErrReadFail, i, err)
		}
		if err := r.Seek(int64(offs.B), stream.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: image %d copy B: %v", errs.ErrBadSeek, i, err)
		}
		if _, err := r.Read(images[i].CopyB[:]); err != nil {
			return nil, fmt.Errorf("%w: image %d copy B: %v", errs.ErrReadFail, i, err)
		}
	}
	return &Planets{Header: h, Images: images}, nil
}

// WritePlanets writes a native planet file to w. The header's DataOffsets
// determine where each image's copies land; callers that don't care about
// layout can use DefaultPlanetOffsets to pack images back-to-back after the
// header.
func WritePlanets(w *stream.Writer, p *Planets) error {
	if err := p.Header.validate(); err != nil {
		return err
	}
	if len(p.Images) != int(p.Header.LastImageNum)+1 {
		return fmt.Errorf("%w: %d images for last_image_num %d", errs.ErrBadNumGFX, len(p.Images), p.Header.LastImageNum)
	}
	if err := writePlanetHeader(w, p.Header); err != nil {
		return err
	}
	for i, img := range p.Images {
		offs := p.Header.DataOffsets[i]
		if err := w.Seek(int64(offs.A), stream.SeekStart); err != nil {
			return fmt.Errorf("%w: image %d copy A: %v", errs.ErrBadSeek, i, err)
		}
		if _, err := w.Write(img.CopyA[:]); err != nil {
			return fmt.Errorf("%w: image %d copy A: %v", errs.ErrWriteFail, i, err)
		}
		if err := w.Seek(int64(offs.B), stream.SeekStart); err != nil {
			return fmt.Errorf("%w: image %d copy B: %v", errs.ErrBadSeek, i, err)
		}
		if _, err := w.Write(img.CopyB[:]); err != nil {
			return fmt.Errorf("%w: image %d copy B: %v", errs.ErrWriteFail, i, err)
		}
	}
	return nil
}

// DefaultPlanetOffsets lays out count images (1 or 2) back-to-back
// immediately after the header, copy A then copy B per image.
func DefaultPlanetOffsets(count int) [MaxPlanetImages]CopyOffsets {
	var offs [MaxPlanetImages]CopyOffsets
	next := int32(PlanetHeaderSize)
	for i := 0; i < count; i++ {
		offs[i] = CopyOffsets{A: next, B: next + PlanetBytes}
		next += 2 * PlanetBytes
	}
	return offs
}
