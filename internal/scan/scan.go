// Package scan classifies the sprites inside a loaded sprite area as
// tiles, planets, or a sky, and parses the optional extension metadata
// that precedes them. It is the first pass of the sprite-area-to-native
// conversion; the second pass lives in package convert.
package scan

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/internal/nativefmt"
	"github.com/sf3k/skyconv/internal/spritearea"
	"github.com/sf3k/skyconv/sky"
)

// Kind identifies which native asset a sprite was classified as.
type Kind int

const (
	KindUnknown Kind = iota
	KindTile
	KindPlanet
	KindSky
)

func (k Kind) String() string {
	switch k {
	case KindTile:
		return "tile"
	case KindPlanet:
		return "planet"
	case KindSky:
		return "sky"
	default:
		return "unknown"
	}
}

// skySpriteHeight is the sprite-area height of the sky sprite. The sky's
// dimension class is sometimes shorthanded as "(4×126)", pairing the row
// width with the band count rather than the pixel height, but each band
// actually occupies two rows (a dither row and a plain row), so the
// actual sprite is 4 wide by 2*NumBands tall.
const skySpriteHeight = 2 * sky.NumBands

var namePattern = regexp.MustCompile(`^[A-Za-z]+_([0-9]+)$`)

// Entry locates one classified sprite's pixel data within the scanned area.
type Entry struct {
	PixelOffset int64
	Pixels      []byte
}

// OffsetPair is one (x, y) paint-offset pair from an "OFFS" extension tag.
type OffsetPair struct {
	X, Y int32
}

// ScanContext is the result of scanning a sprite area.
type ScanContext struct {
	Tiles   map[int]Entry
	Planets map[int]Entry
	Sky     *Entry

	MaxTileNum   int
	MaxPlanetNum int
	BadSprites   int

	HasAnim  bool
	Anim     [3][4]byte
	FixedHdr bool

	HasOffs bool
	Offsets []OffsetPair

	HasHeig      bool
	RenderOffset int32
	StarsHeight  int32
	FixedRender  bool
	FixedStars   bool
}

func classifyDims(w, h int) Kind {
	switch {
	case w == nativefmt.TileWidth && h == nativefmt.TileHeight:
		return KindTile
	case w == nativefmt.PlanetWidth && h == nativefmt.PlanetHeight:
		return KindPlanet
	case w == nativefmt.SkyRowWidth && h == skySpriteHeight:
		return KindSky
	default:
		return KindUnknown
	}
}

// parseIndexedName matches name against prefix_N and reports N, or ok=false.
func parseIndexedName(name string) (n int, ok bool) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Scan classifies every sprite in a, builds the offset table each converter
// needs, and parses the area's extension metadata. It never aborts on a
// single bad sprite; it fails when two of {tile, planet, sky} each matched
// at least one sprite, or when the extension region is malformed.
func Scan(a *spritearea.Area) (*ScanContext, error) {
	ctx := &ScanContext{
		Tiles:   make(map[int]Entry),
		Planets: make(map[int]Entry),
	}
	var sawTile, sawPlanet, sawSky bool

	for _, s := range a.Sprites {
		w, h := s.Header.Width(), s.Header.Height()
		kind := classifyDims(w, h)
		if kind == KindUnknown || !spritearea.IsEightBpp(s.Header.Type) {
			ctx.BadSprites++
			continue
		}

		name := s.Header.NameString()
		entry := Entry{PixelOffset: s.PixelOffset, Pixels: s.Pixels}

		switch kind {
		case KindTile:
			n, ok := parseIndexedName(name)
			if !ok || n < 0 || n > nativefmt.MaxTileNum {
				ctx.BadSprites++
				continue
			}
			sawTile = true
			ctx.Tiles[n] = entry
			if n > ctx.MaxTileNum {
				ctx.MaxTileNum = n
			}
		case KindPlanet:
			n, ok := parseIndexedName(name)
			if !ok || n < 0 || n > nativefmt.MaxLastImageNum {
				ctx.BadSprites++
				continue
			}
			sawPlanet = true
			ctx.Planets[n] = entry
			if n > ctx.MaxPlanetNum {
				ctx.MaxPlanetNum = n
			}
		case KindSky:
			if name != "sky" {
				ctx.BadSprites++
				continue
			}
			sawSky = true
			e := entry
			ctx.Sky = &e
		}
	}

	classCount := 0
	for _, saw := range []bool{sawTile, sawPlanet, sawSky} {
		if saw {
			classCount++
		}
	}
	if classCount > 1 {
		return nil, errs.ErrBadSprite
	}

	if err := parseExtension(a.Extension, ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Extension tags, each a 4-byte ASCII identifier.
var (
	tagAnim = [4]byte{'A', 'N', 'I', 'M'}
	tagOffs = [4]byte{'O', 'F', 'F', 'S'}
	tagHeig = [4]byte{'H', 'E', 'I', 'G'}
)

func parseExtension(ext []byte, ctx *ScanContext) error {
	pos := 0
	for pos < len(ext) {
		if pos+4 > len(ext) {
			return fmt.Errorf("%w: extension tag truncated", errs.ErrTrunc)
		}
		var tag [4]byte
		copy(tag[:], ext[pos:pos+4])
		pos += 4

		switch tag {
		case tagAnim:
			if pos+12 > len(ext) {
				return fmt.Errorf("%w: ANIM payload truncated", errs.ErrTrunc)
			}
			for i := 0; i < 3; i++ {
				copy(ctx.Anim[i][:], ext[pos+i*4:pos+i*4+4])
			}
			pos += 12
			ctx.HasAnim = true
			for i := range ctx.Anim {
				for j, f := range ctx.Anim[i] {
					if int(f) > ctx.MaxTileNum {
						ctx.Anim[i][j] = byte(ctx.MaxTileNum)
						ctx.FixedHdr = true
					}
				}
			}
		case tagOffs:
			if pos+4 > len(ext) {
				return fmt.Errorf("%w: OFFS count truncated", errs.ErrTrunc)
			}
			n := int(int32(binary.LittleEndian.Uint32(ext[pos : pos+4])))
			pos += 4
			if n < 0 || pos+n*8 > len(ext) {
				return fmt.Errorf("%w: OFFS payload truncated", errs.ErrTrunc)
			}
			ctx.Offsets = make([]OffsetPair, n)
			minX := int32(-(nativefmt.PlanetWidth - 2))
			minY := int32(-nativefmt.PlanetHeight)
			for i := 0; i < n; i++ {
				x := int32(binary.LittleEndian.Uint32(ext[pos : pos+4]))
				y := int32(binary.LittleEndian.Uint32(ext[pos+4 : pos+8]))
				pos += 8
				cx, cy := x, y
				if cx < minX {
					cx = minX
				}
				if cx > 0 {
					cx = 0
				}
				if cy < minY {
					cy = minY
				}
				if cy > 0 {
					cy = 0
				}
				if cx != x || cy != y {
					ctx.FixedHdr = true
				}
				ctx.Offsets[i] = OffsetPair{X: cx, Y: cy}
			}
			ctx.HasOffs = true
		case tagHeig:
			if pos+8 > len(ext) {
				return fmt.Errorf("%w: HEIG payload truncated", errs.ErrTrunc)
			}
			render := int32(binary.LittleEndian.Uint32(ext[pos : pos+4]))
			stars := int32(binary.LittleEndian.Uint32(ext[pos+4 : pos+8]))
			pos += 8

			v := sky.New()
			v.SetRenderOffsetRaw(render)
			v.SetStarsHeightRaw(stars)
			if v.RenderOffset() != render {
				ctx.FixedRender = true
			}
			if v.StarsHeight() != stars {
				ctx.FixedStars = true
			}
			ctx.RenderOffset = v.RenderOffset()
			ctx.StarsHeight = v.StarsHeight()
			ctx.HasHeig = true
		default:
			return fmt.Errorf("%w: unrecognised extension tag %q", errs.ErrBadImages, tag)
		}
	}
	return nil
}
