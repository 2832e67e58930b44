package convert

import (
	"encoding/binary"

	"github.com/sf3k/skyconv/internal/nativefmt"
	"github.com/sf3k/skyconv/sky"
)

// eightBppSpriteType is the old-format mode number this package stamps on
// every sprite it synthesises (one of the recognised 8bpp mode numbers).
const eightBppSpriteType = 21

func putTag(dst []byte, tag string) []byte {
	return append(dst, tag...)
}

// animExtension builds the "ANIM" extension block carrying a tile-set's
// animation fields.
func animExtension(h nativefmt.TileHeader) []byte {
	buf := putTag(nil, "ANIM")
	buf = append(buf, h.SplashAnim1[:]...)
	buf = append(buf, h.SplashAnim2[:]...)
	buf = append(buf, h.SplashTriggers2[:]...)
	return buf
}

// offsExtension builds the "OFFS" extension block carrying a planet
// header's paint offsets for its used images.
func offsExtension(h nativefmt.PlanetHeader) []byte {
	n := int(h.LastImageNum) + 1
	buf := putTag(nil, "OFFS")
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(n))
	buf = append(buf, count[:]...)
	for i := 0; i < n; i++ {
		var xy [8]byte
		binary.LittleEndian.PutUint32(xy[0:4], uint32(h.PaintCoords[i].X))
		binary.LittleEndian.PutUint32(xy[4:8], uint32(h.PaintCoords[i].Y))
		buf = append(buf, xy[:]...)
	}
	return buf
}

// heigExtension builds the "HEIG" extension block carrying a sky's scalar
// fields.
func heigExtension(v *sky.Value) []byte {
	buf := putTag(nil, "HEIG")
	var payload [8]byte
	binary.LittleEndian.PutUint32(payload[0:4], uint32(v.RenderOffset()))
	binary.LittleEndian.PutUint32(payload[4:8], uint32(v.StarsHeight()))
	return append(buf, payload[:]...)
}
