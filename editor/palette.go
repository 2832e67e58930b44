package editor

import "github.com/sf3k/skyconv/sky"

// RGB is one 24-bit palette entry.
type RGB struct {
	R, G, B uint8
}

// Palette is the 256-entry 8-bit colour table Smooth and Interpolate search
// for the nearest match to an interpolated gradient colour.
type Palette [256]RGB

// nearestPaletteEntry returns the band whose palette entry is closest to
// (r, g, b) in squared 24-bit Euclidean distance. Ties keep the
// lowest-indexed entry, matching Utils.c's first-match behaviour.
func nearestPaletteEntry(p *Palette, r, g, b int) sky.Band {
	best := 0
	bestDist := -1
	for i, entry := range p {
		dr := r - int(entry.R)
		dg := g - int(entry.G)
		db := b - int(entry.B)
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return sky.Band(best)
}
