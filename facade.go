// Package skyconv ties components A-J together into the handful of
// whole-file operations a caller actually wants: load a sprite area and
// classify it, convert the result into a native tile-set/planet-set/sky, or
// go the other way, all while sharing this package's single error taxonomy.
//
// The pieces are also usable standalone through their own packages
// (internal/scan, convert, internal/nativefmt, internal/spritearea,
// editor); this file is the convenience entry point wrapping the internal
// pipeline packages into whole-file operations.
package skyconv

import (
	"github.com/sf3k/skyconv/convert"
	"github.com/sf3k/skyconv/editor"
	"github.com/sf3k/skyconv/internal/nativefmt"
	"github.com/sf3k/skyconv/internal/scan"
	"github.com/sf3k/skyconv/internal/spritearea"
	"github.com/sf3k/skyconv/sky"
	"github.com/sf3k/skyconv/stream"
)

// Callbacks is the redraw-notification contract a host passes to
// editor.NewSession; re-exported here so callers need import only this
// package and sky for the editing half of the API.
type Callbacks = editor.Callbacks

// SelectCallback is the selection-changed notification contract for one
// editor.Editor.
type SelectCallback = editor.SelectCallback

// ScanSprites reads a sprite area from r and classifies its contents.
func ScanSprites(r *stream.Reader) (*scan.ScanContext, error) {
	area, err := spritearea.ReadArea(r)
	if err != nil {
		return nil, err
	}
	return scan.Scan(area)
}

// ConvertSpritesToTiles reads a sprite area from r and converts it into a
// native tile-set. It requires the scan to have found an "ANIM" extension
// block.
func ConvertSpritesToTiles(r *stream.Reader) (*nativefmt.Tiles, error) {
	ctx, err := ScanSprites(r)
	if err != nil {
		return nil, err
	}
	it, err := convert.NewTilesFromSprites(ctx)
	if err != nil {
		return nil, err
	}
	if err := convert.Run(it); err != nil {
		return nil, err
	}
	return it.Result(), nil
}

// ConvertSpritesToPlanets reads a sprite area from r and converts it into
// native planet images. It requires the scan to have found an "OFFS"
// extension block.
func ConvertSpritesToPlanets(r *stream.Reader) (*nativefmt.Planets, error) {
	ctx, err := ScanSprites(r)
	if err != nil {
		return nil, err
	}
	it, err := convert.NewPlanetsFromSprites(ctx)
	if err != nil {
		return nil, err
	}
	if err := convert.Run(it); err != nil {
		return nil, err
	}
	return it.Result(), nil
}

// ConvertSpritesToSky reads a sprite area from r and converts it into a
// sky.Value. It requires the scan to have found a "HEIG" extension block.
func ConvertSpritesToSky(r *stream.Reader) (*sky.Value, error) {
	ctx, err := ScanSprites(r)
	if err != nil {
		return nil, err
	}
	it, err := convert.NewSkyFromSprites(ctx)
	if err != nil {
		return nil, err
	}
	if err := convert.Run(it); err != nil {
		return nil, err
	}
	return it.Result(), nil
}

// ConvertTilesToSprites converts a native tile-set into a sprite area.
// withExt selects whether an "ANIM" extension block carrying the
// tile-set header is emitted alongside the sprites.
func ConvertTilesToSprites(tiles *nativefmt.Tiles, withExt bool) (*spritearea.Area, error) {
	it := convert.NewTilesToSprites(tiles, withExt)
	if err := convert.Run(it); err != nil {
		return nil, err
	}
	return it.Result(), nil
}

// ConvertPlanetsToSprites converts native planet images into a sprite
// area. withExt selects whether an "OFFS" extension block carrying the
// planets' paint offsets is emitted alongside the sprites.
func ConvertPlanetsToSprites(planets *nativefmt.Planets, withExt bool) (*spritearea.Area, error) {
	it := convert.NewPlanetsToSprites(planets, withExt)
	if err := convert.Run(it); err != nil {
		return nil, err
	}
	return it.Result(), nil
}

// ConvertSkyToSprites converts a sky.Value into a sprite area. withExt
// selects whether a "HEIG" extension block carrying the sky's scalars is
// emitted alongside the sprite.
func ConvertSkyToSprites(v *sky.Value, withExt bool) (*spritearea.Area, error) {
	it := convert.NewSkyToSprites(v, withExt)
	if err := convert.Run(it); err != nil {
		return nil, err
	}
	return it.Result(), nil
}
