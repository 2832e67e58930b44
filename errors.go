// Package skyconv converts between the game's native sky/planet/tile
// formats and a generic sprite-area format, and provides an in-place
// editor for sky colour-band sequences. See DESIGN.md for how each piece
// is grounded.
package skyconv

import "github.com/sf3k/skyconv/internal/errs"

// Error kinds. Conversion and load/save functions
// return one of these (optionally wrapped with fmt.Errorf's %w) so callers
// can compare with errors.Is. They are defined in internal/errs and
// re-exported here so every codec package can share them without importing
// this package (see internal/errs's doc comment).
var (
	ErrReadFail    = errs.ErrReadFail
	ErrWriteFail   = errs.ErrWriteFail
	ErrOpenInFail  = errs.ErrOpenInFail
	ErrOpenOutFail = errs.ErrOpenOutFail
	ErrBadTell     = errs.ErrBadTell
	ErrBadSeek     = errs.ErrBadSeek
	ErrTrunc       = errs.ErrTrunc
	ErrTooLong     = errs.ErrTooLong
	ErrEscape      = errs.ErrEscape
	ErrNoMem       = errs.ErrNoMem
	ErrBadDataOff  = errs.ErrBadDataOff
	ErrBadNumGFX   = errs.ErrBadNumGFX
	ErrBadImages   = errs.ErrBadImages
	ErrBadPaintOff = errs.ErrBadPaintOff
	ErrBadAnims    = errs.ErrBadAnims
	ErrForceAnim   = errs.ErrForceAnim
	ErrForceOff    = errs.ErrForceOff
	ErrBadRend     = errs.ErrBadRend
	ErrBadStar     = errs.ErrBadStar
	ErrForceSky    = errs.ErrForceSky
	ErrTooShort    = errs.ErrTooShort
	ErrBadSprite   = errs.ErrBadSprite
	ErrNoAnim      = errs.ErrNoAnim
	ErrNoHeight    = errs.ErrNoHeight
	ErrNoOffset    = errs.ErrNoOffset
	ErrStrOFlo     = errs.ErrStrOFlo
)

// Recoverable reports whether err is one of the "recoverable at source"
// kinds: clamping silently fixed a stored value and the conversion may
// continue.
func Recoverable(err error) bool {
	return errs.Recoverable(err)
}
