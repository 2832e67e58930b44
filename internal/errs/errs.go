// Package errs defines the error-kind taxonomy shared by every codec and
// bridge package. It exists separately from the root
// skyconv package, which re-exports these as its public API, purely to
// keep the dependency graph acyclic: package skyconv's facade imports
// convert/scan/nativefmt/spritearea/csvbridge, and those packages need the
// same sentinel errors, so the sentinels themselves live one level below
// both.
package errs

import "errors"

// Error kinds. Conversion and load/save functions return one of these
// (optionally wrapped with fmt.Errorf's %w) so callers can compare with
// errors.Is.
var (
	ErrReadFail    = errors.New("skyconv: read failed")
	ErrWriteFail   = errors.New("skyconv: write failed")
	ErrOpenInFail  = errors.New("skyconv: could not open input")
	ErrOpenOutFail = errors.New("skyconv: could not open output")
	ErrBadTell     = errors.New("skyconv: could not determine stream position")
	ErrBadSeek     = errors.New("skyconv: seek failed")
	ErrTrunc       = errors.New("skyconv: file truncated")
	ErrTooLong     = errors.New("skyconv: file too long")
	ErrEscape      = errors.New("skyconv: operation cancelled")
	ErrNoMem       = errors.New("skyconv: out of memory")
	ErrBadDataOff  = errors.New("skyconv: bad data offset")
	ErrBadNumGFX   = errors.New("skyconv: bad image count")
	ErrBadImages   = errors.New("skyconv: bad image data")
	ErrBadPaintOff = errors.New("skyconv: bad paint offset")
	ErrBadAnims    = errors.New("skyconv: bad animation data")
	ErrForceAnim   = errors.New("skyconv: animation data clamped")
	ErrForceOff    = errors.New("skyconv: paint offset clamped")
	ErrBadRend     = errors.New("skyconv: bad render offset")
	ErrBadStar     = errors.New("skyconv: bad stars height")
	ErrForceSky    = errors.New("skyconv: sky scalar clamped")
	ErrTooShort    = errors.New("skyconv: file too short")
	ErrBadSprite   = errors.New("skyconv: ambiguous or unrecognised sprite area")
	ErrNoAnim      = errors.New("skyconv: no animation metadata available")
	ErrNoHeight    = errors.New("skyconv: no sky scalar metadata available")
	ErrNoOffset    = errors.New("skyconv: no paint offset metadata available")
	ErrStrOFlo     = errors.New("skyconv: CSV input too long")
)

// Recoverable reports whether err is one of the "recoverable at source"
// kinds: clamping silently fixed a stored value and the conversion may
// continue.
func Recoverable(err error) bool {
	return errors.Is(err, ErrForceAnim) || errors.Is(err, ErrForceOff) || errors.Is(err, ErrForceSky)
}
