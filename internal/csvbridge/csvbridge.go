// Package csvbridge reads and writes the small comma-separated tables
// that carry the same header metadata as the "ANIM"/"OFFS"/"HEIG"
// sprite-area extension tags, for hosts that have no binary channel
// available. Every table is tiny by construction (at most a few dozen
// bytes), so input is capped at 256 bytes; anything longer is rejected
// rather than silently truncated.
package csvbridge

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/internal/nativefmt"
	"github.com/sf3k/skyconv/sky"
)

// maxInputBytes is the hard cap placed on CSV input.
const maxInputBytes = 256

// readCapped reads all of r, rejecting input longer than maxInputBytes.
func readCapped(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrReadFail, err)
	}
	if len(data) > maxInputBytes {
		return nil, errs.ErrStrOFlo
	}
	return data, nil
}

func splitLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func parseInts(line string, n int) ([]int32, error) {
	fields := strings.Split(line, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("%w: expected %d comma-separated fields, got %d", errs.ErrTrunc, n, len(fields))
	}
	vals := make([]int32, n)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", errs.ErrTrunc, f, err)
		}
		vals[i] = int32(v)
	}
	return vals, nil
}

func frameToBytes(vals []int32) [4]byte {
	var f [4]byte
	for i, v := range vals {
		f[i] = byte(v)
	}
	return f
}

// ReadTileAnimCSV parses the three-line tile animation table (anim1, anim2,
// triggers, each four comma-separated ints) and returns it merged into h.
func ReadTileAnimCSV(r io.Reader, h nativefmt.TileHeader) (nativefmt.TileHeader, error) {
	data, err := readCapped(r)
	if err != nil {
		return h, err
	}
	lines := splitLines(data)
	if len(lines) != 3 {
		return h, fmt.Errorf("%w: expected 3 lines, got %d", errs.ErrBadAnims, len(lines))
	}
	frames := [3]*[4]byte{&h.SplashAnim1, &h.SplashAnim2, &h.SplashTriggers2}
	for i, line := range lines {
		vals, err := parseInts(line, 4)
		if err != nil {
			return h, fmt.Errorf("%w: animation line %d: %v", errs.ErrBadAnims, i, err)
		}
		*frames[i] = frameToBytes(vals)
	}
	return h, nil
}

// WriteTileAnimCSV emits h's animation frames as the three-line table
// ReadTileAnimCSV reads back.
func WriteTileAnimCSV(w io.Writer, h nativefmt.TileHeader) error {
	for _, frame := range [][4]byte{h.SplashAnim1, h.SplashAnim2, h.SplashTriggers2} {
		line := fmt.Sprintf("%d,%d,%d,%d\n", frame[0], frame[1], frame[2], frame[3])
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
		}
	}
	return nil
}

// ReadPlanetOffsetsCSV parses count lines of "x,y" and returns them merged
// into h's paint coordinates. count is the caller's last_image_num+1, since
// the CSV table itself carries no image count.
func ReadPlanetOffsetsCSV(r io.Reader, h nativefmt.PlanetHeader, count int) (nativefmt.PlanetHeader, error) {
	data, err := readCapped(r)
	if err != nil {
		return h, err
	}
	lines := splitLines(data)
	if len(lines) != count {
		return h, fmt.Errorf("%w: expected %d lines, got %d", errs.ErrBadPaintOff, count, len(lines))
	}
	for i, line := range lines {
		vals, err := parseInts(line, 2)
		if err != nil {
			return h, fmt.Errorf("%w: offset line %d: %v", errs.ErrBadPaintOff, i, err)
		}
		h.PaintCoords[i] = nativefmt.PaintCoord{X: vals[0], Y: vals[1]}
	}
	return h, nil
}

// WritePlanetOffsetsCSV emits h's first count paint coordinates as the
// line-per-image table ReadPlanetOffsetsCSV reads back.
func WritePlanetOffsetsCSV(w io.Writer, h nativefmt.PlanetHeader, count int) error {
	for i := 0; i < count; i++ {
		c := h.PaintCoords[i]
		if _, err := fmt.Fprintf(w, "%d,%d\n", c.X, c.Y); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
		}
	}
	return nil
}

// ReadSkyScalarsCSV parses the single "render_offset,stars_height" line and
// applies it to v via the same clamping setters the binary path uses.
func ReadSkyScalarsCSV(r io.Reader, v *sky.Value) error {
	data, err := readCapped(r)
	if err != nil {
		return err
	}
	lines := splitLines(data)
	if len(lines) != 1 {
		return fmt.Errorf("%w: expected 1 line, got %d", errs.ErrBadRend, len(lines))
	}
	vals, err := parseInts(lines[0], 2)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrBadRend, err)
	}
	v.SetRenderOffsetRaw(vals[0])
	v.SetStarsHeightRaw(vals[1])
	return nil
}

// WriteSkyScalarsCSV emits v's scalars as the single-line table
// ReadSkyScalarsCSV reads back.
func WriteSkyScalarsCSV(w io.Writer, v *sky.Value) error {
	_, err := fmt.Fprintf(w, "%d,%d\n", v.RenderOffset(), v.StarsHeight())
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrWriteFail, err)
	}
	return nil
}
