package convert

import (
	"errors"
	"testing"

	"github.com/sf3k/skyconv/internal/errs"
	"github.com/sf3k/skyconv/internal/scan"
	"github.com/sf3k/skyconv/sky"
)

func TestSky_RoundTrip(t *testing.T) {
	v := sky.New()
	v.SetRenderOffsetRaw(1200)
	v.SetStarsHeightRaw(-400)
	for i := 0; i < sky.NumBands; i++ {
		v.SetBandRaw(i, (i*5)%256)
	}

	toSprites := NewSkyToSprites(v, true)
	if err := Run(toSprites); err != nil {
		t.Fatalf("Run(toSprites) error = %v", err)
	}
	area := toSprites.Result()
	if len(area.Sprites) != 1 || area.Sprites[0].Header.NameString() != "sky" {
		t.Fatalf("unexpected sprite area: %+v", area)
	}

	ctx := &scan.ScanContext{
		Sky:          &scan.Entry{Pixels: area.Sprites[0].Pixels},
		HasHeig:      true,
		RenderOffset: v.RenderOffset(),
		StarsHeight:  v.StarsHeight(),
	}
	fromSprites, err := NewSkyFromSprites(ctx)
	if err != nil {
		t.Fatalf("NewSkyFromSprites() error = %v", err)
	}
	if err := Run(fromSprites); err != nil {
		t.Fatalf("Run(fromSprites) error = %v", err)
	}
	got := fromSprites.Result()
	if got.RenderOffset() != v.RenderOffset() || got.StarsHeight() != v.StarsHeight() {
		t.Errorf("scalars = %d,%d want %d,%d", got.RenderOffset(), got.StarsHeight(), v.RenderOffset(), v.StarsHeight())
	}
	for i := 0; i < sky.NumBands; i++ {
		if got.Band(i) != v.Band(i) {
			t.Errorf("Band(%d) = %d, want %d", i, got.Band(i), v.Band(i))
		}
	}
}

func TestSkyFromSprites_RequiresHeig(t *testing.T) {
	ctx := &scan.ScanContext{Sky: &scan.Entry{Pixels: make([]byte, 4*skySpriteHeight)}}
	_, err := NewSkyFromSprites(ctx)
	if !errors.Is(err, errs.ErrNoHeight) {
		t.Fatalf("NewSkyFromSprites() error = %v, want ErrNoHeight", err)
	}
}

func TestSkyFromSprites_RequiresSkySprite(t *testing.T) {
	ctx := &scan.ScanContext{HasHeig: true}
	_, err := NewSkyFromSprites(ctx)
	if !errors.Is(err, errs.ErrBadSprite) {
		t.Fatalf("NewSkyFromSprites() error = %v, want ErrBadSprite", err)
	}
}
