package rasterize

import (
	"context"
	"errors"
)

// Style selects the visual treatment of a rendered text banner.
type Style int

const (
	// StylePlainOutlined draws white text with a hard black outline and no
	// background.
	StylePlainOutlined Style = 1
	// StyleWhitePill draws black text on a white rounded-pill background.
	StyleWhitePill Style = 2
	// StyleBlackPill draws white text on a black rounded-pill background.
	StyleBlackPill Style = 3
)

// Valid reports whether the style is one of the three supported variants.
func (s Style) Valid() bool {
	return s >= StylePlainOutlined && s <= StyleBlackPill
}

// Anchor selects the vertical placement of the banner on the canvas.
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorMiddle Anchor = "middle"
	AnchorBottom Anchor = "bottom"
)

// Valid reports whether the anchor is a supported placement.
func (a Anchor) Valid() bool {
	switch a {
	case AnchorTop, AnchorMiddle, AnchorBottom:
		return true
	}
	return false
}

// Spec describes one banner to rasterize onto a transparent full-frame canvas.
type Spec struct {
	Text   string
	Style  Style
	Anchor Anchor
	// Offset shifts the banner vertically in whole steps; each step is
	// eight canvas pixels.
	Offset int
}

// ErrUnavailable signals that no rasterizer backend exists in this
// environment. Callers degrade by skipping the hook overlay.
var ErrUnavailable = errors.New("rasterizer unavailable")

// Rasterizer renders a text banner as a transparent raster image sized to the
// output frame. Availability is environment-dependent and checked once per
// job, not per call.
type Rasterizer interface {
	Available() bool
	Render(ctx context.Context, spec Spec, outPath string) error
}

// Unavailable is the degraded rasterizer used when no backend binary exists.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Render(context.Context, Spec, string) error { return ErrUnavailable }
