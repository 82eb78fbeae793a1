package compose

import (
	"fmt"
	"math"

	"clipforge/internal/engine"
	"clipforge/internal/rasterize"
)

// logoMarginPx is the fixed inset from the frame edge for corner anchors.
const logoMarginPx = 20

// outlinedHookScale enlarges the outlined style slightly to compensate for the
// optical padding the pill styles get from their backgrounds.
const outlinedHookScale = 1.15

// logoOverlayPosition maps an anchor to the engine's overlay coordinates.
func logoOverlayPosition(position LogoPosition) string {
	switch position {
	case LogoTopLeft:
		return fmt.Sprintf("%d:%d", logoMarginPx, logoMarginPx)
	case LogoBottomLeft:
		return fmt.Sprintf("%d:H-h-%d", logoMarginPx, logoMarginPx)
	case LogoBottomRight:
		return fmt.Sprintf("W-w-%d:H-h-%d", logoMarginPx, logoMarginPx)
	case LogoCenter:
		return "(W-w)/2:(H-h)/2"
	default:
		return fmt.Sprintf("W-w-%d:%d", logoMarginPx, logoMarginPx)
	}
}

// logoGraph composites the logo onto the current output: scaled to the
// requested fraction of the frame width, anchored, video re-encoded, audio
// copied unchanged.
func logoGraph(current, logoPath string, logo Logo, output string) engine.Graph {
	logoWidth := int(math.Round(float64(TargetWidth) * float64(logo.SizePct) / 100))
	filter := fmt.Sprintf(
		"[1:v]scale=%d:-1[logo];[0:v][logo]overlay=%s:format=auto,format=yuv420p[outv]",
		logoWidth, logoOverlayPosition(logo.Position),
	)
	return engine.Graph{
		Inputs:        []engine.Input{{Path: current}, {Path: logoPath}},
		FilterComplex: filter,
		Maps:          []string{"[outv]", "0:a"},
		VideoCodec:    "libx264",
		AudioCodec:    "copy",
		Output:        output,
	}
}

// hookOverlayY maps the banner anchor to the overlay's vertical position. The
// banner canvas already carries its own paddings, so corners sit flush.
func hookOverlayY(anchor rasterize.Anchor) string {
	switch anchor {
	case rasterize.AnchorMiddle:
		return "(H-h)/2"
	case rasterize.AnchorBottom:
		return "H-h-0"
	default:
		return "0"
	}
}

// hookGraph composites the rasterized banner onto the current output,
// centered horizontally with a style-dependent scale.
func hookGraph(current, bannerPath string, hook Hook, output string) engine.Graph {
	scale := "1"
	if hook.Style == rasterize.StylePlainOutlined {
		scale = fmt.Sprintf("%.2f", outlinedHookScale)
	}
	filter := fmt.Sprintf(
		"[1:v]scale=iw*%s:-1[overlay];[0:v][overlay]overlay=(W-w)/2:%s:format=auto,format=yuv420p[outv]",
		scale, hookOverlayY(hook.Position),
	)
	return engine.Graph{
		Inputs:        []engine.Input{{Path: current}, {Path: bannerPath}},
		FilterComplex: filter,
		Maps:          []string{"[outv]", "0:a"},
		VideoCodec:    "libx264",
		AudioCodec:    "copy",
		Output:        output,
	}
}
