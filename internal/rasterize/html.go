package rasterize

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canvas dimensions match the output frame so the screenshot overlays 1:1.
const (
	canvasWidth  = 1080
	canvasHeight = 1920
)

const (
	stylePlainCSS = `font-size: 60px; line-height: 1.2; display: inline-block; width: 100%; max-width: 80%; margin: 0 auto; text-align: center; color: #fff; font-weight: normal; text-shadow: -2.8px -2.8px 0 #000, 2.8px -2.8px 0 #000, -2.8px 2.8px 0 #000, 2.8px 2.8px 0 #000; padding: 0.8rem 1.5rem 1rem 1.5rem; background: transparent; filter: none;`
	styleWhiteCSS = `font-size: 65px; line-height: 1.2; display: inline; box-decoration-break: clone; background: #fff; padding: 0.1rem 1.5rem 0.75rem 1.5rem; filter: url('#goo'); max-width: 80%; text-align: center; color: #000; font-weight: normal;`
	styleBlackCSS = `font-size: 65px; line-height: 1.2; display: inline; box-decoration-break: clone; background: #000; padding: 0.1rem 1.5rem 0.75rem 1.5rem; filter: url('#goo'); max-width: 80%; text-align: center; color: #fff; font-weight: normal;`

	// gooFilter rounds the pill backgrounds across wrapped lines.
	gooFilter = `<svg style="visibility:hidden;position:absolute" width="0" height="0" xmlns="http://www.w3.org/2000/svg" version="1.1"><defs><filter id="goo"><feGaussianBlur in="SourceGraphic" stdDeviation="10" result="blur"/><feColorMatrix in="blur" mode="matrix" values="1 0 0 0 0  0 1 0 0 0  0 0 1 0 0  0 0 0 19 -9" result="goo"/><feComposite in="SourceGraphic" in2="goo" operator="atop"/></filter></defs></svg>`
)

// offsetStepPx converts a spec offset step into canvas pixels.
const offsetStepPx = 8

// buildDocument produces the HTML canvas the backend screenshots. The body is
// a transparent full-frame flexbox whose alignment and paddings place the
// banner at the requested anchor.
func buildDocument(spec Spec, fontPath string) string {
	text := html.EscapeString(norm.NFC.String(strings.TrimSpace(spec.Text)))

	align := "flex-start"
	padding := "250px 0"
	switch spec.Anchor {
	case AnchorMiddle:
		align = "center"
		padding = "0px 0"
	case AnchorBottom:
		align = "flex-end"
		padding = "200px 0"
	}

	styleCSS := styleWhiteCSS
	switch spec.Style {
	case StylePlainOutlined:
		styleCSS = stylePlainCSS
	case StyleBlackPill:
		styleCSS = styleBlackCSS
	}

	fontFace := ""
	fontFamily := "sans-serif"
	if strings.TrimSpace(fontPath) != "" {
		fontFace = fmt.Sprintf(`@font-face { font-family: 'Clipforge Display'; src: url('file://%s'); }`, fontPath)
		fontFamily = "'Clipforge Display', sans-serif"
	}

	var doc strings.Builder
	doc.WriteString("<html><head><style>\n")
	doc.WriteString(fontFace)
	fmt.Fprintf(&doc,
		"\nbody { margin:0; width:%dpx; height:%dpx; display:flex; align-items:%s; justify-content:center; padding:%s; font-family:%s; background:transparent; }\n",
		canvasWidth, canvasHeight, align, padding, fontFamily,
	)
	fmt.Fprintf(&doc, ".banner { %s transform: translateY(%dpx); }\n", styleCSS, spec.Offset*offsetStepPx)
	doc.WriteString("</style></head><body>")
	fmt.Fprintf(&doc, `<h1 style="width:85%%;text-align:center;margin:0;padding:0"><div class="banner">%s</div></h1>`, text)
	doc.WriteString(gooFilter)
	doc.WriteString("</body></html>")
	return doc.String()
}
