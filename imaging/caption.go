package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// Wrapped lines may use at most 90% of the canvas width.
	wrapWidthRatio = 0.9
	// The last caption line sits flush to a 10px bottom margin.
	bottomMargin = 10
	// Outline pass offset in pixels; 8 positions around each glyph run.
	outlineOffset = 2

	captionFontSize = 22
	captionFontDPI  = 72
)

// PlacedLine is one wrapped caption line with its baseline position.
type PlacedLine struct {
	Text string
	X    int
	Y    int
}

// CaptionFace builds the fixed caption typeface. The face is stateful
// during drawing and must not be shared across goroutines.
func CaptionFace() (font.Face, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    captionFontSize,
		DPI:     captionFontDPI,
		Hinting: font.HintingFull,
	})
}

// Layout word-wraps the caption against real font metrics and stacks the
// lines bottom-up, each centered horizontally. Greedy wrap: a word that
// would push the line past the width budget closes the line and opens the
// next one.
func Layout(caption string, width, height int, face font.Face) []PlacedLine {
	words := strings.Fields(caption)
	if len(words) == 0 {
		return nil
	}
	budget := fixed.I(int(float64(width) * wrapWidthRatio))

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if font.MeasureString(face, candidate) > budget {
			lines = append(lines, current)
			current = w
			continue
		}
		current = candidate
	}
	lines = append(lines, current)

	lineHeight := face.Metrics().Height.Ceil()
	placed := make([]PlacedLine, 0, len(lines))
	for i, line := range lines {
		lineWidth := font.MeasureString(face, line).Ceil()
		placed = append(placed, PlacedLine{
			Text: line,
			X:    (width - lineWidth) / 2,
			Y:    height - bottomMargin - (len(lines)-1-i)*lineHeight,
		})
	}
	return placed
}

// DrawCaption renders the caption onto dst: a dark 8-offset outline pass
// first, then a light fill pass, so the text stays legible over any
// background. This is a fixed visual contract.
func DrawCaption(dst draw.Image, caption string, face font.Face) {
	bounds := dst.Bounds()
	lines := Layout(caption, bounds.Dx(), bounds.Dy(), face)

	outline := image.NewUniform(color.RGBA{A: 0xff})
	fill := image.NewUniform(color.White)
	offsets := [8][2]int{
		{-outlineOffset, -outlineOffset}, {0, -outlineOffset}, {outlineOffset, -outlineOffset},
		{-outlineOffset, 0}, {outlineOffset, 0},
		{-outlineOffset, outlineOffset}, {0, outlineOffset}, {outlineOffset, outlineOffset},
	}

	d := font.Drawer{Dst: dst, Face: face}
	for _, line := range lines {
		d.Src = outline
		for _, off := range offsets {
			d.Dot = fixed.P(line.X+off[0], line.Y+off[1])
			d.DrawString(line.Text)
		}
		d.Src = fill
		d.Dot = fixed.P(line.X, line.Y)
		d.DrawString(line.Text)
	}
}
