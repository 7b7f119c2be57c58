package imaging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
)

func TestLayoutEmptyCaption(t *testing.T) {
	face, err := CaptionFace()
	require.NoError(t, err)
	assert.Nil(t, Layout("   ", canvasWidth, canvasHeight, face))
}

func TestLayoutSingleLineCentered(t *testing.T) {
	face, err := CaptionFace()
	require.NoError(t, err)

	lines := Layout("Hà Nội", canvasWidth, canvasHeight, face)
	require.Len(t, lines, 1)

	w := font.MeasureString(face, lines[0].Text).Ceil()
	assert.Equal(t, (canvasWidth-w)/2, lines[0].X)
	assert.Equal(t, canvasHeight-bottomMargin, lines[0].Y)
}

func TestLayoutWrapsAndStacksBottomUp(t *testing.T) {
	face, err := CaptionFace()
	require.NoError(t, err)

	caption := strings.Repeat("một chú thích khá dài cho ảnh ", 6)
	lines := Layout(caption, canvasWidth, canvasHeight, face)
	require.Greater(t, len(lines), 1)

	budget := int(float64(canvasWidth) * wrapWidthRatio)
	for _, l := range lines {
		assert.LessOrEqual(t, font.MeasureString(face, l.Text).Ceil(), budget)
	}

	// Last line flush to the bottom margin, earlier lines one line height apart.
	lineHeight := face.Metrics().Height.Ceil()
	assert.Equal(t, canvasHeight-bottomMargin, lines[len(lines)-1].Y)
	for i := 1; i < len(lines); i++ {
		assert.Equal(t, lineHeight, lines[i].Y-lines[i-1].Y)
	}

	// No word lost or reordered by the wrap.
	var joined []string
	for _, l := range lines {
		joined = append(joined, l.Text)
	}
	assert.Equal(t, strings.Fields(caption), strings.Fields(strings.Join(joined, " ")))
}
