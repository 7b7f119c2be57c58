package content

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"seo_blog_publisher/generator"
	"seo_blog_publisher/imaging"
)

// Figure blocks are raw HTML, so the converter must pass HTML through.
var markdown = goldmark.New(goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()))

var (
	headingTagRe = regexp.MustCompile(`(?s)<h([1-4])>(.*?)</h[1-4]>`)
	figureLineRe = regexp.MustCompile(`(?m)^<figure>.*</figure>$`)
)

// Assemble turns a parsed draft plus its three uploaded illustrations into
// the final HTML: figures placed at fixed structural offsets, markdown
// converted, headings and focus-keyword occurrences emphasized.
func Assemble(art generator.Article, images []imaging.Asset) (string, error) {
	md := InsertFigures(art.Body, images)
	out, err := Render(md, art.FocusKeyword)
	if err != nil {
		return "", fmt.Errorf("assemble %q: %w", art.FocusKeyword, err)
	}
	return out, nil
}

// InsertFigures places one figure block per image: after the first line,
// at the midpoint, and two lines before the end. The offsets are computed
// sequentially, each against the line count left by the previous
// insertion, and every index is clamped into [0, len] so short bodies
// still receive all figures instead of failing.
func InsertFigures(body string, images []imaging.Asset) string {
	lines := strings.Split(body, "\n")
	for i, img := range images {
		var at int
		switch i {
		case 0:
			at = 1
		case 1:
			at = len(lines) / 2
		default:
			at = len(lines) - 2
		}
		lines = insertLine(lines, at, figureBlock(img))
	}
	return strings.Join(lines, "\n")
}

func insertLine(lines []string, at int, line string) []string {
	if at < 0 {
		at = 0
	}
	if at > len(lines) {
		at = len(lines)
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, line)
	out = append(out, lines[at:]...)
	return out
}

// figureBlock renders one illustration as a single HTML line so figure
// insertion stays pure line arithmetic.
func figureBlock(img imaging.Asset) string {
	caption := html.EscapeString(img.Caption)
	return fmt.Sprintf("<figure><img src=%q alt=%q /><figcaption>%s</figcaption></figure>",
		img.RemoteURL, caption, caption)
}

// Render converts the markdown body to HTML and applies the emphasis
// pass: heading inner text and every case-insensitive occurrence of the
// focus keyword are wrapped in <strong>.
func Render(md, keyword string) (string, error) {
	// Figure lines must sit in their own block, otherwise the converter
	// folds adjacent prose into the raw HTML.
	md = figureLineRe.ReplaceAllString(md, "\n$0\n")
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	out := headingTagRe.ReplaceAllString(buf.String(), `<h$1><strong>$2</strong></h$1>`)
	if keyword != "" {
		kwRe := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword))
		out = kwRe.ReplaceAllString(out, "<strong>$0</strong>")
	}
	return out, nil
}
