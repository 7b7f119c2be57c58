package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"

	xdraw "golang.org/x/image/draw"

	"seo_blog_publisher/slug"
)

const (
	// Every illustration is normalized to the CMS template canvas.
	// The resize is a hard scale; aspect ratio is intentionally not
	// preserved so all figures render uniformly.
	canvasWidth  = 800
	canvasHeight = 400

	maxEncodedBytes = 100 << 10
	startQuality    = 90
	qualityStep     = 10
	minQuality      = 30
	// maxEncodePasses bounds the quality loop regardless of output size.
	maxEncodePasses = (startQuality-minQuality)/qualityStep + 1
)

// Asset is one synthesized illustration. LocalPath points into the
// scratch directory and is owned by the synthesizer until upload; the
// remote fields are filled by the CMS upload step.
type Asset struct {
	Prompt    string
	Caption   string
	Slug      string
	LocalPath string
	RemoteURL string
	RemoteID  string
}

// ImageGenerator is the external image-model collaborator.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Synthesizer runs the three-stage image pipeline: generate, download,
// caption-overlay, size-bounded re-encode.
type Synthesizer struct {
	gen     ImageGenerator
	client  *http.Client
	dir     string
	verbose bool
	logger  *log.Logger
}

func NewSynthesizer(gen ImageGenerator, client *http.Client, scratchDir string, verbose bool, logger *log.Logger) (*Synthesizer, error) {
	if gen == nil {
		return nil, fmt.Errorf("image generator is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	if logger == nil {
		logger = log.Default()
	}
	// Fail fast if the embedded typeface cannot be built.
	if _, err := CaptionFace(); err != nil {
		return nil, fmt.Errorf("caption face: %w", err)
	}
	return &Synthesizer{gen: gen, client: client, dir: scratchDir, verbose: verbose, logger: logger}, nil
}

func (s *Synthesizer) infof(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	s.logger.Printf("[imaging] "+format, args...)
}

// Synthesize produces one captioned, compressed illustration for the
// prompt. Any generation, download, or decode failure is a stage failure;
// the caller decides whether that fails the whole keyword.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt, caption string) (Asset, error) {
	url, err := s.gen.GenerateImage(ctx, prompt)
	if err != nil {
		return Asset{}, fmt.Errorf("generate image: %w", err)
	}
	s.infof("generated image url=%s", url)

	data, err := s.download(ctx, url)
	if err != nil {
		return Asset{}, fmt.Errorf("download image: %w", err)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Asset{}, fmt.Errorf("decode image: %w", err)
	}

	// Faces keep per-use glyph state, so concurrent keywords each get
	// their own.
	face, err := CaptionFace()
	if err != nil {
		return Asset{}, fmt.Errorf("caption face: %w", err)
	}
	canvas := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	xdraw.CatmullRom.Scale(canvas, canvas.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	DrawCaption(canvas, caption, face)

	encoded, quality, err := encodeBounded(canvas)
	if err != nil {
		return Asset{}, fmt.Errorf("encode image: %w", err)
	}
	s.infof("encoded %d bytes at quality %d", len(encoded), quality)

	name := slug.Normalize(caption)
	f, err := os.CreateTemp(s.dir, name+"-*.jpg")
	if err != nil {
		return Asset{}, err
	}
	if _, err := f.Write(encoded); err != nil {
		f.Close()
		return Asset{}, err
	}
	if err := f.Close(); err != nil {
		return Asset{}, err
	}

	return Asset{
		Prompt:    prompt,
		Caption:   caption,
		Slug:      name,
		LocalPath: f.Name(),
	}, nil
}

func (s *Synthesizer) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// encodeBounded re-encodes as JPEG, stepping quality down until the
// output fits maxEncodedBytes or the floor is hit. This trades quality
// for size, it is not a correctness loop: the floor-quality result is
// accepted whatever its size.
func encodeBounded(img image.Image) ([]byte, int, error) {
	quality := startQuality
	var buf bytes.Buffer
	for pass := 0; pass < maxEncodePasses; pass++ {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, 0, err
		}
		if buf.Len() <= maxEncodedBytes || quality <= minQuality {
			return buf.Bytes(), quality, nil
		}
		quality -= qualityStep
	}
	return buf.Bytes(), quality, nil
}
