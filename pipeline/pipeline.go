package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"seo_blog_publisher/generator"
	"seo_blog_publisher/imaging"
	"seo_blog_publisher/publisher"
	"seo_blog_publisher/selection"
)

const illustrationsPerArticle = 3

// Uploader is the CMS media surface the pipeline needs.
type Uploader interface {
	UploadImage(ctx context.Context, localPath, filename string) (publisher.Media, error)
}

// Notifier reports progress to the operator and presents the featured-
// image choice. The Telegram bot implements it; tests fake it.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
	OfferSelection(ctx context.Context, chatID int64, sess *selection.Session) error
}

// Pipeline drives one keyword end to end: draft, parse, caption,
// synthesize, upload, then hand off to selection (or publish immediately
// in auto mode).
type Pipeline struct {
	llm         generator.LLMClient
	synth       *imaging.Synthesizer
	uploader    Uploader
	coord       *selection.Coordinator
	notifier    Notifier
	autoPublish bool
	verbose     bool
	logger      *log.Logger
}

func New(llm generator.LLMClient, synth *imaging.Synthesizer, uploader Uploader, coord *selection.Coordinator, notifier Notifier, autoPublish, verbose bool, logger *log.Logger) (*Pipeline, error) {
	if llm == nil || synth == nil || uploader == nil || coord == nil || notifier == nil {
		return nil, fmt.Errorf("pipeline: all collaborators are required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		llm:         llm,
		synth:       synth,
		uploader:    uploader,
		coord:       coord,
		notifier:    notifier,
		autoPublish: autoPublish,
		verbose:     verbose,
		logger:      logger,
	}, nil
}

func (p *Pipeline) infof(format string, args ...interface{}) {
	if !p.verbose {
		return
	}
	p.logger.Printf("[pipeline] "+format, args...)
}

// Process runs the per-keyword sequence. Any failure aborts this keyword
// only; the caller decides how to continue the batch. One failed image is
// a whole-keyword failure, never a partial publish.
func (p *Pipeline) Process(ctx context.Context, chatID int64, keyword string) error {
	_ = p.notifier.Notify(ctx, chatID, fmt.Sprintf("🔄 Đang xử lý từ khóa: %s", keyword))

	system, user := generator.BuildArticlePrompt(keyword)
	raw, err := p.llm.Complete(ctx, system, user)
	if err != nil {
		return fmt.Errorf("draft: %w", err)
	}
	art := generator.Parse(raw, keyword)
	p.infof("drafted %q title=%q body=%d bytes", keyword, art.PostTitle, len(art.Body))

	images := make([]imaging.Asset, 0, illustrationsPerArticle)
	for i, section := range splitThirds(art.Body) {
		capSystem, capUser := generator.BuildCaptionPrompt(section)
		caption, err := p.llm.Complete(ctx, capSystem, capUser)
		if err != nil {
			return fmt.Errorf("caption %d: %w", i+1, err)
		}
		caption = strings.TrimSpace(caption)

		asset, err := p.synth.Synthesize(ctx, generator.BuildImagePrompt(caption, keyword), caption)
		if err != nil {
			return fmt.Errorf("image %d: %w", i+1, err)
		}

		media, err := p.uploader.UploadImage(ctx, asset.LocalPath, asset.Slug+".jpg")
		// The scratch file is spent once the upload attempt is over.
		os.Remove(asset.LocalPath)
		if err != nil {
			return fmt.Errorf("upload image %d: %w", i+1, err)
		}
		asset.LocalPath = ""
		asset.RemoteURL = media.URL
		asset.RemoteID = media.ID
		images = append(images, asset)
		p.infof("image %d for %q uploaded id=%s", i+1, keyword, media.ID)
	}

	sess, err := p.coord.Open(chatID, keyword, art, images)
	if err != nil {
		return err
	}

	if p.autoPublish {
		link, err := p.coord.Resolve(ctx, sess.ID, 0)
		if err != nil {
			return err
		}
		_ = p.notifier.Notify(ctx, chatID, fmt.Sprintf("✅ Đăng thành công: %s", link))
		return nil
	}
	return p.notifier.OfferSelection(ctx, chatID, sess)
}

// splitThirds cuts the body into three contiguous slices by line count:
// first third, middle third, remainder. Short bodies yield empty
// sections; the caption call still runs so every article gets its three
// illustrations.
func splitThirds(body string) [illustrationsPerArticle]string {
	lines := strings.Split(body, "\n")
	a := len(lines) / 3
	b := len(lines) * 2 / 3
	return [illustrationsPerArticle]string{
		strings.TrimSpace(strings.Join(lines[:a], "\n")),
		strings.TrimSpace(strings.Join(lines[a:b], "\n")),
		strings.TrimSpace(strings.Join(lines[b:], "\n")),
	}
}
