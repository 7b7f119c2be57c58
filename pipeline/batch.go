package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"seo_blog_publisher/report"
	"seo_blog_publisher/selection"
)

// Batch drains an ordered queue of keywords through the pipeline. One
// keyword's failure is reported and the queue moves on; nothing crosses a
// keyword boundary.
type Batch struct {
	pipe       *Pipeline
	notifier   Notifier
	results    *selection.ResultLog
	concurrent bool
	logger     *log.Logger
}

func NewBatch(pipe *Pipeline, notifier Notifier, results *selection.ResultLog, concurrent bool, logger *log.Logger) *Batch {
	if logger == nil {
		logger = log.Default()
	}
	return &Batch{pipe: pipe, notifier: notifier, results: results, concurrent: concurrent, logger: logger}
}

// Run processes every keyword, then writes the batch report of results
// completed so far and returns its path. Keywords whose sessions are
// still awaiting a featured-image choice are absent from the report.
func (b *Batch) Run(ctx context.Context, chatID int64, keywords []string) (string, error) {
	if b.concurrent {
		b.runConcurrent(ctx, chatID, keywords)
	} else {
		for _, kw := range keywords {
			b.processOne(ctx, chatID, kw)
		}
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("report-%d.xlsx", time.Now().UnixNano()))
	if err := report.Write(path, b.results.Snapshot()); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// runConcurrent fans keywords out; they share no per-keyword state and
// the session store and result log are mutex-guarded.
func (b *Batch) runConcurrent(ctx context.Context, chatID int64, keywords []string) {
	var g errgroup.Group
	for _, kw := range keywords {
		kw := kw
		g.Go(func() error {
			b.processOne(ctx, chatID, kw)
			return nil
		})
	}
	_ = g.Wait()
}

func (b *Batch) processOne(ctx context.Context, chatID int64, keyword string) {
	if err := b.pipe.Process(ctx, chatID, keyword); err != nil {
		b.logger.Printf("[batch] keyword %q failed: %v", keyword, err)
		_ = b.notifier.Notify(ctx, chatID, fmt.Sprintf("❌ Lỗi với từ khóa %s: %v", keyword, err))
	}
}
