package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seo_blog_publisher/bot"
	"seo_blog_publisher/generator"
	"seo_blog_publisher/imaging"
	"seo_blog_publisher/pipeline"
	"seo_blog_publisher/publisher"
	"seo_blog_publisher/selection"
)

var verbose bool

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	configPath := flag.String("config", "config/config.json", "path to config.json")
	keyword := flag.String("keyword", "", "process one keyword and publish immediately")
	serveBot := flag.Bool("bot", false, "start the Telegram bot")
	flag.BoolVar(&verbose, "v", false, "enable info logs")
	flag.Parse()

	cfg, err := publisher.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pub, err := publisher.New(cfg, nil, verbose, log.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	synth, err := imaging.NewSynthesizer(llm, &http.Client{Timeout: 60 * time.Second}, cfg.ScratchDir, verbose, log.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	results := selection.NewResultLog()
	coord := selection.NewCoordinator(pub, results)

	// Bot mode: deferred featured-image selection over Telegram.
	if *serveBot {
		tg, err := bot.New(cfg.TelegramToken, coord, verbose, log.Default())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		pipe, err := pipeline.New(llm, synth, pub, coord, tg, cfg.AutoPublish, verbose, log.Default())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		tg.AttachBatch(pipeline.NewBatch(pipe, tg, results, cfg.ConcurrentBatch, log.Default()))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log.Printf("[cli] starting Telegram bot")
		if err := tg.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if *keyword == "" {
		fmt.Fprintln(os.Stderr, "--keyword or --bot is required")
		os.Exit(1)
	}

	// One-shot mode has no operator to answer a selection prompt, so it
	// always publishes immediately.
	notifier := consoleNotifier{logger: log.Default()}
	pipe, err := pipeline.New(llm, synth, pub, coord, notifier, true, verbose, log.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Printf("[cli] processing keyword=%q", *keyword)
	if err := pipe.Process(ctx, 0, *keyword); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, row := range results.Snapshot() {
		fmt.Println(row.Link)
	}
}

func buildLLM(cfg publisher.Config) (generator.LLMClient, error) {
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model/api_key in config")
	}
	switch cfg.LLM.Provider {
	case "openai":
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider:   cfg.LLM.Provider,
			Model:      cfg.LLM.Model,
			ImageModel: cfg.LLM.ImageModel,
			APIKey:     cfg.LLM.APIKey,
			BaseURL:    cfg.LLM.BaseURL,
		})
	case "mock":
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

// consoleNotifier services the one-shot CLI mode, where progress goes to
// the local log instead of a chat.
type consoleNotifier struct {
	logger *log.Logger
}

func (c consoleNotifier) Notify(_ context.Context, _ int64, text string) error {
	c.logger.Printf("[cli] %s", text)
	return nil
}

func (c consoleNotifier) OfferSelection(_ context.Context, _ int64, sess *selection.Session) error {
	c.logger.Printf("[cli] session %s left open; rerun with auto_publish to resolve", sess.ID)
	return nil
}
