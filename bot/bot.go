package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"seo_blog_publisher/pipeline"
	"seo_blog_publisher/selection"
)

// Bot is the Telegram front end: /keyword runs one keyword, an uploaded
// .txt runs a batch, and inline buttons resolve featured-image choices.
type Bot struct {
	api     *tgbotapi.BotAPI
	batch   *pipeline.Batch
	coord   *selection.Coordinator
	client  *http.Client
	verbose bool
	logger  *log.Logger
}

// New builds the bot without its batch runner: the bot is the pipeline's
// notifier, so the runner is attached after the pipeline exists.
func New(token string, coord *selection.Coordinator, verbose bool, logger *log.Logger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram token is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Bot{
		api:     api,
		coord:   coord,
		client:  http.DefaultClient,
		verbose: verbose,
		logger:  logger,
	}, nil
}

// AttachBatch wires the batch runner in; must happen before Run.
func (b *Bot) AttachBatch(batch *pipeline.Batch) {
	b.batch = batch
}

func (b *Bot) infof(format string, args ...interface{}) {
	if !b.verbose {
		return
	}
	b.logger.Printf("[bot] "+format, args...)
}

// Run drives the long-poll update loop until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if b.batch == nil {
		return errors.New("bot: batch runner not attached")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)
	b.logger.Printf("[bot] listening as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.Document != nil:
		b.handleKeywordFile(ctx, upd.Message)
	case upd.Message != nil && upd.Message.IsCommand() && upd.Message.Command() == "keyword":
		b.handleKeywordCommand(ctx, upd.Message)
	}
}

func (b *Bot) handleKeywordCommand(ctx context.Context, msg *tgbotapi.Message) {
	keyword := strings.TrimSpace(msg.CommandArguments())
	if keyword == "" {
		b.reply(msg.Chat.ID, "❌ Vui lòng nhập từ khóa. Ví dụ: /keyword marketing online")
		return
	}
	b.runBatch(ctx, msg.Chat.ID, []string{keyword})
}

func (b *Bot) handleKeywordFile(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	if !strings.HasSuffix(doc.FileName, ".txt") {
		b.reply(msg.Chat.ID, "❌ Vui lòng gửi file .txt chứa danh sách từ khóa.")
		return
	}
	keywords, err := b.fetchKeywordList(ctx, doc.FileID)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Không đọc được file: %v", err))
		return
	}
	if len(keywords) == 0 {
		b.reply(msg.Chat.ID, "❌ File không chứa từ khóa nào.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("📥 Đã nhận %d từ khóa. Bắt đầu xử lý...", len(keywords)))
	b.runBatch(ctx, msg.Chat.ID, keywords)
}

func (b *Bot) runBatch(ctx context.Context, chatID int64, keywords []string) {
	reportPath, err := b.batch.Run(ctx, chatID, keywords)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("❌ Lỗi tạo báo cáo: %v", err))
		return
	}
	report := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(reportPath))
	if _, err := b.api.Send(report); err != nil {
		b.logger.Printf("[bot] send report: %v", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	id, choice, err := parseSelection(cq.Data)
	if err != nil || cq.Message == nil {
		b.answer(cq.ID, "Lựa chọn không hợp lệ")
		return
	}
	chatID := cq.Message.Chat.ID
	link, err := b.coord.Resolve(ctx, id, choice)
	if err != nil {
		b.answer(cq.ID, "")
		b.reply(chatID, fmt.Sprintf("❌ Không đăng được bài: %v", err))
		return
	}
	b.infof("session %s resolved choice=%d", id, choice)
	b.answer(cq.ID, "Đã đăng bài")
	b.reply(chatID, fmt.Sprintf("✅ Đăng thành công: %s", link))
}

// fetchKeywordList downloads an uploaded .txt and splits it into one
// keyword per non-empty line.
func (b *Bot) fetchKeywordList(ctx context.Context, fileID string) ([]string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return SplitKeywords(string(data)), nil
}

// SplitKeywords parses a newline-delimited keyword list, dropping blank
// lines and edge whitespace.
func SplitKeywords(text string) []string {
	var keywords []string
	for _, line := range strings.Split(text, "\n") {
		if kw := strings.TrimSpace(line); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// Notify implements pipeline.Notifier.
func (b *Bot) Notify(_ context.Context, chatID int64, text string) error {
	return b.reply(chatID, text)
}

// OfferSelection implements pipeline.Notifier: it shows the three
// illustrations and an inline keyboard whose payloads carry the session
// id plus the choice.
func (b *Bot) OfferSelection(_ context.Context, chatID int64, sess *selection.Session) error {
	for i, img := range sess.Images {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(img.RemoteURL))
		photo.Caption = fmt.Sprintf("Ảnh %d: %s", i+1, img.Caption)
		if _, err := b.api.Send(photo); err != nil {
			return err
		}
	}

	prompt := tgbotapi.NewMessage(chatID, fmt.Sprintf("🖼 Chọn ảnh đại diện cho bài: %s", sess.Keyword))
	prompt.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Ảnh 1", encodeSelection(sess.ID, 0)),
			tgbotapi.NewInlineKeyboardButtonData("Ảnh 2", encodeSelection(sess.ID, 1)),
			tgbotapi.NewInlineKeyboardButtonData("Ảnh 3", encodeSelection(sess.ID, 2)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Không chọn ảnh", encodeSelection(sess.ID, selection.NoFeaturedImage)),
		),
	)
	_, err := b.api.Send(prompt)
	return err
}

func (b *Bot) reply(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		b.logger.Printf("[bot] send message: %v", err)
	}
	return err
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Printf("[bot] answer callback: %v", err)
	}
}
