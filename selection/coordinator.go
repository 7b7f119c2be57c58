package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"seo_blog_publisher/content"
	"seo_blog_publisher/generator"
	"seo_blog_publisher/imaging"
	"seo_blog_publisher/publisher"
	"seo_blog_publisher/slug"
)

// NoFeaturedImage resolves a session without setting a thumbnail.
const NoFeaturedImage = -1

var (
	ErrSessionExists   = errors.New("selection: keyword already awaiting a choice in this chat")
	ErrSessionNotFound = errors.New("selection: session not found or already resolved")
	ErrBadChoice       = errors.New("selection: image choice out of range")
)

// Session bridges image generation and the operator's eventual featured-
// image choice. It holds everything resolution needs to publish.
type Session struct {
	ID        string
	ChatID    int64
	Keyword   string
	Draft     generator.Article
	Images    []imaging.Asset
	CreatedAt time.Time
}

// CMS is the publish collaborator the coordinator resolves into.
type CMS interface {
	Publish(ctx context.Context, post publisher.Post) (string, error)
}

// Coordinator holds pending-publish sessions. Sessions are addressed by a
// generated id on the wire and additionally keyed by (chat, keyword) so a
// keyword can only wait for one choice per chat at a time. Resolution is
// one-shot: the session is removed before the publish call, so a second
// attempt fails without touching the CMS or the result log.
//
// A session the operator never resolves stays open until process exit;
// OpenCount exposes the backlog.
type Coordinator struct {
	mu       sync.Mutex
	sessions map[string]*Session
	byKey    map[string]string
	cms      CMS
	results  *ResultLog
}

func NewCoordinator(cms CMS, results *ResultLog) *Coordinator {
	return &Coordinator{
		sessions: make(map[string]*Session),
		byKey:    make(map[string]string),
		cms:      cms,
		results:  results,
	}
}

func sessionKey(chatID int64, keyword string) string {
	return fmt.Sprintf("%d|%s", chatID, keyword)
}

// Open registers a keyword awaiting a featured-image choice. It requires
// the full set of three uploaded illustrations.
func (c *Coordinator) Open(chatID int64, keyword string, draft generator.Article, images []imaging.Asset) (*Session, error) {
	if len(images) != 3 {
		return nil, fmt.Errorf("selection: need exactly 3 images, got %d", len(images))
	}
	for i, img := range images {
		if img.RemoteID == "" || img.RemoteURL == "" {
			return nil, fmt.Errorf("selection: image %d not uploaded", i)
		}
	}

	sess := &Session{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Keyword:   keyword,
		Draft:     draft,
		Images:    images,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	key := sessionKey(chatID, keyword)
	if _, exists := c.byKey[key]; exists {
		return nil, ErrSessionExists
	}
	c.sessions[sess.ID] = sess
	c.byKey[key] = sess.ID
	return sess, nil
}

// Get looks up an open session by id.
func (c *Coordinator) Get(id string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.sessions[id]
	return sess, ok
}

// OpenCount is the number of sessions still awaiting a choice.
func (c *Coordinator) OpenCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Resolve applies the operator's choice (0–2, or NoFeaturedImage) and
// publishes: assemble final HTML, create the post with its SEO fields,
// feature the chosen image, record the result. Returns the published
// link. An unknown or already-resolved id fails with ErrSessionNotFound
// before any side effect.
func (c *Coordinator) Resolve(ctx context.Context, id string, choice int) (string, error) {
	if choice != NoFeaturedImage && (choice < 0 || choice > 2) {
		return "", ErrBadChoice
	}

	c.mu.Lock()
	sess, ok := c.sessions[id]
	if !ok {
		c.mu.Unlock()
		return "", ErrSessionNotFound
	}
	delete(c.sessions, id)
	delete(c.byKey, sessionKey(sess.ChatID, sess.Keyword))
	c.mu.Unlock()

	html, err := content.Assemble(sess.Draft, sess.Images)
	if err != nil {
		return "", err
	}
	post := publisher.Post{
		Title:           sess.Draft.PostTitle,
		Content:         html,
		Slug:            slug.Normalize(sess.Keyword),
		MetaTitle:       sess.Draft.MetaTitle,
		MetaDescription: sess.Draft.MetaDescription,
		FocusKeyword:    sess.Draft.FocusKeyword,
	}
	if choice != NoFeaturedImage {
		post.FeaturedMediaID = sess.Images[choice].RemoteID
	}

	link, err := c.cms.Publish(ctx, post)
	if err != nil {
		return "", fmt.Errorf("publish %q: %w", sess.Keyword, err)
	}
	c.results.Append(sess.Keyword, link)
	return link, nil
}
