package publisher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/kolo/xmlrpc"
)

// WordPress XML-RPC method names used by the publish sequence.
const (
	methodNewPost    = "wp.newPost"
	methodEditPost   = "wp.editPost"
	methodGetPost    = "wp.getPost"
	methodUploadFile = "wp.uploadFile"

	blogID = 0
)

// Rank Math SEO custom-field keys.
const (
	fieldMetaTitle    = "rank_math_title"
	fieldMetaDesc     = "rank_math_description"
	fieldFocusKeyword = "rank_math_focus_keyword"
)

var hrRe = regexp.MustCompile(`(?i)<hr\s*/?>`)

// Post is everything the CMS needs for one publish.
type Post struct {
	Title           string
	Content         string
	Slug            string
	MetaTitle       string
	MetaDescription string
	FocusKeyword    string
	// FeaturedMediaID, when set, becomes the post thumbnail via a
	// follow-up edit.
	FeaturedMediaID string
}

// Media is one uploaded attachment. ID is the numeric attachment id the
// thumbnail edit needs, kept as the string the CMS returns.
type Media struct {
	ID  string
	URL string
}

type uploadResp struct {
	ID   string `xmlrpc:"id"`
	URL  string `xmlrpc:"url"`
	File string `xmlrpc:"file"`
	Type string `xmlrpc:"type"`
}

type postContentResp struct {
	Content string `xmlrpc:"post_content"`
}

// Publisher talks XML-RPC to a WordPress site.
type Publisher struct {
	cfg     Config
	rpc     *xmlrpc.Client
	verbose bool
	logger  *log.Logger
}

// New creates a Publisher against cfg's WordPress endpoint.
func New(cfg Config, transport http.RoundTripper, verbose bool, logger *log.Logger) (*Publisher, error) {
	if cfg.WordpressURL == "" || cfg.WordpressUser == "" || cfg.WordpressPass == "" {
		return nil, errors.New("config must include wordpress_url, wordpress_user and wordpress_pass")
	}
	if logger == nil {
		logger = log.Default()
	}
	endpoint := strings.TrimRight(cfg.WordpressURL, "/") + "/xmlrpc.php"
	rpc, err := xmlrpc.NewClient(endpoint, transport)
	if err != nil {
		return nil, fmt.Errorf("xmlrpc client: %w", err)
	}
	return &Publisher{cfg: cfg, rpc: rpc, verbose: verbose, logger: logger}, nil
}

func (p *Publisher) infof(format string, args ...interface{}) {
	if !p.verbose {
		return
	}
	p.logger.Printf("[publisher] "+format, args...)
}

func (p *Publisher) args(tail ...interface{}) []interface{} {
	return append([]interface{}{blogID, p.cfg.WordpressUser, p.cfg.WordpressPass}, tail...)
}

// UploadImage uploads one local image file and returns its remote URL and
// attachment id. The local file is not removed here; ownership stays with
// the caller until the whole keyword succeeds.
func (p *Publisher) UploadImage(ctx context.Context, localPath, filename string) (Media, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return Media{}, err
	}
	payload := map[string]interface{}{
		"name":      filename,
		"type":      "image/jpeg",
		"bits":      data,
		"overwrite": false,
	}
	var resp uploadResp
	if err := p.call(ctx, methodUploadFile, p.args(payload), &resp); err != nil {
		return Media{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	if resp.URL == "" || resp.ID == "" {
		return Media{}, fmt.Errorf("upload %s: response missing url or id", filename)
	}
	p.infof("uploaded %s -> id=%s url=%s", filename, resp.ID, resp.URL)
	return Media{ID: resp.ID, URL: resp.URL}, nil
}

// Publish runs the full create sequence: new post with SEO custom fields,
// optional thumbnail edit, then a cleanup edit stripping stray hr markup
// the model sometimes emits. Returns the deterministic published link.
func (p *Publisher) Publish(ctx context.Context, post Post) (string, error) {
	if post.Title == "" || post.Slug == "" {
		return "", errors.New("post title and slug are required")
	}

	create := map[string]interface{}{
		"post_title":   post.Title,
		"post_content": post.Content,
		"post_name":    post.Slug,
		"post_status":  "publish",
		"custom_fields": []map[string]interface{}{
			{"key": fieldMetaTitle, "value": post.MetaTitle},
			{"key": fieldMetaDesc, "value": post.MetaDescription},
			{"key": fieldFocusKeyword, "value": post.FocusKeyword},
		},
	}
	var postID string
	if err := p.call(ctx, methodNewPost, p.args(create), &postID); err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}
	p.infof("created post id=%s slug=%s", postID, post.Slug)

	if post.FeaturedMediaID != "" {
		edit := map[string]interface{}{"post_thumbnail": post.FeaturedMediaID}
		var ok bool
		if err := p.call(ctx, methodEditPost, p.args(postID, edit), &ok); err != nil {
			return "", fmt.Errorf("set featured image: %w", err)
		}
		p.infof("featured image set post=%s media=%s", postID, post.FeaturedMediaID)
	}

	if err := p.cleanup(ctx, postID); err != nil {
		return "", fmt.Errorf("cleanup post %s: %w", postID, err)
	}

	return p.Link(post.Slug), nil
}

// Link is the published permalink for a slug.
func (p *Publisher) Link(slug string) string {
	return strings.TrimRight(p.cfg.WordpressURL, "/") + "/" + slug + "/"
}

// cleanup re-reads the stored content and strips hr markup left over from
// the em-dash normalization.
func (p *Publisher) cleanup(ctx context.Context, postID string) error {
	var got postContentResp
	if err := p.call(ctx, methodGetPost, p.args(postID, []string{"post_content"}), &got); err != nil {
		return err
	}
	cleaned := hrRe.ReplaceAllString(got.Content, "")
	if cleaned == got.Content {
		return nil
	}
	var ok bool
	return p.call(ctx, methodEditPost, p.args(postID, map[string]interface{}{"post_content": cleaned}), &ok)
}

// call guards the ctx-less XML-RPC transport with an early cancellation
// check; the underlying HTTP client enforces its own timeout.
func (p *Publisher) call(ctx context.Context, method string, args []interface{}, reply interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.rpc.Call(method, args, reply)
}
