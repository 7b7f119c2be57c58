package publisher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var methodNameRe = regexp.MustCompile(`<methodName>([^<]+)</methodName>`)

// fakeWordPress answers the XML-RPC methods the publish sequence issues
// and records their order.
type fakeWordPress struct {
	calls       []string
	bodies      []string
	postContent string
}

func (f *fakeWordPress) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	m := methodNameRe.FindSubmatch(body)
	if m == nil {
		http.Error(w, "no method", http.StatusBadRequest)
		return
	}
	method := string(m[1])
	f.calls = append(f.calls, method)
	f.bodies = append(f.bodies, string(body))

	w.Header().Set("Content-Type", "text/xml")
	switch method {
	case "wp.newPost":
		fmt.Fprint(w, respString("42"))
	case "wp.editPost":
		fmt.Fprint(w, `<?xml version="1.0"?><methodResponse><params><param><value><boolean>1</boolean></value></param></params></methodResponse>`)
	case "wp.getPost":
		fmt.Fprintf(w, `<?xml version="1.0"?><methodResponse><params><param><value><struct><member><name>post_content</name><value><string>%s</string></value></member></struct></value></param></params></methodResponse>`, f.postContent)
	case "wp.uploadFile":
		fmt.Fprint(w, `<?xml version="1.0"?><methodResponse><params><param><value><struct><member><name>id</name><value><string>77</string></value></member><member><name>url</name><value><string>https://blog.example/wp-content/anh.jpg</string></value></member><member><name>file</name><value><string>anh.jpg</string></value></member><member><name>type</name><value><string>image/jpeg</string></value></member></struct></value></param></params></methodResponse>`)
	default:
		http.Error(w, "unknown method", http.StatusNotFound)
	}
}

func respString(s string) string {
	return fmt.Sprintf(`<?xml version="1.0"?><methodResponse><params><param><value><string>%s</string></value></param></params></methodResponse>`, s)
}

func newTestPublisher(t *testing.T, fake *fakeWordPress) (*Publisher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	cfg := Config{WordpressURL: srv.URL, WordpressUser: "admin", WordpressPass: "secret"}
	p, err := New(cfg, srv.Client().Transport, false, nil)
	require.NoError(t, err)
	return p, srv
}

func TestPublishSequenceWithFeaturedImage(t *testing.T) {
	fake := &fakeWordPress{postContent: "trước&lt;hr&gt;sau"}
	p, srv := newTestPublisher(t, fake)

	link, err := p.Publish(context.Background(), Post{
		Title:           "Bài về cà phê sữa",
		Content:         "<p>thân bài</p>",
		Slug:            "ca-phe-sua",
		MetaTitle:       "Cà phê sữa chuẩn SEO",
		MetaDescription: "Mô tả",
		FocusKeyword:    "cà phê sữa",
		FeaturedMediaID: "77",
	})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/ca-phe-sua/", link)

	// create → thumbnail edit → cleanup read → cleanup edit
	assert.Equal(t, []string{"wp.newPost", "wp.editPost", "wp.getPost", "wp.editPost"}, fake.calls)
	assert.Contains(t, fake.bodies[0], "rank_math_focus_keyword")
	assert.Contains(t, fake.bodies[1], "post_thumbnail")
	// The cleanup edit must carry the hr-stripped content.
	assert.Contains(t, fake.bodies[3], "trướcsau")
}

func TestPublishWithoutFeaturedImageSkipsThumbnailEdit(t *testing.T) {
	fake := &fakeWordPress{postContent: "nội dung sạch"}
	p, _ := newTestPublisher(t, fake)

	_, err := p.Publish(context.Background(), Post{Title: "T", Content: "c", Slug: "t"})
	require.NoError(t, err)
	assert.Equal(t, []string{"wp.newPost", "wp.getPost"}, fake.calls)
}

func TestPublishRequiresTitleAndSlug(t *testing.T) {
	fake := &fakeWordPress{}
	p, _ := newTestPublisher(t, fake)
	_, err := p.Publish(context.Background(), Post{Title: "only title"})
	assert.Error(t, err)
	assert.Empty(t, fake.calls)
}

func TestUploadImage(t *testing.T) {
	fake := &fakeWordPress{}
	p, _ := newTestPublisher(t, fake)

	path := filepath.Join(t.TempDir(), "anh.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpegdata"), 0o644))

	media, err := p.UploadImage(context.Background(), path, "anh.jpg")
	require.NoError(t, err)
	assert.Equal(t, "77", media.ID)
	assert.Equal(t, "https://blog.example/wp-content/anh.jpg", media.URL)
	require.Equal(t, []string{"wp.uploadFile"}, fake.calls)
	assert.Contains(t, fake.bodies[0], "base64")
}

func TestPublishCancelledContext(t *testing.T) {
	fake := &fakeWordPress{}
	p, _ := newTestPublisher(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Publish(ctx, Post{Title: "T", Content: "c", Slug: "t"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.calls)
}

func TestLink(t *testing.T) {
	cfg := Config{WordpressURL: "https://blog.example/", WordpressUser: "u", WordpressPass: "p"}
	p, err := New(cfg, nil, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example/ca-phe-sua/", p.Link("ca-phe-sua"))
	assert.True(t, strings.HasSuffix(p.Link("x"), "/x/"))
}
