package selection

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seo_blog_publisher/generator"
	"seo_blog_publisher/imaging"
	"seo_blog_publisher/publisher"
)

type fakeCMS struct {
	posts []publisher.Post
	err   error
}

func (f *fakeCMS) Publish(_ context.Context, post publisher.Post) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.posts = append(f.posts, post)
	return "https://blog.example/" + post.Slug + "/", nil
}

func uploadedImages() []imaging.Asset {
	imgs := make([]imaging.Asset, 3)
	for i := range imgs {
		imgs[i] = imaging.Asset{
			Caption:   fmt.Sprintf("chú thích %d", i+1),
			Slug:      fmt.Sprintf("chu-thich-%d", i+1),
			RemoteURL: fmt.Sprintf("https://blog.example/wp-content/%d.jpg", i+1),
			RemoteID:  fmt.Sprintf("%d", 200+i),
		}
	}
	return imgs
}

func draftFor(keyword string) generator.Article {
	return generator.Article{
		FocusKeyword:    keyword,
		PostTitle:       "Bài viết về " + keyword,
		MetaTitle:       keyword + " chuẩn SEO",
		MetaDescription: "Mô tả " + keyword,
		Body:            "Sapo.\n\n## Mục\n\nĐoạn thân bài.\n\n## Kết luận\n\nKết.",
	}
}

func TestResolvePublishesAndRecords(t *testing.T) {
	cms := &fakeCMS{}
	log := NewResultLog()
	c := NewCoordinator(cms, log)

	sess, err := c.Open(7, "cà phê sữa", draftFor("cà phê sữa"), uploadedImages())
	require.NoError(t, err)
	assert.Equal(t, 1, c.OpenCount())

	link, err := c.Resolve(context.Background(), sess.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example/ca-phe-sua/", link)

	require.Len(t, cms.posts, 1)
	post := cms.posts[0]
	assert.Equal(t, "ca-phe-sua", post.Slug)
	assert.Equal(t, "201", post.FeaturedMediaID)
	assert.Equal(t, "cà phê sữa", post.FocusKeyword)
	assert.Contains(t, post.Content, "<figure>")

	require.Equal(t, 1, log.Len())
	row := log.Snapshot()[0]
	assert.Equal(t, Result{Ordinal: 1, Keyword: "cà phê sữa", Link: link}, row)
	assert.Equal(t, 0, c.OpenCount())
}

func TestResolveNoFeaturedImage(t *testing.T) {
	cms := &fakeCMS{}
	c := NewCoordinator(cms, NewResultLog())
	sess, err := c.Open(1, "kw", draftFor("kw"), uploadedImages())
	require.NoError(t, err)

	_, err = c.Resolve(context.Background(), sess.ID, NoFeaturedImage)
	require.NoError(t, err)
	assert.Empty(t, cms.posts[0].FeaturedMediaID)
}

func TestResolveTwiceFailsWithoutSideEffects(t *testing.T) {
	cms := &fakeCMS{}
	log := NewResultLog()
	c := NewCoordinator(cms, log)
	sess, err := c.Open(1, "kw", draftFor("kw"), uploadedImages())
	require.NoError(t, err)

	_, err = c.Resolve(context.Background(), sess.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 1, log.Len())

	_, err = c.Resolve(context.Background(), sess.ID, 2)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 1, log.Len())
	assert.Len(t, cms.posts, 1)
}

func TestResolveUnknownID(t *testing.T) {
	cms := &fakeCMS{}
	c := NewCoordinator(cms, NewResultLog())
	_, err := c.Resolve(context.Background(), "không tồn tại", 0)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, cms.posts)
}

func TestResolveBadChoiceLeavesSessionOpen(t *testing.T) {
	c := NewCoordinator(&fakeCMS{}, NewResultLog())
	sess, err := c.Open(1, "kw", draftFor("kw"), uploadedImages())
	require.NoError(t, err)

	_, err = c.Resolve(context.Background(), sess.ID, 5)
	assert.ErrorIs(t, err, ErrBadChoice)
	assert.Equal(t, 1, c.OpenCount())
}

func TestOpenDuplicateKeyword(t *testing.T) {
	c := NewCoordinator(&fakeCMS{}, NewResultLog())
	_, err := c.Open(1, "kw", draftFor("kw"), uploadedImages())
	require.NoError(t, err)

	_, err = c.Open(1, "kw", draftFor("kw"), uploadedImages())
	assert.ErrorIs(t, err, ErrSessionExists)

	// Same keyword in another chat is a distinct session key.
	_, err = c.Open(2, "kw", draftFor("kw"), uploadedImages())
	assert.NoError(t, err)
}

func TestOpenRejectsPartialUploads(t *testing.T) {
	c := NewCoordinator(&fakeCMS{}, NewResultLog())

	_, err := c.Open(1, "kw", draftFor("kw"), uploadedImages()[:2])
	assert.Error(t, err)

	imgs := uploadedImages()
	imgs[2].RemoteID = ""
	_, err = c.Open(1, "kw", draftFor("kw"), imgs)
	assert.Error(t, err)
}

func TestResolvePublishFailureReturnsError(t *testing.T) {
	cms := &fakeCMS{err: errors.New("xmlrpc: fault")}
	log := NewResultLog()
	c := NewCoordinator(cms, log)
	sess, err := c.Open(1, "kw", draftFor("kw"), uploadedImages())
	require.NoError(t, err)

	_, err = c.Resolve(context.Background(), sess.ID, 0)
	assert.ErrorContains(t, err, "xmlrpc: fault")
	assert.Equal(t, 0, log.Len())
}
