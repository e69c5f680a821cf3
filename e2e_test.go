package pressroom

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressroom/client"
)

func newTestServer(t *testing.T) (*client.Client, *Store) {
	t.Helper()
	a, s := newTestApp(t, Config{})
	srv := httptest.NewServer(a.Echo)
	t.Cleanup(srv.Close)
	return client.New(srv.URL), s
}

func TestClientFetchArticleCountsView(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()

	a, err := c.FetchArticle(ctx, "go-generics")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(6), a.Views)
	assert.Equal(t, "Ada", a.Author)
	assert.Equal(t, "/uploads/ada.png", a.AuthorImage.URL)
	assert.Equal(t, "Languages", a.Category)
	assert.Equal(t, "/uploads/go.png", a.Image.URL)
	assert.Equal(t, *at(1), a.PublishedAt.UTC())

	a, err = c.FetchArticle(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), a.Views)
}

func TestClientFetchArticleDefaults(t *testing.T) {
	c, _ := newTestServer(t)

	a, err := c.FetchArticle(context.Background(), "zig-comptime")
	require.NoError(t, err)
	assert.Equal(t, client.DefaultAuthorName, a.Author)
	assert.Equal(t, client.DefaultCategoryName, a.Category)
	assert.Equal(t, client.DefaultAvatarURL, a.AuthorImage.URL)
	assert.Equal(t, client.DefaultImageURL, a.Image.URL)
}

func TestClientFetchArticleNotFound(t *testing.T) {
	c, _ := newTestServer(t)

	_, err := c.FetchArticle(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Contains(t, err.Error(), "article not found")
}

func TestClientFetchArticles(t *testing.T) {
	c, s := newTestServer(t)
	ctx := context.Background()

	res, err := c.FetchArticles(ctx, client.FetchOptions{Category: "languages"})
	require.NoError(t, err)
	assert.False(t, res.Single)
	require.Len(t, res.Articles, 2)
	assert.Equal(t, "rust-traits", res.Articles[0].Slug)
	require.NotNil(t, res.Meta.Pagination)
	assert.Equal(t, 2, res.Meta.Pagination.Total)

	res, err = c.FetchArticles(ctx, client.FetchOptions{IncludeDrafts: true, PageSize: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Meta.Pagination.Total)
	require.Len(t, res.Articles, 2)
	assert.Equal(t, "draft-notes", res.Articles[1].Slug)

	res, err = c.FetchArticles(ctx, client.FetchOptions{Slug: "rust-traits"})
	require.NoError(t, err)
	assert.True(t, res.Single)
	require.NotNil(t, res.Article)
	assert.Equal(t, int64(12), res.Article.Views, "listing does not count a view")

	res, err = c.FetchArticles(ctx, client.FetchOptions{Slug: "draft-notes"})
	require.NoError(t, err)
	assert.True(t, res.Single)
	assert.Nil(t, res.Article)

	got, err := s.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.Views)
}

func TestClientFetchMostPopular(t *testing.T) {
	c, _ := newTestServer(t)

	articles, err := c.FetchMostPopular(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "rust-traits", articles[0].Slug)
	assert.Equal(t, "zig-comptime", articles[1].Slug)
}

func TestClientFetchCodeBlocks(t *testing.T) {
	c, _ := newTestServer(t)

	html, err := c.FetchCodeBlocks(context.Background(), "1")
	require.NoError(t, err)
	assert.Contains(t, html, `<code class="language-go">func Map[T any]() {}</code>`)
}

func TestClientFetchCategoriesAndAuthors(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()

	cats, err := c.FetchCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Languages", cats[0].Name)

	authors, err := c.FetchAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "/uploads/ada.png", authors[0].Avatar.URL)
}
