package pressroom

import (
	"context"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pressroom/blocks"
	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/wire"
)

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/healthz", a.handleHealth)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: a.registry,
	}))
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	var mw []echo.MiddlewareFunc
	if limit := a.apiRateLimit(); limit != nil {
		mw = append(mw, limit)
	}
	api := e.Group("/api", mw...)
	api.GET("/articles", a.handleArticles)
	api.GET("/articles/most-popular", a.handleMostPopular)
	api.GET("/articles/:id", a.handleArticle)
	api.GET("/articles/:id/code-blocks", a.handleCodeBlocks)
	api.GET("/categories", a.handleCategories)
	api.GET("/authors", a.handleAuthors)
}

// handleArticles serves the collection endpoint. mostPopular=true switches
// it to the popularity ranking.
func (a *App) handleArticles(c echo.Context) error {
	if c.QueryParam("mostPopular") == "true" {
		return a.handleMostPopular(c)
	}

	page, size := content.ParsePagination(
		c.QueryParam("pagination[page]"),
		c.QueryParam("pagination[pageSize]"),
	)
	q := content.ListQuery{
		Page:          page,
		PageSize:      size,
		Slug:          c.QueryParam("filters[slug][$eq]"),
		Category:      c.QueryParam("filters[category][$eq]"),
		IncludeDrafts: c.QueryParam("publicationState") == "preview",
	}
	articles, total, err := a.Service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wire.ListResponse[wire.ArticleAttributes]{
		Data: wire.FromArticles(articles),
		Meta: wire.Meta{Pagination: wire.NewPagination(page, size, total)},
	})
}

func (a *App) handleMostPopular(c echo.Context) error {
	limit := content.ParseLimit(c.QueryParam("limit"))
	articles, err := a.Service.MostPopular(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	a.metrics.popularQueries.Inc()
	return c.JSON(http.StatusOK, wire.ListResponse[wire.ArticleAttributes]{
		Data: wire.FromArticles(articles),
	})
}

// handleArticle looks up one article by ID or slug and counts the view.
func (a *App) handleArticle(c echo.Context) error {
	article, err := a.Service.Lookup(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wire.Single(wire.FromArticle(*article)))
}

func (a *App) handleCodeBlocks(c echo.Context) error {
	article, err := a.Service.Resolve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return Render(c, blocks.CodeBlocks(article.Blocks))
}

func (a *App) handleCategories(c echo.Context) error {
	categories, err := a.Service.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	data := wire.FromCategories(categories)
	return c.JSON(http.StatusOK, wire.ListResponse[wire.CategoryAttributes]{
		Data: data,
		Meta: wire.Meta{Pagination: wire.NewPagination(1, len(data), len(data))},
	})
}

func (a *App) handleAuthors(c echo.Context) error {
	authors, err := a.Service.Authors(c.Request().Context())
	if err != nil {
		return err
	}
	data := wire.FromAuthors(authors)
	return c.JSON(http.StatusOK, wire.ListResponse[wire.AuthorAttributes]{
		Data: data,
		Meta: wire.Meta{Pagination: wire.NewPagination(1, len(data), len(data))},
	})
}

func (a *App) handleSitemap(c echo.Context) error {
	articles, err := a.Feeds.Published(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, articles)
}

func (a *App) handleFeed(c echo.Context) error {
	articles, err := a.Feeds.Latest(c.Request().Context(), a.Config.FeedSize)
	if err != nil {
		return err
	}
	return a.renderRSS(c, articles)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (a *App) handleHealth(c echo.Context) error {
	if p, ok := a.Repo.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Version: a.Config.Version})
		}
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Version: a.Config.Version})
}
