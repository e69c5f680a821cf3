package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eringen/pressroom/blocks"
	"github.com/eringen/pressroom/client"
)

const dateLayout = "2006-01-02"

func newArticlesCmd(opts *options) *cobra.Command {
	var fetch client.FetchOptions

	cmd := &cobra.Command{
		Use:     "articles",
		Aliases: []string{"ls"},
		Short:   "List articles",
		Long: `List articles newest first. Listing does not count views.

Examples:
  pressctl articles                        # First page of published articles
  pressctl articles --page 2 --page-size 10
  pressctl articles --category languages
  pressctl articles --drafts               # Include unpublished articles`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.client().FetchArticles(cmd.Context(), fetch)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if res.Single {
				if res.Article == nil {
					return fmt.Errorf("no article with slug %q", fetch.Slug)
				}
				if opts.json {
					return writeJSON(w, res.Article)
				}
				return printArticle(w, *res.Article, false)
			}
			if opts.json {
				return writeJSON(w, res)
			}
			if err := printArticleTable(w, res.Articles); err != nil {
				return err
			}
			if p := res.Meta.Pagination; p != nil {
				_, err = fmt.Fprintf(w, "\npage %d of %d (%d articles)\n", p.Page, p.PageCount, p.Total)
			}
			return err
		},
	}

	cmd.Flags().IntVar(&fetch.Page, "page", client.DefaultPage, "page number")
	cmd.Flags().IntVar(&fetch.PageSize, "page-size", client.DefaultPageSize, "articles per page")
	cmd.Flags().StringVar(&fetch.Category, "category", "", "filter by category slug or name")
	cmd.Flags().StringVar(&fetch.Slug, "slug", "", "fetch the article with this slug")
	cmd.Flags().BoolVar(&fetch.IncludeDrafts, "drafts", false, "include unpublished articles")
	return cmd
}

func newPopularCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most viewed published articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			articles, err := opts.client().FetchMostPopular(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), articles)
			}
			return printArticleTable(cmd.OutOrStdout(), articles)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "number of articles (server default when unset)")
	return cmd
}

func newGetCmd(opts *options) *cobra.Command {
	var withCode bool

	cmd := &cobra.Command{
		Use:   "get <id|slug>",
		Short: "Show one article and count a view",
		Long: `Show one article. A numeric argument is an ID, anything else a slug.
The server counts every get as a view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.client().FetchArticle(cmd.Context(), args[0])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("article %q not found", args[0])
				}
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), a)
			}
			return printArticle(cmd.OutOrStdout(), *a, withCode)
		},
	}

	cmd.Flags().BoolVar(&withCode, "code", false, "also print the article's code blocks as HTML")
	return cmd
}

func newCodeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "code <id|slug>",
		Short: "Print an article's rendered code blocks",
		Long:  `Print the HTML the server renders for an article's code blocks. No view is counted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			html, err := opts.client().FetchCodeBlocks(cmd.Context(), args[0])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("article %q not found", args[0])
				}
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), html)
			return err
		},
	}
}

func printArticleTable(w io.Writer, articles []client.DisplayArticle) error {
	t := newTable(w, "ID", "SLUG", "TITLE", "AUTHOR", "CATEGORY", "PUBLISHED", "VIEWS")
	for _, a := range articles {
		t.addRow(
			strconv.FormatInt(a.ID, 10),
			a.Slug,
			a.Title,
			a.Author,
			a.Category,
			a.PublishedAt.Format(dateLayout),
			strconv.FormatInt(a.Views, 10),
		)
	}
	return t.render()
}

func printArticle(w io.Writer, a client.DisplayArticle, withCode bool) error {
	fmt.Fprintf(w, "%s\n", a.Title)
	fmt.Fprintf(w, "  id:        %d\n", a.ID)
	fmt.Fprintf(w, "  slug:      %s\n", a.Slug)
	fmt.Fprintf(w, "  author:    %s\n", a.Author)
	fmt.Fprintf(w, "  category:  %s\n", a.Category)
	fmt.Fprintf(w, "  published: %s\n", a.PublishedAt.Format(dateLayout))
	fmt.Fprintf(w, "  views:     %d\n", a.Views)
	if a.Description != "" {
		fmt.Fprintf(w, "\n%s\n", a.Description)
	}
	if withCode {
		if n := blocks.Count(a.Blocks); n > 0 {
			fmt.Fprintf(w, "\n%d code block(s):\n", n)
			_, err := io.WriteString(w, blocks.RenderCodeBlocks(a.Blocks))
			return err
		}
	}
	return nil
}
