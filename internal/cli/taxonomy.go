package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := opts.client().FetchCategories(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), cats)
			}
			t := newTable(cmd.OutOrStdout(), "ID", "SLUG", "NAME", "DESCRIPTION")
			for _, c := range cats {
				t.addRow(strconv.FormatInt(c.ID, 10), c.Slug, c.Name, c.Description)
			}
			return t.render()
		},
	}
}

func newAuthorsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "authors",
		Short: "List authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			authors, err := opts.client().FetchAuthors(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), authors)
			}
			t := newTable(cmd.OutOrStdout(), "ID", "NAME", "EMAIL", "AVATAR")
			for _, a := range authors {
				t.addRow(strconv.FormatInt(a.ID, 10), a.Name, a.Email, a.Avatar.URL)
			}
			return t.render()
		},
	}
}
