// Package cli implements pressctl, a command line client for a pressroom
// server.
package cli

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/pressroom/client"
)

type options struct {
	baseURL string
	timeout time.Duration
	json    bool
}

func (o *options) client() *client.Client {
	return client.New(o.baseURL, client.WithTimeout(o.timeout))
}

// NewRootCmd builds the pressctl command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pressctl",
		Short: "Command line client for a pressroom server",
		Long: `pressctl reads articles, categories and authors from a pressroom server.

Example usage:
  pressctl articles --category languages   # List published articles
  pressctl popular --limit 5               # Most viewed articles
  pressctl get go-generics                 # Show one article (counts a view)
  pressctl code 42                         # Print rendered code blocks`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := os.Getenv("PRESSROOM_URL")
	if defaultURL == "" {
		defaultURL = client.DefaultBaseURL
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "url", defaultURL, "server base URL (env PRESSROOM_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "request timeout")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "output as JSON")

	root.AddCommand(
		newArticlesCmd(opts),
		newPopularCmd(opts),
		newGetCmd(opts),
		newCodeCmd(opts),
		newCategoriesCmd(opts),
		newAuthorsCmd(opts),
		newVersionCmd(version),
	)
	return root
}

// Execute runs pressctl with os.Args.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), "pressctl "+version+"\n")
			return err
		},
	}
}
