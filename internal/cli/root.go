// Package cli implements the menuctl commands on top of the public SDK.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	menurank "github.com/kailas-cloud/menurank/pkg/sdk"
)

// Options holds the connection flags shared by every command.
type Options struct {
	IndexURL    string
	Core        string
	Origin      string
	SemanticURL string
	Taxonomy    string
	Timeout     time.Duration
	JSON        bool
}

// AddFlags registers the shared flags on cmd as persistent flags.
func (o *Options) AddFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.IndexURL, "index-url", "http://localhost:8983", "Solr base URL")
	f.StringVar(&o.Core, "core", "menu", "Solr core name")
	f.StringVar(&o.Origin, "origin", "", "Origin header sent to the index")
	f.StringVar(&o.SemanticURL, "semantic-url", "", "Semantic service base URL (empty: keyword-only)")
	f.StringVar(&o.Taxonomy, "taxonomy", "", "Taxonomy YAML file (empty: built-in)")
	f.DurationVar(&o.Timeout, "timeout", 10*time.Second, "Per-call timeout")
	f.BoolVarP(&o.JSON, "json", "j", false, "Output as JSON")
}

// client builds an SDK client from the flags.
func (o *Options) client() (*menurank.Client, error) {
	opts := []menurank.Option{
		menurank.WithIndex(o.IndexURL, o.Core),
		menurank.WithIndexTimeout(o.Timeout),
		menurank.WithSemanticTimeout(o.Timeout),
	}
	if o.Origin != "" {
		opts = append(opts, menurank.WithIndexOrigin(o.Origin))
	}
	if o.SemanticURL != "" {
		opts = append(opts, menurank.WithSemantic(o.SemanticURL))
	}
	if o.Taxonomy != "" {
		opts = append(opts, menurank.WithTaxonomyFile(o.Taxonomy))
	}
	c, err := menurank.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// NewRootCmd assembles menuctl with all subcommands.
func NewRootCmd(version string) *cobra.Command {
	opts := &Options{}
	root := &cobra.Command{
		Use:   "menuctl",
		Short: "Query and diagnose the menurank relevance engine",
		Long: `menuctl runs searches and query classification against a Solr menu index,
optionally fused with the semantic similarity service, and diagnoses the setup.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.AddFlags(root)

	root.AddCommand(NewSearchCmd(opts))
	root.AddCommand(NewClassifyCmd(opts))
	root.AddCommand(NewDiagnoseCmd(opts))
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
