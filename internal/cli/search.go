package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	menurank "github.com/kailas-cloud/menurank/pkg/sdk"
)

// NewSearchCmd creates the 'search' command.
func NewSearchCmd(opts *Options) *cobra.Command {
	var (
		section, category, tag string
		priceMin, priceMax     float64
		rows, limit            int
		keywordOnly            bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a ranked search",
		Example: `  menuctl search "afuri yuzu ramen"
  menuctl search ramen --section Menu --price-max 1500
  menuctl search "" --category Drinks --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			searchOpts := []menurank.SearchOption{menurank.Rows(rows), menurank.Limit(limit)}
			if section != "" {
				searchOpts = append(searchOpts, menurank.InSection(section))
			}
			if category != "" {
				searchOpts = append(searchOpts, menurank.InCategory(category))
			}
			if tag != "" {
				searchOpts = append(searchOpts, menurank.WithTag(tag))
			}
			var lo, hi *float64
			if cmd.Flags().Changed("price-min") {
				lo = &priceMin
			}
			if cmd.Flags().Changed("price-max") {
				hi = &priceMax
			}
			if lo != nil || hi != nil {
				searchOpts = append(searchOpts, menurank.PriceRange(lo, hi))
			}
			if keywordOnly {
				searchOpts = append(searchOpts, menurank.KeywordOnly())
			}

			client, err := opts.client()
			if err != nil {
				return err
			}
			defer client.Close()

			res, err := client.Search(cmd.Context(), query, searchOpts...)
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printSearch(cmd.OutOrStdout(), res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&section, "section", "", "Restrict to a catalog section")
	f.StringVar(&category, "category", "", "Restrict to a category")
	f.StringVar(&tag, "tag", "", "Restrict to a tag")
	f.Float64Var(&priceMin, "price-min", 0, "Minimum price (inclusive)")
	f.Float64Var(&priceMax, "price-max", 0, "Maximum price (inclusive)")
	f.IntVar(&rows, "rows", 0, "Candidates requested from the index (default 50)")
	f.IntVar(&limit, "limit", 0, "Results returned (default 20)")
	f.BoolVar(&keywordOnly, "keyword-only", false, "Skip semantic fusion")
	return cmd
}

func printSearch(w io.Writer, res *menurank.SearchResult) {
	mode := "keyword"
	if res.Fused {
		mode = "hybrid"
	}
	fmt.Fprintf(w, "%d of %d results (%s ranking, filter encoding %s)\n\n",
		len(res.Results), res.NumFound, mode, res.FilterEncoding)
	for i, r := range res.Results {
		fmt.Fprintf(w, "%2d. %-40s %.3f  kw=%.3f sem=%.3f  [%s] %s\n",
			i+1, r.Fields["title"], r.Score, r.KeywordScore, r.SemanticScore, r.Fields["section"], r.ID)
	}
	if len(res.Boosts) > 0 {
		fmt.Fprintf(w, "\nboosts: %s\n", boostsString(res.Boosts))
	}
}

func boostsString(bs []menurank.Boost) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		parts = append(parts, fmt.Sprintf("%s^%g", b.Predicate, b.Weight))
	}
	return strings.Join(parts, " ")
}
