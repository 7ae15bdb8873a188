package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	menurank "github.com/kailas-cloud/menurank/pkg/sdk"
)

// NewClassifyCmd creates the 'classify' command. It never queries the index.
func NewClassifyCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "classify <query>",
		Short:   "Show how a query is classified and boosted",
		Example: `  menuctl classify "afuri store locations"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			defer client.Close()

			c := client.Classify(args[0])
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), c)
			}
			printClassification(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func printClassification(w io.Writer, c menurank.Classification) {
	brand := c.Brand
	if brand == "" {
		brand = "-"
	}
	fmt.Fprintf(w, "query:      %q\n", c.Query)
	fmt.Fprintf(w, "brand:      %s\n", brand)
	for _, m := range c.Categories {
		fmt.Fprintf(w, "category:   %s (%q -> %s)\n", m.Group, m.Pattern, m.Target)
	}
	for _, m := range c.Types {
		fmt.Fprintf(w, "type:       %s (%q -> %s)\n", m.Group, m.Pattern, m.Target)
	}
	fmt.Fprintf(w, "combined:   %t\n", c.CombinedMode)
	fmt.Fprintf(w, "boosts:     %s\n", boostsString(c.Boosts))
}
