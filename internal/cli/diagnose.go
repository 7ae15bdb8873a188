package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	menurank "github.com/kailas-cloud/menurank/pkg/sdk"
)

// ErrDiagnosisFailed is returned when any diagnostic step fails.
var ErrDiagnosisFailed = errors.New("diagnosis failed")

// NewDiagnoseCmd creates the 'diagnose' command.
func NewDiagnoseCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Check the index and semantic service step by step",
		Long: `Checks, in order: index ping, document count, semantic service status,
and a few sample searches. Prints the first failing step with a remediation hint.`,
		Example: `  menuctl diagnose --index-url http://localhost:8983 --semantic-url http://localhost:8002`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			defer client.Close()

			d := client.Diagnose(cmd.Context())
			if opts.JSON {
				if err := printJSON(cmd.OutOrStdout(), d.Steps); err != nil {
					return err
				}
			} else {
				printDiagnosis(cmd.OutOrStdout(), d)
			}
			if f, failed := d.FirstFailure(); failed {
				return fmt.Errorf("%w at %s", ErrDiagnosisFailed, f.Name)
			}
			return nil
		},
	}
}

func printDiagnosis(w io.Writer, d menurank.Diagnosis) {
	for _, s := range d.Steps {
		mark := "✓"
		switch s.Status {
		case menurank.StepFailed:
			mark = "✗"
		case menurank.StepSkipped:
			mark = "-"
		}
		fmt.Fprintf(w, "%s %-16s %s\n", mark, s.Name, s.Detail)
	}

	fmt.Fprintln(w)
	f, failed := d.FirstFailure()
	if !failed {
		fmt.Fprintln(w, "All checks passed.")
		return
	}
	fmt.Fprintf(w, "First failure: %s\n", f.Name)
	fmt.Fprintf(w, "  fix: %s\n", f.Hint)
}
