package commands

import (
	"fmt"

	"github.com/panyam/ferret/cst"
	"github.com/spf13/cobra"
)

var parseSexp bool

var parseCmd = &cobra.Command{
	Use:   "parse <file...|->",
	Short: "Parses files and prints their syntax trees",
	Long: `The parse command prints the concrete syntax tree of each file, one node
per line with field names, token text and spans.  With --sexp the tree is
printed as a single S-expression of named nodes instead.  Diagnostics go to
stderr.  A single "-" reads the source from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := parseArgs(cmd, args)
		if err != nil {
			return err
		}
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		failed := false
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintln(errOut, r.Err)
				failed = true
				continue
			}
			if len(results) > 1 {
				fmt.Fprintf(out, "== %s\n", r.Path)
			}
			if parseSexp {
				fmt.Fprintln(out, r.File.Root)
			} else {
				fmt.Fprint(out, cst.Dump(r.File.Root))
			}
			printDiagnostics(errOut, r.File)
			failed = failed || r.HasErrors()
		}
		if failed {
			return errFailed
		}
		return nil
	},
}

func init() {
	AddCommand(parseCmd)
	parseCmd.Flags().BoolVarP(&parseSexp, "sexp", "s", false, "Print the tree as an S-expression")
}
