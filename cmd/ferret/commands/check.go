package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/panyam/ferret/loader"
	"github.com/spf13/cobra"
)

var followImports bool

var checkCmd = &cobra.Command{
	Use:   "check <file...>",
	Short: "Parses files and reports their diagnostics",
	Long: `The check command parses one or more files in parallel and prints every
lexical and syntax diagnostic.  With --follow each file's imports are loaded
and checked too.  It exits with an error status if anything was reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := runCheck(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		if err != nil {
			return err
		}
		if !ok {
			return errFailed
		}
		return nil
	},
}

func init() {
	AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&followImports, "follow", false, "Also check every file reached through imports")
}

// runCheck checks paths and reports whether they were all clean.
func runCheck(ctx context.Context, out, errOut io.Writer, paths []string) (bool, error) {
	l := newLoader()
	var results []*loader.Result
	var loadErrs []error
	if followImports {
		for _, path := range paths {
			res, err := l.LoadRoot(ctx, path)
			if err != nil {
				return false, err
			}
			for _, p := range res.Order {
				results = append(results, res.Files[p])
			}
			loadErrs = append(loadErrs, res.Errors...)
		}
	} else {
		parsed, err := l.ParseFiles(ctx, paths...)
		if err != nil {
			return false, err
		}
		for _, r := range parsed {
			if r.Err != nil {
				loadErrs = append(loadErrs, r.Err)
				continue
			}
			results = append(results, r)
		}
	}

	for _, err := range loadErrs {
		fmt.Fprintf(errOut, "%s %v\n", color.RedString("error:"), err)
	}
	for _, r := range results {
		printDiagnostics(errOut, r.File)
	}

	ndiags := loader.CountDiagnostics(results)
	summary := fmt.Sprintf("checked %d files: %d diagnostics", len(results), ndiags)
	if len(loadErrs) > 0 {
		summary += fmt.Sprintf(", %d files not loaded", len(loadErrs))
	}
	if ndiags == 0 && len(loadErrs) == 0 {
		fmt.Fprintln(out, color.GreenString(summary))
		return true, nil
	}
	fmt.Fprintln(out, color.RedString(summary))
	return false, nil
}
