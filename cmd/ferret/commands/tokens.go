package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showTrivia bool

var tokensCmd = &cobra.Command{
	Use:   "tokens <file|->",
	Short: "Prints the token stream of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := parseArgs(cmd, args)
		if err != nil {
			return err
		}
		r := results[0]
		if r.Err != nil {
			return r.Err
		}
		out := cmd.OutOrStdout()
		for _, tok := range r.File.Tokens {
			if tok.IsTrivia() && !showTrivia {
				continue
			}
			fmt.Fprintf(out, "%-12s %-16s %q\n", tok.Span, tok.Kind, tok.Text)
		}
		printDiagnostics(cmd.ErrOrStderr(), r.File)
		if r.HasErrors() {
			return errFailed
		}
		return nil
	},
}

func init() {
	AddCommand(tokensCmd)
	tokensCmd.Flags().BoolVarP(&showTrivia, "trivia", "t", false, "Include whitespace and comment tokens")
}
