package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file...>",
	Short: "Re-checks files whenever they change",
	Long: `The watch command checks the given files once and then again every time
one of them is written, created or renamed, until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

		watched := map[string]bool{}
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return err
			}
			watched[abs] = true
		}

		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer w.Close()

		// editors often replace files, so watch directories rather than
		// the files themselves
		dirs := map[string]bool{}
		for path := range watched {
			dir := filepath.Dir(path)
			if dirs[dir] {
				continue
			}
			dirs[dir] = true
			if err := w.Add(dir); err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}
		}

		if _, err := runCheck(ctx, out, errOut, args); err != nil {
			return err
		}
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if !watched[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				slog.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
				if _, err := runCheck(ctx, out, errOut, []string{ev.Name}); err != nil {
					return err
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				slog.Warn("watch error", "error", err)
			}
		}
	},
}

func init() {
	AddCommand(watchCmd)
}
