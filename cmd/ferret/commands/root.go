package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/panyam/ferret/loader"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	colorMode string
	maxBytes  int64
	workers   int
	libs      map[string]string
)

// errFailed is returned by commands whose input had errors that were
// already printed.
var errFailed = errors.New("errors found")

var rootCmd = &cobra.Command{
	Use:   "ferret",
	Short: "Ferret parses ferret source files into lossless syntax trees",
	Long: `Ferret is a fault tolerant parser for the ferret language.  It always
produces a full concrete syntax tree, marks broken regions with ERROR nodes
and reports diagnostics with positions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnv(); err != nil {
			return err
		}
		flags := cmd.Flags()
		if !flags.Changed("color") {
			colorMode = DefaultColorMode()
		}
		if !flags.Changed("max-bytes") {
			maxBytes = DefaultMaxBytes()
		}
		if !flags.Changed("workers") {
			workers = DefaultWorkers()
		}
		if !flags.Changed("lib") {
			libs = DefaultLibs()
		}
		setupColor(colorMode)
		setupLogging(cmd.ErrOrStderr())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colour output: auto, always or never (default: FERRET_COLOR env var)")
	rootCmd.PersistentFlags().Int64Var(&maxBytes, "max-bytes", loader.DefaultMaxBytes, "Largest source file to parse (default: FERRET_MAX_BYTES env var), negative for no limit")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Files parsed in parallel (default: FERRET_WORKERS env var or one per CPU)")
	rootCmd.PersistentFlags().StringToStringVar(&libs, "lib", nil, "Library roots as name=dir; imports starting with name/ are read from dir (default: FERRET_LIBS env var)")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// loadEnv loads the dotenv file if there is one.
func loadEnv() error {
	envfile := DefaultEnvFile()
	if err := godotenv.Load(envfile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envfile, err)
	}
	return nil
}

func setupColor(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
}

func setupLogging(out io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	var handler slog.Handler
	if IsDevMode() {
		handler = NewPrettyHandler(out, PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: level},
		})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

// stdinName is the path reported for source read from standard input.
const stdinName = "stdin" + loader.SourceExt

func loaderOptions() loader.Options {
	return loader.Options{
		MaxBytes: maxBytes,
		Workers:  workers,
		Logger:   slog.Default(),
	}
}

// newLoader reads project files from disk with every --lib root mounted.
func newLoader() *loader.Loader {
	files := loader.NewLibraryFS(loader.NewLocalFS(""))
	for name, dir := range libs {
		files.Mount(name, loader.NewLocalFS(dir))
	}
	return loader.NewLoader(&loader.FSResolver{FS: files, Abs: true}, loaderOptions())
}

// parseArgs parses the files named by args, or standard input when the
// only argument is "-".
func parseArgs(cmd *cobra.Command, args []string) ([]*loader.Result, error) {
	if len(args) != 1 || args[0] != "-" {
		return newLoader().ParseFiles(cmd.Context(), args...)
	}
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	files := loader.NewMemoryFS(map[string]string{stdinName: string(src)})
	return loader.NewLoader(loader.NewFSResolver(files), loaderOptions()).ParseFiles(cmd.Context(), stdinName)
}
