package commands

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/panyam/ferret/loader"
)

func IsDevMode() bool {
	return os.Getenv("FERRET_ENV") == "dev"
}

// DefaultEnvFile is the dotenv file loaded before flags are parsed.
func DefaultEnvFile() string {
	if IsDevMode() {
		return ".env.dev"
	}
	return ".env"
}

func DefaultMaxBytes() int64 {
	if v, err := strconv.ParseInt(os.Getenv("FERRET_MAX_BYTES"), 10, 64); err == nil && v != 0 {
		return v
	}
	return loader.DefaultMaxBytes
}

func DefaultWorkers() int {
	if v, err := strconv.Atoi(os.Getenv("FERRET_WORKERS")); err == nil && v > 0 {
		return v
	}
	return runtime.NumCPU()
}

// DefaultColorMode is one of auto, always or never.
func DefaultColorMode() string {
	switch mode := os.Getenv("FERRET_COLOR"); mode {
	case "always", "never":
		return mode
	}
	return "auto"
}

// DefaultLibs reads library roots from FERRET_LIBS, a comma separated list
// of name=dir pairs.  Malformed pairs are ignored.
func DefaultLibs() map[string]string {
	libs := map[string]string{}
	for _, pair := range strings.Split(os.Getenv("FERRET_LIBS"), ",") {
		name, dir, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if ok && name != "" && dir != "" {
			libs[name] = dir
		}
	}
	return libs
}
