package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Environment variables read by the build command. Flags take precedence.
const (
	EnvConfig    = "MD2BOOK_CONFIG"
	EnvRoot      = "MD2BOOK_ROOT"
	EnvOutputDir = "MD2BOOK_OUTPUT_DIR"
	EnvAssetPath = "MD2BOOK_ASSET_PATH"
	EnvLogFile   = "MD2BOOK_LOG_FILE"

	envPrefix = "MD2BOOK_"
)

var knownEnvVars = []string{EnvConfig, EnvRoot, EnvOutputDir, EnvAssetPath, EnvLogFile}

// applyEnv fills the flags left empty from the environment.
func applyEnv(f *buildFlags, getenv func(string) string) {
	pick := func(dst *string, key string) {
		if *dst == "" {
			*dst = strings.TrimSpace(getenv(key))
		}
	}
	pick(&f.config, EnvConfig)
	pick(&f.root, EnvRoot)
	pick(&f.output, EnvOutputDir)
	pick(&f.assetPath, EnvAssetPath)
	pick(&f.logFile, EnvLogFile)
}

// warnUnknownEnvVars reports MD2BOOK_* variables that are never read,
// usually typos.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, envPrefix) && !slices.Contains(knownEnvVars, key) {
			fmt.Fprintf(w, "warning: unknown environment variable %s\n", key)
		}
	}
}
