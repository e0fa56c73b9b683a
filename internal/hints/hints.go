// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/alnah/go-md2book/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// GOOS is the target platform used to pick install commands.
var GOOS = runtime.GOOS

// installs maps a tool to its package per package manager.
var installs = map[string]struct{ brew, apt, site string }{
	"pandoc":        {brew: "pandoc", apt: "pandoc", site: "https://pandoc.org/installing.html"},
	"xelatex":       {brew: "--cask mactex-no-gui", apt: "texlive-xetex", site: "https://tug.org/texlive/"},
	"ebook-convert": {brew: "--cask calibre", apt: "calibre", site: "https://calibre-ebook.com/download"},
	"dia":           {brew: "--cask dia", apt: "dia", site: "http://dia-installer.de/"},
	"epstopdf":      {brew: "--cask mactex-no-gui", apt: "texlive-font-utils", site: "https://tug.org/texlive/"},
}

// ForMissingTools returns install hints for the given executables.
func ForMissingTools(names []string) string {
	var hints []string
	for _, name := range names {
		pkg, ok := installs[name]
		if !ok {
			continue
		}
		switch {
		case GOOS == "darwin":
			hints = append(hints, "brew install "+pkg.brew)
		case GOOS == "linux" || IsInContainer():
			hints = append(hints, "apt-get install "+pkg.apt)
		default:
			hints = append(hints, "install "+name+" from "+pkg.site)
		}
	}
	if len(hints) > 0 && slices.Contains(names, "ebook-convert") {
		hints = append(hints, "or set ebook_convert_path to the ebook-convert binary")
	}
	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/book.yml"
	if len(searchedPaths) > 0 {
		hint += " or create " + searchedPaths[0]
	}
	return format(hint)
}

// ForTypesetting points at the TeX engine log written next to the document.
func ForTypesetting(texPath string) string {
	if texPath == "" {
		return ""
	}
	log := strings.TrimSuffix(texPath, filepath.Ext(texPath)) + ".log"
	return format("see " + log + " for the full TeX log")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTemplateNotFound lists the built-in templates.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", ") + "; or give a path to a .tex file")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
