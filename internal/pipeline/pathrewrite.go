package pipeline

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rebaseNode walks n and rewrites relative img[src] and a[href] values that
// name an existing file when read from sourceDir, so they resolve from
// outputDir instead. Values that do not name such a file are kept, which
// leaves "figures/1.1.png" style references alone.
func rebaseNode(n *html.Node, sourceDir, outputDir string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rebaseAttr(n, "src", sourceDir, outputDir)
		case atom.A:
			rebaseAttr(n, "href", sourceDir, outputDir)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rebaseNode(c, sourceDir, outputDir)
	}
}

func rebaseAttr(n *html.Node, key, sourceDir, outputDir string) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativePath(attr.Val) {
			continue
		}

		path, suffix := splitSuffix(attr.Val)
		candidate := filepath.Join(sourceDir, filepath.FromSlash(path))

		if !isPathUnderDir(candidate, outputDir) {
			continue
		}
		if info, err := os.Stat(candidate); err != nil || info.IsDir() {
			continue
		}

		rel, err := filepath.Rel(outputDir, candidate)
		if err != nil {
			continue
		}
		n.Attr[i].Val = filepath.ToSlash(rel) + suffix
	}
}

// splitSuffix separates a URL path from its query or fragment.
func splitSuffix(val string) (path, suffix string) {
	if i := strings.IndexAny(val, "?#"); i >= 0 {
		return val[:i], val[i:]
	}
	return val, ""
}

// isRelativePath reports whether val is a path relative to the document:
// no scheme, no host, not rooted and not a bare fragment.
func isRelativePath(val string) bool {
	if val == "" || strings.HasPrefix(val, "#") || strings.HasPrefix(val, "/") || filepath.IsAbs(val) {
		return false
	}
	u, err := url.Parse(val)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// isPathUnderDir reports whether path is dir or lies beneath it.
func isPathUnderDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
