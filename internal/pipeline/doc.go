// Package pipeline builds the single HTML document handed to the ebook
// converter.
//
// Each source Markdown file is rendered to an HTML fragment with goldmark,
// relative links are rebased onto the directory the book is written to, and
// the fragments are assembled into one XHTML document:
//   - Markdown to HTML via goldmark (GFM, footnotes, chroma highlighting)
//   - relative image and link rebasing via golang.org/x/net/html
//   - book assembly under an XHTML root element
//
// Markdown rewrites (figure idiom, line endings) happen before this package
// in internal/transform.
package pipeline
