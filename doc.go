// Package md2book builds a book written as Markdown chapters into Jekyll
// pages, one PDF per language and one ebook per language and format.
//
// # Quick Start
//
//	cfg, err := config.Load("book.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b, err := md2book.NewBuilder(".", cfg, md2book.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := b.Build(ctx)
//
// # Book Layout
//
//	book.yml                         configuration (default section + language overrides)
//	01-introduction.md               chapters of the source language
//	02-getting-started.md
//	figures/18333fig0101-tn.png      legacy figure images
//	fr/01-introduction/*.markdown    translated sources, one directory per chapter
//	fr/figures/*.png, *.pdf          per-language figures
//	fr/figures-dia/*.dia             per-language diagrams
//
// # Build Stages
//
// The stages run strictly one after the other:
//
//  1. External tools are probed for the enabled stages; a missing tool stops
//     the build before anything is written.
//  2. The output directory (target/ by default) is recreated and receives one
//     page per chapter plus index.md holding the outline.
//  3. Per language: figures are staged, sources are joined, rewritten, piped
//     through pandoc, rewritten again, placed into the LaTeX template and
//     typeset by three xelatex passes into <bookFileName>.<lang>.pdf.
//  4. Per language: sources are rendered to one XHTML book that
//     ebook-convert turns into every configured format.
//  5. The source-language PDF and ebooks are moved into the output directory.
//
// A TeX error ("! " line) stops the passes for that language only; it is
// listed in the Report and the next language is built.
package md2book
