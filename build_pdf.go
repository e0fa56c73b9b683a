package md2book

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/chapters"
	"github.com/alnah/go-md2book/internal/figures"
	"github.com/alnah/go-md2book/internal/fileutil"
	"github.com/alnah/go-md2book/internal/latex"
	"github.com/alnah/go-md2book/internal/toolchain"
)

// TexFile is the document written into each language directory.
const TexFile = "main.tex"

// buildPDF converts the sources of one language into
// <root>/<bookFileName>.<lang>.pdf. Figures are staged for the whole run and
// removed afterwards, whatever the outcome.
func (b *Builder) buildPDF(ctx context.Context, p languagePlan, chs []chapters.Chapter, rep *Report) (err error) {
	log := b.logger.With(zap.String("lang", p.lang))
	log.Info("building PDF")

	stager, err := figures.NewStager(b.root, p.lang, figures.PDF, p.settings,
		figures.WithDiagrams(&toolchain.Diagrams{Runner: b.runner}, b.lookPath),
		figures.WithLogger(b.logger))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, stager.Cleanup())
	}()
	if err := stager.Stage(ctx); err != nil {
		return err
	}

	srcs, err := b.sources(p.lang, chs, false)
	if err != nil {
		return err
	}
	texts := make([]string, len(srcs))
	for i, s := range srcs {
		texts[i] = s.text
	}

	log.Debug("converting Markdown", zap.Int("files", len(srcs)))
	body, err := b.pandoc.ToLaTeX(ctx, p.pre.Apply(strings.Join(texts, "\n\n")))
	if err != nil {
		return err
	}
	body = p.post.Apply(body)

	doc, err := p.renderer.Render(latex.Data{Settings: p.settings, Lang: p.lang, Body: body})
	if err != nil {
		return err
	}

	texPath := b.DocumentPath(p.lang)
	dir := filepath.Dir(texPath)
	createdDir := !fileutil.DirExists(dir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}
	if err := os.WriteFile(texPath, []byte(doc), 0o644); err != nil { // #nosec G306 -- generated document
		return fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}

	log.Info("typesetting", zap.String("file", texPath))
	if err := b.tex.Typeset(ctx, b.root, texPath); err != nil {
		return err
	}

	pdf := strings.TrimSuffix(texPath, filepath.Ext(texPath)) + ".pdf"
	out := b.outputName(p.lang, "pdf")
	if err := fileutil.MoveFile(pdf, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMoveOutput, err)
	}
	rep.PDFs = append(rep.PDFs, out)
	log.Info("PDF written", zap.String("file", out))

	if createdDir {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("unable to remove work directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	return nil
}

// DocumentPath returns the LaTeX document written for lang. The engine log
// lies beside it.
func (b *Builder) DocumentPath(lang string) string {
	return filepath.Join(b.root, lang, TexFile)
}
