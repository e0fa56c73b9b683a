package md2book

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/chapters"
	"github.com/alnah/go-md2book/internal/figures"
	"github.com/alnah/go-md2book/internal/fileutil"
	"github.com/alnah/go-md2book/internal/pipeline"
	"github.com/alnah/go-md2book/internal/toolchain"
)

// buildEbooks renders the sources of one language to a single HTML book,
// converts it to every configured format and removes the HTML again.
// A failed format is recorded and the remaining formats are still tried.
func (b *Builder) buildEbooks(ctx context.Context, p languagePlan, chs []chapters.Chapter, binary string, rep *Report) (err error) {
	log := b.logger.With(zap.String("lang", p.lang))
	log.Info("building ebooks", zap.Strings("formats", b.cfg.Formats()))

	stager, err := figures.NewStager(b.root, p.lang, figures.Ebook, p.settings,
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

	srcs, err := b.sources(p.lang, chs, true)
	if err != nil {
		return err
	}

	fragments := make([]pipeline.Fragment, 0, len(srcs))
	for _, s := range srcs {
		log.Debug("rendering", zap.String("file", s.path))
		html, err := b.html.Render(ctx, p.ebook.Apply(s.text))
		if err != nil {
			return fmt.Errorf("%s: %w", s.path, err)
		}
		fragments = append(fragments, pipeline.Fragment{HTML: html, Dir: filepath.Dir(s.path)})
	}

	book, err := pipeline.AssembleBook(p.settings.BookTitle, b.root, fragments)
	if err != nil {
		return err
	}

	htmlPath := b.outputName(p.lang, "html")
	if err := os.WriteFile(htmlPath, []byte(book), 0o644); err != nil { // #nosec G306 -- generated document
		return fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}
	defer func() {
		err = multierr.Append(err, fileutil.RemoveIfExists(htmlPath))
	}()

	conv := toolchain.NewEbookConverter(b.runner, binary)
	meta := toolchain.EbookMetadata{
		Cover:    p.settings.BookCover,
		Authors:  p.settings.BookAuthor,
		Comments: p.settings.BookComments,
		Language: p.lang,
	}
	for _, format := range b.cfg.Formats() {
		out := b.outputName(p.lang, format)
		log.Info("converting", zap.String("format", format), zap.String("file", out))
		if err := conv.Convert(ctx, htmlPath, out, meta); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("conversion failed", zap.String("format", format), zap.Error(err))
			rep.fail(StageEbook, p.lang, format, err)
			continue
		}
		rep.Ebooks = append(rep.Ebooks, out)
	}
	return nil
}
