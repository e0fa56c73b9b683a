package md2book

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/fileutil"
)

// finalize moves the source-language PDF and ebooks produced by this run
// into the output directory as <bookFileName>.<ext>. Other languages stay in
// the book root.
func (b *Builder) finalize(rep *Report) {
	lang := b.cfg.Default.SourceLanguage
	name := b.cfg.Default.BookFileName

	var candidates []string
	if !b.skipPDF {
		candidates = append(candidates, b.outputName(lang, "pdf"))
	}
	if b.ebooksEnabled() {
		for _, format := range b.cfg.Formats() {
			candidates = append(candidates, b.outputName(lang, format))
		}
	}

	var err error
	for _, src := range candidates {
		if !slices.Contains(rep.PDFs, src) && !slices.Contains(rep.Ebooks, src) {
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(src), ".")
		dst := filepath.Join(b.outputDir, name+"."+ext)
		if moveErr := fileutil.MoveFile(src, dst); moveErr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: %v", ErrMoveOutput, moveErr))
			continue
		}
		rep.Final = append(rep.Final, dst)
		b.logger.Info("output ready", zap.String("file", dst))
	}

	if err != nil {
		rep.fail(StageFinalize, lang, "", err)
	}
}
