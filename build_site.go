package md2book

import (
	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/chapters"
	"github.com/alnah/go-md2book/internal/site"
)

// buildSite writes one Jekyll page per chapter and the index holding the
// outline of all chapters, in chapter order.
func (b *Builder) buildSite(chs []chapters.Chapter, rep *Report) error {
	b.logger.Info("writing site pages", zap.String("dir", b.outputDir), zap.Int("chapters", len(chs)))

	s := b.cfg.Default
	var outline chapters.Outline
	for _, c := range chs {
		path, err := site.WriteChapter(b.outputDir, c)
		if err != nil {
			return err
		}
		rep.Pages = append(rep.Pages, path)
		outline = append(outline, chapters.ExtractOutline(c.Markdown, s.BookSiteURL, c.HTMLFile(), s.TOCExclude)...)
	}

	path, err := site.WriteIndex(b.outputDir, outline)
	if err != nil {
		return err
	}
	rep.Pages = append(rep.Pages, path)
	b.logger.Debug("site index written", zap.String("file", path), zap.Int("entries", len(outline)))
	return nil
}
