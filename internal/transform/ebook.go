package transform

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2book/internal/config"
)

// Ebook returns the rewrites applied to Markdown rendered for ebooks: the
// figure idiom becomes an image pointing at figures/<chapter>.<ordinal>.png.
func Ebook(s config.Settings) (Pipeline, error) {
	figure, err := s.FigureRegexp()
	if err != nil {
		return nil, fmt.Errorf("ebook rules: %w", err)
	}
	chapter := figure.SubexpIndex(config.GroupChapter)
	ordinal := figure.SubexpIndex(config.GroupOrdinal)
	caption := figure.SubexpIndex(config.GroupCaption)

	return Pipeline{
		{Name: "line-endings", Apply: NormalizeLineEndings},
		ReplaceFunc("figure-images", figure, func(m []string) string {
			label := m[chapter] + "." + m[ordinal]
			alt := label + " " + m[caption]
			return "![" + alt + "](figures/" + label + `.png "` + strings.ReplaceAll(alt, `"`, `\"`) + `")`
		}),
	}, nil
}
