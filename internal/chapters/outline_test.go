package chapters

import (
	"testing"

	"github.com/alnah/go-md2book/internal/config"
)

func TestExtractOutline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		markdown string
		exclude  []string
		want     Outline
	}{
		{
			name:     "levels and anchors",
			markdown: "# Getting Started\n\nText.\n\n## About Version Control ##\n\n### Local VCS\n",
			want: Outline{
				{Level: 1, Title: "Getting Started", Anchor: "https://book.example/01-intro.html#getting-started"},
				{Level: 2, Title: "About Version Control", Anchor: "https://book.example/01-intro.html#about-version-control"},
				{Level: 3, Title: "Local VCS", Anchor: "https://book.example/01-intro.html#local-vcs"},
			},
		},
		{
			name:     "excluded words",
			markdown: "# Table of contents\n# Keep\n## The define keyword\n",
			exclude:  config.DefaultTOCExclude,
			want: Outline{
				{Level: 1, Title: "Keep", Anchor: "https://book.example/01-intro.html#keep"},
			},
		},
		{
			name:     "fenced code is skipped",
			markdown: "# One\n\n```sh\n# a shell comment\n```\n\n~~~\n## not a heading\n~~~\n# Two\n",
			want: Outline{
				{Level: 1, Title: "One", Anchor: "https://book.example/01-intro.html#one"},
				{Level: 1, Title: "Two", Anchor: "https://book.example/01-intro.html#two"},
			},
		},
		{
			name:     "not headings",
			markdown: "#hashtag\n####### seven\n#\n    # indented code\nplain # text\n",
		},
		{
			name:     "punctuation dropped from anchors",
			markdown: "## Git Basics: Tags\n",
			want: Outline{
				{Level: 2, Title: "Git Basics: Tags", Anchor: "https://book.example/01-intro.html#git-basics-tags"},
			},
		},
		{
			name:     "carriage returns",
			markdown: "# Windows\r\n\r\n## Lines\r\n",
			want: Outline{
				{Level: 1, Title: "Windows", Anchor: "https://book.example/01-intro.html#windows"},
				{Level: 2, Title: "Lines", Anchor: "https://book.example/01-intro.html#lines"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractOutline(tt.markdown, "https://book.example/", "01-intro.html", tt.exclude)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractOutline() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOutline_Markdown(t *testing.T) {
	t.Parallel()

	o := Outline{
		{Level: 1, Title: "Intro", Anchor: "01-intro.html#intro"},
		{Level: 2, Title: "Why", Anchor: "01-intro.html#why"},
		{Level: 3, Title: "Deep", Anchor: "01-intro.html#deep"},
	}
	want := "* [Intro](01-intro.html#intro)\n" +
		"    * [Why](01-intro.html#why)\n" +
		"        * [Deep](01-intro.html#deep)\n"

	if got := o.Markdown(); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
	if got := Outline(nil).Markdown(); got != "" {
		t.Errorf("empty Markdown() = %q, want empty", got)
	}
}
