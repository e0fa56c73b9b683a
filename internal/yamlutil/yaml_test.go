package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-md2book/internal/yamlutil"
)

type testSettings struct {
	Title     string   `yaml:"title"`
	Languages []string `yaml:"languages"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       []byte
		dest       any
		wantErr    error
		wantAnyErr bool
		check      func(t *testing.T, v any)
	}{
		{
			name: "known fields",
			data: []byte("title: Pro Git\nlanguages: [en, fr]"),
			dest: &testSettings{},
			check: func(t *testing.T, v any) {
				s := v.(*testSettings)
				if s.Title != "Pro Git" {
					t.Errorf("Title = %q, want %q", s.Title, "Pro Git")
				}
				if len(s.Languages) != 2 || s.Languages[1] != "fr" {
					t.Errorf("Languages = %v, want [en fr]", s.Languages)
				}
			},
		},
		{
			name:       "unknown field rejected",
			data:       []byte("title: x\nsubtitle: y"),
			dest:       &testSettings{},
			wantAnyErr: true,
		},
		{
			name:    "empty data",
			data:    nil,
			dest:    &testSettings{},
			wantErr: yamlutil.ErrEmptyInput,
		},
		{
			name:    "nil destination",
			data:    []byte("title: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil || tt.wantAnyErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

func TestUnmarshalStrict_InputTooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("title: " + strings.Repeat("a", yamlutil.MaxInputSize))
	err := yamlutil.UnmarshalStrict(data, &testSettings{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("error = %v, want ErrInputTooLarge", err)
	}
}

func TestFrontMatter(t *testing.T) {
	t.Parallel()

	type page struct {
		Layout string `yaml:"layout"`
		Title  string `yaml:"title"`
	}

	t.Run("plain values", func(t *testing.T) {
		t.Parallel()

		got, err := yamlutil.FrontMatter(page{Layout: "chapter", Title: "Intro"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "---\nlayout: chapter\ntitle: Intro\n---\n"
		if got != want {
			t.Errorf("FrontMatter() = %q, want %q", got, want)
		}
	})

	t.Run("colon in title stays one value", func(t *testing.T) {
		t.Parallel()

		got, err := yamlutil.FrontMatter(page{Layout: "chapter", Title: "Git: basics"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(got, "---\n") || !strings.HasSuffix(got, "---\n") {
			t.Errorf("missing delimiters: %q", got)
		}

		var back page
		body := strings.TrimSuffix(strings.TrimPrefix(got, "---\n"), "---\n")
		if err := yamlutil.UnmarshalStrict([]byte(body), &back); err != nil {
			t.Fatalf("front matter does not decode: %v", err)
		}
		if back.Title != "Git: basics" {
			t.Errorf("decoded title = %q, want %q", back.Title, "Git: basics")
		}
	})
}
