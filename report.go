package md2book

import (
	"errors"

	"github.com/alnah/go-md2book/internal/toolchain"
)

// Stage names a part of the build.
type Stage string

const (
	StageSite     Stage = "site"
	StagePDF      Stage = "pdf"
	StageEbook    Stage = "ebook"
	StageFinalize Stage = "finalize"
)

// Failure is a per-language problem that did not stop the build.
type Failure struct {
	Stage  Stage
	Lang   string
	Format string // ebook format, empty for other stages
	Err    error
}

func (f Failure) Error() string {
	s := string(f.Stage) + " " + f.Lang
	if f.Format != "" {
		s += " " + f.Format
	}
	return s + ": " + f.Err.Error()
}

func (f Failure) Unwrap() error { return f.Err }

// Report lists what a build produced and what failed along the way.
type Report struct {
	Pages    []string // Jekyll pages, index last
	PDFs     []string // written as <root>/<bookFileName>.<lang>.pdf
	Ebooks   []string // written as <root>/<bookFileName>.<lang>.<format>
	Final    []string // source-language outputs moved into the output directory
	Failures []Failure
}

// OK reports whether every stage succeeded.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Aborted returns the languages whose typesetting stopped on a TeX error.
func (r *Report) Aborted() []string {
	var langs []string
	for _, f := range r.Failures {
		if errors.Is(f.Err, toolchain.ErrTypesetting) {
			langs = append(langs, f.Lang)
		}
	}
	return langs
}

// Err joins every failure, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func (r *Report) fail(stage Stage, lang, format string, err error) {
	r.Failures = append(r.Failures, Failure{Stage: stage, Lang: lang, Format: format, Err: err})
}
