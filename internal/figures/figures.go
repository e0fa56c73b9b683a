// Package figures stages per-language figure files into the shared figures
// directory read by the LaTeX template and the ebook HTML, and removes them
// again once the run is over.
package figures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/config"
	"github.com/alnah/go-md2book/internal/fileutil"
	"github.com/alnah/go-md2book/internal/toolchain"
)

// ErrStage is wrapped by every staging I/O failure.
var ErrStage = errors.New("figure staging failed")

// Directory names inside the book root and the language directories.
const (
	Dir        = "figures"
	DiagramDir = "figures-dia"
)

// Target selects which renditions get staged.
type Target int

const (
	// PDF stages PNG and PDF images and turns diagrams into PDF.
	PDF Target = iota
	// Ebook stages PNG images and turns diagrams into PNG.
	Ebook
)

func (t Target) String() string {
	if t == Ebook {
		return "ebook"
	}
	return "pdf"
}

// DiagramExporter renders .dia drawings. toolchain.Diagrams implements it.
type DiagramExporter interface {
	ExportEPS(ctx context.Context, src, dst string) error
	ExportPNG(ctx context.Context, src, dst string) error
	EPSToPDF(ctx context.Context, eps string) (string, error)
}

// Stager copies one language's figures into <root>/figures and records
// every file it creates so Cleanup removes exactly those.
type Stager struct {
	root     string
	lang     string
	target   Target
	fileRe   *regexp.Regexp
	diagRe   *regexp.Regexp
	diagrams DiagramExporter
	lookPath toolchain.LookPathFunc
	logger   *zap.Logger

	staged     []string
	createdDir bool
}

// Option configures a Stager.
type Option func(*Stager)

// WithDiagrams sets the diagram exporter and the lookup used to check that
// its tools are installed. Without it, diagrams are skipped.
func WithDiagrams(d DiagramExporter, lookPath toolchain.LookPathFunc) Option {
	return func(s *Stager) {
		s.diagrams = d
		s.lookPath = lookPath
	}
}

// WithLogger sets the logger used for skipped files and missing tools.
func WithLogger(l *zap.Logger) Option {
	return func(s *Stager) { s.logger = l }
}

// NewStager creates a stager for lang. File name patterns come from settings.
func NewStager(root, lang string, target Target, settings config.Settings, opts ...Option) (*Stager, error) {
	fileRe, err := settings.FigureFileRegexp()
	if err != nil {
		return nil, err
	}
	diagRe, err := settings.DiagramFileRegexp()
	if err != nil {
		return nil, err
	}

	s := &Stager{
		root:   root,
		lang:   lang,
		target: target,
		fileRe: fileRe,
		diagRe: diagRe,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("lang", lang), zap.Stringer("target", target))
	return s, nil
}

// Staged returns the files created so far.
func (s *Stager) Staged() []string {
	return slices.Clone(s.staged)
}

// Stage copies legacy figures under their short names, exports diagrams and
// copies the language figures. Files already present in the figures
// directory that this stager did not create are never overwritten.
func (s *Stager) Stage(ctx context.Context) error {
	dir := filepath.Join(s.root, Dir)
	if !fileutil.DirExists(dir) {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: %v", ErrStage, err)
		}
		s.createdDir = true
	}

	if err := s.stageLegacy(dir); err != nil {
		return err
	}
	if err := s.stageDiagrams(ctx, dir); err != nil {
		return err
	}

	exts := []string{"png"}
	if s.target == PDF {
		exts = append(exts, "pdf")
	}
	for _, ext := range exts {
		if err := s.stageImages(dir, ext); err != nil {
			return err
		}
	}
	return nil
}

// stageLegacy copies 18333fig0101-tn.png style files to 1.1.png.
func (s *Stager) stageLegacy(dir string) error {
	files, err := fileutil.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStage, err)
	}
	for _, src := range files {
		name, ok := s.shortName(s.fileRe, filepath.Base(src))
		if !ok {
			continue
		}
		if err := s.copy(src, filepath.Join(dir, name+".png")); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stager) stageDiagrams(ctx context.Context, dir string) error {
	sources, err := fileutil.Glob(filepath.Join(s.root, s.lang, DiagramDir, "*.dia"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStage, err)
	}
	if len(sources) == 0 {
		return nil
	}
	if !s.diagramToolsAvailable() {
		return nil
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, ok := s.shortName(s.diagRe, filepath.Base(src))
		if !ok {
			s.logger.Warn("diagram name does not match pattern, skipped", zap.String("file", src))
			continue
		}

		if s.target == Ebook {
			dst := filepath.Join(dir, name+".png")
			if !s.claim(dst) {
				continue
			}
			if err := s.diagrams.ExportPNG(ctx, src, dst); err != nil {
				s.logger.Warn("diagram export failed", zap.String("file", src), zap.Error(err))
			}
			continue
		}

		eps := filepath.Join(dir, name+".eps")
		pdf := filepath.Join(dir, name+".pdf")
		if !s.claim(eps) || !s.claim(pdf) {
			continue
		}
		if err := s.diagrams.ExportEPS(ctx, src, eps); err != nil {
			s.logger.Warn("diagram export failed", zap.String("file", src), zap.Error(err))
			continue
		}
		if _, err := s.diagrams.EPSToPDF(ctx, eps); err != nil {
			s.logger.Warn("EPS conversion failed", zap.String("file", eps), zap.Error(err))
		}
	}
	return nil
}

func (s *Stager) diagramToolsAvailable() bool {
	if s.diagrams == nil || s.lookPath == nil {
		s.logger.Warn("diagram export disabled, diagrams skipped")
		return false
	}
	tools := []string{toolchain.ToolDia}
	if s.target == PDF {
		tools = append(tools, toolchain.ToolEpsToPDF)
	}
	if missing := toolchain.Missing(s.lookPath, tools...); len(missing) > 0 {
		s.logger.Warn("diagram tools not found, diagrams skipped", zap.Strings("missing", missing))
		return false
	}
	return true
}

// stageImages copies <lang>/figures/*.<ext>, skipping files whose content
// is not of that type.
func (s *Stager) stageImages(dir, ext string) error {
	files, err := fileutil.Glob(filepath.Join(s.root, s.lang, Dir, "*."+ext))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStage, err)
	}
	for _, src := range files {
		ok, err := hasContentType(src, ext)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStage, err)
		}
		if !ok {
			s.logger.Warn("figure content does not match its extension, skipped", zap.String("file", src))
			continue
		}
		if err := s.copy(src, filepath.Join(dir, filepath.Base(src))); err != nil {
			return err
		}
	}
	return nil
}

// shortName maps a file name to "<chapter>.<ordinal>" using re.
func (s *Stager) shortName(re *regexp.Regexp, base string) (string, bool) {
	m := re.FindStringSubmatch(base)
	if m == nil {
		return "", false
	}
	chapter := m[re.SubexpIndex(config.GroupChapter)]
	ordinal := m[re.SubexpIndex(config.GroupOrdinal)]
	return chapter + "." + ordinal, true
}

// claim records dst as staged. It refuses paths that exist and were not
// created by this stager.
func (s *Stager) claim(dst string) bool {
	if slices.Contains(s.staged, dst) {
		return true
	}
	if _, err := os.Lstat(dst); err == nil {
		s.logger.Warn("existing figure kept", zap.String("file", dst))
		return false
	}
	s.staged = append(s.staged, dst)
	return true
}

func (s *Stager) copy(src, dst string) error {
	if !s.claim(dst) {
		return nil
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrStage, err)
	}
	s.logger.Debug("figure staged", zap.String("file", dst))
	return nil
}

// Cleanup removes every staged file and, when Stage created it, the figures
// directory if it is left empty. All removal errors are returned together.
func (s *Stager) Cleanup() error {
	var err error
	for i := len(s.staged) - 1; i >= 0; i-- {
		err = multierr.Append(err, fileutil.RemoveIfExists(s.staged[i]))
	}
	s.staged = nil

	if s.createdDir {
		dir := filepath.Join(s.root, Dir)
		if entries, readErr := os.ReadDir(dir); readErr == nil && len(entries) == 0 {
			err = multierr.Append(err, os.Remove(dir))
		}
		s.createdDir = false
	}
	return err
}

// headerSize is enough for every signature filetype knows.
const headerSize = 262

func hasContentType(path, ext string) (bool, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from a glob under the book root
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], strings.ToLower(ext)), nil
}
