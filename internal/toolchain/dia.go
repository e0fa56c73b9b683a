package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Diagrams exports .dia drawings with dia and converts EPS to PDF with
// epstopdf.
type Diagrams struct {
	Runner CommandRunner
}

// ExportEPS writes an encapsulated PostScript rendering of src to dst.
func (d *Diagrams) ExportEPS(ctx context.Context, src, dst string) error {
	return d.run(ctx, Command{Name: ToolDia, Args: []string{"-t", "eps-pango", "-e", dst, src}})
}

// ExportPNG writes a PNG rendering of src to dst.
func (d *Diagrams) ExportPNG(ctx context.Context, src, dst string) error {
	return d.run(ctx, Command{Name: ToolDia, Args: []string{"-e", dst, src}})
}

// EPSToPDF converts an EPS file and returns the path of the PDF written
// beside it.
func (d *Diagrams) EPSToPDF(ctx context.Context, eps string) (string, error) {
	if err := d.run(ctx, Command{Name: ToolEpsToPDF, Args: []string{eps}, Dir: filepath.Dir(eps)}); err != nil {
		return "", err
	}
	return strings.TrimSuffix(eps, filepath.Ext(eps)) + ".pdf", nil
}

func (d *Diagrams) run(ctx context.Context, cmd Command) error {
	_, stderr, err := d.Runner.Run(ctx, cmd)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%s: %w: %s", cmd, err, msg)
		}
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}
