package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// templatesDir is the subdirectory of an asset path holding LaTeX templates.
const templatesDir = "templates"

// FilesystemLoader reads templates from <basePath>/templates.
type FilesystemLoader struct {
	basePath string
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)

// NewFilesystemLoader resolves basePath, following symlinks, and checks that
// it is a readable directory. Failures wrap ErrInvalidBasePath.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	dir, err := resolvePath(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	_, err = os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, dir)
	case err != nil && isNotDir(dir):
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidBasePath, dir)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: dir}, nil
}

// BasePath returns the resolved asset directory.
func (f *FilesystemLoader) BasePath() string {
	return f.basePath
}

// LoadTemplate returns the content of templates/<name>.tex.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	path, err := f.contained(filepath.Join(f.basePath, templatesDir, name+TemplateExt))
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- contained in basePath
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(data), nil
}

// contained resolves path and rejects it when it lands outside basePath,
// which a symlinked template could otherwise do.
func (f *FilesystemLoader) contained(path string) (string, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPathTraversal, err)
	}
	if !strings.HasPrefix(resolved, f.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside %s", ErrPathTraversal, path, f.basePath)
	}
	return resolved, nil
}

// resolvePath makes path absolute and follows symlinks when it exists.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if target, err := filepath.EvalSymlinks(abs); err == nil {
		return target, nil
	}
	return abs, nil
}

func isNotDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
