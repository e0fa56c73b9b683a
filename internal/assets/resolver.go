package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2book/internal/fileutil"
)

// AssetResolver looks a template up under the asset path first and falls
// back to the embedded templates when the name is not found there.
type AssetResolver struct {
	custom   AssetLoader // nil without an asset path
	embedded AssetLoader
	root     string
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)

// NewAssetResolver creates a resolver. An empty customBasePath means only
// embedded templates are available. Template files given by relative path
// are read from root.
func NewAssetResolver(customBasePath, root string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader(), root: root}
	if customBasePath == "" {
		return r, nil
	}
	custom, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	r.custom = custom
	return r, nil
}

// HasCustomLoader reports whether an asset path was configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// LoadTemplate returns the named template. Only ErrTemplateNotFound from
// the asset path triggers the embedded fallback.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	if r.custom != nil {
		content, err := r.custom.LoadTemplate(name)
		if !errors.Is(err, ErrTemplateNotFound) {
			return content, err
		}
	}
	return r.embedded.LoadTemplate(name)
}

// Resolve returns the template ref points to. A ref containing a path
// separator is a file; anything else is a template name. An empty ref
// selects DefaultTemplateName.
func (r *AssetResolver) Resolve(ref string) (string, error) {
	switch {
	case ref == "":
		return r.LoadTemplate(DefaultTemplateName)
	case !fileutil.IsFilePath(ref):
		return r.LoadTemplate(ref)
	}

	path := ref
	if !filepath.IsAbs(path) && r.root != "" {
		path = filepath.Join(r.root, path)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- template file chosen by the book author
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(data), nil
}
