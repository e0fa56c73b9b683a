package assets

// TemplateExt is the file extension of document templates.
const TemplateExt = ".tex"

// AssetLoader returns template sources by name, the name carrying no
// extension. Unknown names give ErrTemplateNotFound and malformed ones
// ErrInvalidAssetName.
type AssetLoader interface {
	LoadTemplate(name string) (string, error)
}
