package assets

import "errors"

// Sentinel errors for template lookup.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid template name")
	ErrInvalidBasePath  = errors.New("invalid asset path")
	ErrAssetRead        = errors.New("failed to read template")
	ErrPathTraversal    = errors.New("template path escapes the asset directory")
)
