// Package assets provides the LaTeX document templates used for PDF output.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - templates compiled into the binary (book.tex)
//	    ├── FilesystemLoader  - templates from a directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// AssetResolver is what the builder uses. A template named in the book
// configuration is looked up under the asset path first, so a book can
// override the embedded template without forking it. A template reference
// containing a path separator is read as a plain file instead.
//
// # Directory Structure
//
//	{basePath}/
//	└── templates/
//	    └── {name}.tex
//
// # Security
//
// Template names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
