package assets

import (
	"fmt"
	"regexp"
)

// assetNamePattern allows letters, digits, hyphens and underscores. Dots and
// separators are excluded so a name can never leave templates/ or pick
// another extension.
var assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAssetName checks that a template name maps to a single file
// inside the templates directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if !assetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
