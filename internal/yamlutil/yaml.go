// Package yamlutil keeps goccy/go-yaml behind two calls: strict decoding of
// book.yml and encoding of Jekyll front matter.
package yamlutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps the accepted document size in bytes.
var MaxInputSize = 1 << 20

const frontMatterDelimiter = "---"

var (
	ErrEmptyInput    = errors.New("yamlutil: empty document")
	ErrNilTarget     = errors.New("yamlutil: nil decode target")
	ErrInputTooLarge = errors.New("yamlutil: document too large")
)

// UnmarshalStrict decodes data into v and fails on fields v does not declare.
func UnmarshalStrict(data []byte, v any) error {
	switch {
	case len(data) == 0:
		return ErrEmptyInput
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilTarget
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// FrontMatter encodes v between two "---" lines. The encoder quotes values
// that would otherwise change meaning, such as titles containing a colon.
func FrontMatter(v any) (string, error) {
	body, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("yamlutil: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(frontMatterDelimiter + "\n")
	sb.Write(body)
	if !strings.HasSuffix(string(body), "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString(frontMatterDelimiter + "\n")
	return sb.String(), nil
}
