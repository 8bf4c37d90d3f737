package domain

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// BuildYAML renders a validated request as a block-style YAML document in the
// declared field order. The output is deterministic: serializing the same
// tree twice yields identical bytes, long values stay on one line, and
// non-ASCII text is emitted as-is.
func BuildYAML(req *DataContractRequest) (string, error) {
	out, err := yaml.MarshalWithOptions(req,
		yaml.Indent(2),
		yaml.UseLiteralStyleIfMultiline(true),
	)
	if err != nil {
		return "", fmt.Errorf("marshal contract: %w", err)
	}
	return string(out), nil
}
