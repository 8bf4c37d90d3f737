package domain

import (
	"fmt"
	"strings"
)

// Issue codes carried in validation reports.
const (
	CodeRequired             = "required"
	CodeBlank                = "blank"
	CodeInvalidType          = "invalid_type"
	CodeInvalidEnum          = "invalid_enum"
	CodeUnknownKey           = "unknown_key"
	CodeExplicitNull         = "explicit_null"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeParseError           = "parse_error"
	CodeInvalid              = "invalid"
)

// Issue is a single field-path-addressed validation failure.
type Issue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Issues aggregates every violation found in one pass over the payload. It
// implements error so it can travel through ordinary error returns.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(iss)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
