package http

import (
	"context"

	"github.com/DataContractHub/data-contract-backend/internal/suggest/llm"
)

type SuggestRequest struct {
	CSVText   string `json:"csv_text"`
	TableName string `json:"table_name"`
	Lang      string `json:"lang"`
}

// Generator produces a JSON metadata suggestion for a prompt.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (map[string]any, error)
}

type Handler struct {
	gen Generator
}

// New wires the Gemini client when a credential is configured. Without one
// the handler stays up and reports the missing credential per request.
func New(apiKey, model string) *Handler {
	if apiKey == "" {
		return &Handler{}
	}
	return &Handler{gen: llm.NewGemini(apiKey, model)}
}

func NewWithGenerator(gen Generator) *Handler {
	return &Handler{gen: gen}
}
