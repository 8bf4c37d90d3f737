package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// MaxSampleBytes bounds how much of the CSV sample is forwarded to the
	// model, to keep downstream cost and latency in check. Truncation is
	// silent and may cut mid-record.
	MaxSampleBytes = 64 * 1024

	DefaultTableName = "unknown_table"
	DefaultLang      = "en"
)

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
}

// SuggestedTypes is the closed list of semantic type labels the model is
// asked to choose from.
var SuggestedTypes = []string{
	"string", "int", "float", "boolean", "timestamp", "date",
	"email", "id", "category", "currency", "json", "unknown",
}

// ResolveLang normalizes a language selector and maps it to the name used in
// the prompt. An empty selector falls back to the default; anything outside
// the allow-list reports ok=false.
func ResolveLang(lang string) (code, name string, ok bool) {
	code = strings.ToLower(strings.TrimSpace(lang))
	if code == "" {
		code = DefaultLang
	}
	name, ok = languageNames[code]
	return code, name, ok
}

// TruncateSample caps the sample at MaxSampleBytes.
func TruncateSample(sample string) string {
	if len(sample) > MaxSampleBytes {
		return sample[:MaxSampleBytes]
	}
	return sample
}

type suggestionColumn struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	SuggestedType string `json:"suggested_type"`
	Nullable      bool   `json:"nullable"`
}

type suggestionShape struct {
	TableName        string             `json:"table_name"`
	TableDescription string             `json:"table_description"`
	Columns          []suggestionColumn `json:"columns"`
}

// BuildPrompt assembles the fixed instruction template. Only the language
// name, the table-name hint and the (already truncated) sample vary.
func BuildPrompt(langName, tableName, sample string) string {
	shape := suggestionShape{
		TableName:        tableName,
		TableDescription: "...",
		Columns: []suggestionColumn{{
			Name:          "col_name",
			Description:   "...",
			SuggestedType: strings.Join(SuggestedTypes, "|"),
			Nullable:      true,
		}},
	}
	shapeJSON, _ := json.MarshalIndent(shape, "", "  ")

	quoted := make([]string, len(SuggestedTypes))
	for i, t := range SuggestedTypes {
		quoted[i] = fmt.Sprintf("%q", t)
	}

	b := &strings.Builder{}
	b.WriteString("You are a data documentation assistant.\n")
	fmt.Fprintf(b, "Write ALL natural-language text in %s.\n", langName)
	b.WriteString("Given a CSV sample, infer:\n")
	fmt.Fprintf(b, "- a short %s description of the table's business meaning,\n", langName)
	fmt.Fprintf(b, "- for each column, a short %s description and a probable semantic type\n", langName)
	fmt.Fprintf(b, "  (%s).\n", strings.Join(quoted, ","))
	b.WriteString("Return VALID JSON ONLY with EXACTLY this structure (keep keys as shown; replace ellipses with content):\n\n")
	b.Write(shapeJSON)
	b.WriteString("\n\nCSV SAMPLE:\n```csv\n")
	b.WriteString(sample)
	b.WriteString("\n```\n")
	return b.String()
}
