package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	called bool
	prompt string
	out    map[string]any
	err    error
}

func (s *stubGenerator) GenerateJSON(_ context.Context, prompt string) (map[string]any, error) {
	s.called = true
	s.prompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r.Group("/api"))
	return r
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/suggest_metadata", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestSuggestMetadata_Success(t *testing.T) {
	stub := &stubGenerator{out: map[string]any{
		"table_name":        "clientes",
		"table_description": "tabla de clientes",
	}}
	rr := post(newRouter(NewWithGenerator(stub)), `{"csv_text": "id,name\n1,Ana\n", "table_name": "clientes", "lang": "es"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, stub.called)
	assert.Contains(t, stub.prompt, "Spanish")

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "es", out["lang"])
	assert.Equal(t, "clientes", out["table_name"])
}

func TestSuggestMetadata_DefaultsLangAndTableName(t *testing.T) {
	stub := &stubGenerator{out: map[string]any{}}
	rr := post(newRouter(NewWithGenerator(stub)), `{"csv_text": "a,b\n1,2\n"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, stub.prompt, "English")
	assert.Contains(t, stub.prompt, `"table_name": "unknown_table"`)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "en", out["lang"])
}

func TestSuggestMetadata_UnsupportedLang(t *testing.T) {
	stub := &stubGenerator{out: map[string]any{}}
	rr := post(newRouter(NewWithGenerator(stub)), `{"csv_text": "a,b\n", "lang": "xx"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Unsupported lang")
	assert.False(t, stub.called, "downstream must not be called for an unsupported lang")
}

func TestSuggestMetadata_MissingCSV(t *testing.T) {
	stub := &stubGenerator{out: map[string]any{}}

	t.Run("absent", func(t *testing.T) {
		rr := post(newRouter(NewWithGenerator(stub)), `{}`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "csv_text is required")
	})

	t.Run("whitespace only", func(t *testing.T) {
		rr := post(newRouter(NewWithGenerator(stub)), `{"csv_text": "   \n  "}`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	assert.False(t, stub.called)
}

func TestSuggestMetadata_InvalidJSON(t *testing.T) {
	rr := post(newRouter(NewWithGenerator(&stubGenerator{})), `{"csv_text": `)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid JSON")
}

func TestSuggestMetadata_MissingCredential(t *testing.T) {
	rr := post(newRouter(New("", "gemini-2.5-flash")), `{"csv_text": "a,b\n"}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "GEMINI_API_KEY")
}

func TestSuggestMetadata_DownstreamFailure(t *testing.T) {
	stub := &stubGenerator{err: assert.AnError}
	rr := post(newRouter(NewWithGenerator(stub)), `{"csv_text": "a,b\n"}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Gemini error")
}

func TestSuggestMetadata_TruncatesLargeSamples(t *testing.T) {
	stub := &stubGenerator{out: map[string]any{}}
	sample := strings.Repeat("x", 70*1024) + "END_MARKER"
	body, err := json.Marshal(map[string]string{"csv_text": sample})
	require.NoError(t, err)

	rr := post(newRouter(NewWithGenerator(stub)), string(body))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, stub.called)
	assert.NotContains(t, stub.prompt, "END_MARKER", "sample must be truncated before dispatch")
}
