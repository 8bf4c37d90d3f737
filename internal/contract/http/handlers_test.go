package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DataContractHub/data-contract-backend/internal/contract/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRequest = `{
  "data_contract": {
    "tabla_uc": {"path": "cat.schema.table"},
    "source": [{"tipo_fuente": "DL", "nombre_tecnico_origen": "x", "unity_catalog_fuente": "y", "tabla_origen": "z"}],
    "schema": [{"name": "id", "type": "string", "nullable": false, "is_required": true}],
    "constraints": {"primary_key": ["id"]},
    "validations": [{"type": "null_check", "columns": ["id"]}],
    "ownership": {"owner_analitico": "team-x"}
  }
}`

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New().Register(r.Group("/api"))
	return r
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate_contract", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestGenerateContract_Success(t *testing.T) {
	rr := post(newRouter(), validRequest)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `attachment; filename="data_contract.yaml"`, rr.Header().Get("Content-Disposition"))
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/yaml")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "data_contract:"), "body should start with the data_contract block")
}

func TestGenerateContract_EmptyBody(t *testing.T) {
	rr := post(newRouter(), "")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid or empty JSON body")
}

func TestGenerateContract_MalformedJSON(t *testing.T) {
	rr := post(newRouter(), `{"data_contract": `)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGenerateContract_SchemaViolation(t *testing.T) {
	body := strings.Replace(validRequest, `"type": "null_check"`, `"type": "bogus_check"`, 1)
	rr := post(newRouter(), body)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var report domain.Issues
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.NotEmpty(t, report)
	assert.Equal(t, "data_contract.validations.0.type", report[0].Path)
	assert.Equal(t, domain.CodeDiscriminatorUnknown, report[0].Code)
}

func TestGenerateContract_ReportNamesEveryViolation(t *testing.T) {
	body := strings.Replace(validRequest, `"path": "cat.schema.table"`, `"path": "  "`, 1)
	body = strings.Replace(body, `"owner_analitico": "team-x"`, `"owner_analitico": "   "`, 1)
	rr := post(newRouter(), body)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var report domain.Issues
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Len(t, report, 2)

	paths := []string{report[0].Path, report[1].Path}
	assert.Contains(t, paths, "data_contract.tabla_uc.path")
	assert.Contains(t, paths, "data_contract.ownership.owner_analitico")
}
