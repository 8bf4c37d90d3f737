package http

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/DataContractHub/data-contract-backend/internal/contract/domain"
	"github.com/gin-gonic/gin"
)

// generate validates a data-contract payload and returns it as a YAML
// document ready for download. Schema violations come back as a 422 with the
// full aggregated report.
func (h *Handler) generate(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(data) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or empty JSON body"})
		return
	}

	req, iss := domain.DecodeRequest(data)
	if len(iss) > 0 {
		c.JSON(http.StatusUnprocessableEntity, iss)
		return
	}

	text, err := domain.BuildYAML(req)
	if err != nil {
		log.Printf("[error] operation=generate_contract error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize contract"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="data_contract.yaml"`)
	c.Data(http.StatusOK, "text/yaml; charset=utf-8", []byte(text))
}
