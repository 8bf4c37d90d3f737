package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/DataContractHub/data-contract-backend/internal/suggest/service"
	"github.com/gin-gonic/gin"
)

// suggest relays a CSV sample to the model and returns its metadata
// suggestion. The reply is passed through as-is apart from the lang tag.
func (h *Handler) suggest(c *gin.Context) {
	if h.gen == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing GEMINI_API_KEY app setting"})
		return
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	lang, langName, ok := service.ResolveLang(req.Lang)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported lang. Use 'en' or 'es'."})
		return
	}

	if strings.TrimSpace(req.CSVText) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv_text is required"})
		return
	}

	tableName := req.TableName
	if tableName == "" {
		tableName = service.DefaultTableName
	}

	prompt := service.BuildPrompt(langName, tableName, service.TruncateSample(req.CSVText))

	data, err := h.gen.GenerateJSON(c.Request.Context(), prompt)
	if err != nil {
		log.Printf("[error] operation=suggest_metadata error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gemini error: " + err.Error()})
		return
	}

	data["lang"] = lang
	c.JSON(http.StatusOK, data)
}
