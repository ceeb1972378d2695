// Package importexport backs up and restores the link table as JSON.
package importexport

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/tinylink/pkg/tinylink/links"
	"github.com/mikepea/tinylink/pkg/tinylink/models"
)

// Handler handles import/export requests
type Handler struct {
	svc *links.Service
}

// NewHandler creates a new import/export handler
func NewHandler(svc *links.Service) *Handler {
	return &Handler{svc: svc}
}

// ExportedLink is one link in an export document
type ExportedLink struct {
	Code        string     `json:"code"`
	URL         string     `json:"url"`
	Clicks      int64      `json:"clicks"`
	LastClicked *time.Time `json:"lastClicked"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ImportRequest represents an import request
type ImportRequest struct {
	Links []ExportedLink `json:"links" binding:"required"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Export godoc
// @Summary Export all links
// @Description Returns every link with its statistics, newest first
// @Tags importexport
// @Produce json
// @Security BearerAuth
// @Param download query bool false "Send as an attachment"
// @Success 200 {array} ExportedLink
// @Failure 500 {object} map[string]string
// @Router /export [get]
func (h *Handler) Export(c *gin.Context) {
	all, err := h.svc.List(c.Request.Context())
	if err != nil {
		log.Printf("Export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	out := make([]ExportedLink, len(all))
	for i, l := range all {
		out[i] = ExportedLink{
			Code:        l.Code,
			URL:         l.URL,
			Clicks:      l.Clicks,
			LastClicked: l.LastClicked,
			CreatedAt:   l.CreatedAt,
		}
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename=tinylink-export.json")
	}
	c.JSON(http.StatusOK, out)
}

// Import godoc
// @Summary Import links
// @Description Restores links from an export document. Entries that fail validation or clash with an existing code are skipped.
// @Tags importexport
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ImportRequest true "Links to restore"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string
// @Router /import [post]
func (h *Handler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid import document"})
		return
	}

	result := ImportResult{}
	for i, l := range req.Links {
		_, err := h.svc.Restore(c.Request.Context(), models.Link{
			Code:        l.Code,
			URL:         l.URL,
			Clicks:      l.Clicks,
			LastClicked: l.LastClicked,
			CreatedAt:   l.CreatedAt,
		})
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, "link "+strconv.Itoa(i)+": "+describe(err))
			continue
		}
		result.Imported++
	}

	c.JSON(http.StatusOK, result)
}

func describe(err error) string {
	var verr *links.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, links.ErrCodeTaken):
		return "Code already exists"
	default:
		log.Printf("Import failed: %v", err)
		return "Server error"
	}
}

// RegisterRoutes registers import/export routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/export", h.Export)
	rg.POST("/import", h.Import)
}
