package links

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler handles link-related requests
type Handler struct {
	svc *Service
}

// NewHandler creates a new links handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateLinkRequest represents the request to create a link
type CreateLinkRequest struct {
	URL  string `json:"url" binding:"required"`
	Code string `json:"code,omitempty"`
}

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, ErrCodeTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Code already exists"})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, ErrGenerationExhausted):
		log.Printf("Code generation exhausted: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate unique code"})
	default:
		log.Printf("Link request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

// Create creates a new short link
// @Summary Create a link
// @Description Shorten a URL, optionally with a caller-chosen 6-8 character code
// @Tags links
// @Accept json
// @Produce json
// @Param request body CreateLinkRequest true "Link details"
// @Success 201 {object} CreatedLink
// @Failure 400 {object} map[string]string "Invalid URL or code"
// @Failure 409 {object} map[string]string "Code already exists"
// @Failure 500 {object} map[string]string "Code generation exhausted"
// @Router /links [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL"})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), req.URL, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List returns all links
// @Summary List links
// @Description Get every link, most recently created first
// @Tags links
// @Produce json
// @Success 200 {array} models.Link
// @Router /links [get]
func (h *Handler) List(c *gin.Context) {
	links, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, links)
}

// Get returns a link's stats by code
// @Summary Get link stats
// @Description Get a link and its click statistics by code
// @Tags links
// @Produce json
// @Param code path string true "Link code"
// @Success 200 {object} models.Link
// @Failure 404 {object} map[string]string "Not found"
// @Router /links/{code} [get]
func (h *Handler) Get(c *gin.Context) {
	link, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// Delete deletes a link
// @Summary Delete a link
// @Description Permanently delete a link by code
// @Tags links
// @Produce json
// @Param code path string true "Link code"
// @Success 200 {object} map[string]bool "Link deleted"
// @Failure 404 {object} map[string]string "Not found"
// @Router /links/{code} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RegisterRoutes registers link routes.
// createMiddleware runs only in front of link creation.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, createMiddleware ...gin.HandlerFunc) {
	create := append(append([]gin.HandlerFunc{}, createMiddleware...), h.Create)
	rg.POST("/links", create...)
	rg.GET("/links", h.List)
	rg.GET("/links/:code", h.Get)
	rg.DELETE("/links/:code", h.Delete)
}
