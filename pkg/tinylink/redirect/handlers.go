package redirect

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/tinylink/pkg/tinylink/links"
)

// reservedCodes shadow the API and health routes and never resolve
var reservedCodes = map[string]bool{
	"api":     true,
	"healthz": true,
}

// IsReserved reports whether code is excluded from redirect resolution
func IsReserved(code string) bool {
	return reservedCodes[code]
}

// Handler handles redirect requests
type Handler struct {
	svc *links.Service
	now func() time.Time
}

// NewHandler creates a new redirect handler
func NewHandler(svc *links.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// Redirect resolves a short code and sends the client to its target.
// The click is recorded before the redirect is written.
func (h *Handler) Redirect(c *gin.Context) {
	code := c.Param("code")
	if IsReserved(code) {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	ctx := c.Request.Context()
	url, err := h.svc.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, links.ErrNotFound) {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		log.Printf("Redirect for %s failed: %v", code, err)
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	if err := h.svc.RecordClick(ctx, code, h.now()); err != nil {
		if errors.Is(err, links.ErrNotFound) {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		log.Printf("Redirect for %s failed: %v", code, err)
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	c.Redirect(http.StatusFound, url)
}

// RegisterRoutes registers redirect routes on the root router
// This should be called AFTER all other routes to avoid conflicts
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/:code", h.Redirect)
}
