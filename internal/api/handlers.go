// Package api exposes the HTTP surface: translation submission, expiry-aware
// page retrieval and the authenticated history dashboard.
package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexanderkoo04/language/internal/auth"
	"github.com/alexanderkoo04/language/internal/models"
	"github.com/alexanderkoo04/language/internal/store"
)

const (
	htmlContentType = "text/html; charset=utf-8"

	notFoundBody  = "<h1>404 - Translation Not Found or Expired</h1>"
	loadErrorBody = "<h1>Error loading translation file</h1>"
)

// TranslationPipeline runs one full page translation.
type TranslationPipeline interface {
	Run(ctx context.Context, req *models.TranslationRequest, userID string) (*models.TranslationResponse, error)
}

// RecordReader is the read side of the record store.
type RecordReader interface {
	GetByID(ctx context.Context, id string) (*models.TranslationRecord, error)
	ListByUser(ctx context.Context, userID string) ([]models.TranslationRecord, error)
}

// BlobReader retrieves stored pages by key.
type BlobReader interface {
	Download(ctx context.Context, path string) (string, error)
}

// Handlers holds the HTTP handlers and their collaborators.
type Handlers struct {
	pipeline TranslationPipeline
	records  RecordReader
	blobs    BlobReader
	log      *zap.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(pipeline TranslationPipeline, records RecordReader, blobs BlobReader, log *zap.Logger) *Handlers {
	return &Handlers{
		pipeline: pipeline,
		records:  records,
		blobs:    blobs,
		log:      log,
	}
}

// Translate handles POST /translate. Authentication is optional: an invalid
// or missing token means guest treatment and a shorter link lifetime.
func (h *Handlers) Translate(c *gin.Context) {
	var req models.TranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !isAbsoluteHTTPURL(req.URL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must be an absolute http or https URL"})
		return
	}

	resp, err := h.pipeline.Run(c.Request.Context(), &req, auth.UserID(c))
	if err != nil {
		h.log.Error("translation pipeline failed",
			zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Render handles GET /render/:id, the shared link. Expiry is checked in the
// record store before any content is served; expired and never-existing
// records are indistinguishable to the caller.
func (h *Handlers) Render(c *gin.Context) {
	id := c.Param("id")

	rec, err := h.records.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.Data(http.StatusNotFound, htmlContentType, []byte(notFoundBody))
			return
		}
		h.log.Error("record lookup failed", zap.String("id", id), zap.Error(err))
		c.Data(http.StatusInternalServerError, htmlContentType, []byte(loadErrorBody))
		return
	}

	html, err := h.blobs.Download(c.Request.Context(), rec.StoragePath)
	if err != nil {
		h.log.Error("stored page unreadable despite valid record",
			zap.String("id", id), zap.String("path", rec.StoragePath), zap.Error(err))
		c.Data(http.StatusInternalServerError, htmlContentType, []byte(loadErrorBody))
		return
	}

	c.Data(http.StatusOK, htmlContentType, []byte(html))
}

// Dashboard handles GET /dashboard, the authenticated history listing,
// newest first.
func (h *Handlers) Dashboard(c *gin.Context) {
	userID := auth.UserID(c)

	records, err := h.records.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("dashboard listing failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]models.DashboardItem, 0, len(records))
	for _, r := range records {
		items = append(items, models.DashboardItem{
			ID:             r.ID,
			OriginalURL:    r.OriginalURL,
			TargetLanguage: r.TargetLanguage,
			CreatedAt:      r.CreatedAt,
			ExpiresAt:      r.ExpiresAt,
			ViewLink:       "/render/" + r.ID,
		})
	}

	c.JSON(http.StatusOK, items)
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
