// Package services holds the page translation pipeline: fetch, clean,
// extract, translate, rebuild, persist.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/alexanderkoo04/language/internal/models"
	"github.com/alexanderkoo04/language/internal/scraper"
)

// Renderer produces fully rendered HTML for a URL.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Translator translates an ordered text batch, falling back to the input on
// failure. It never returns an error.
type Translator interface {
	Translate(ctx context.Context, texts []string, targetLanguage string) []string
}

// BlobStore persists opaque HTML payloads by generated key.
type BlobStore interface {
	Upload(ctx context.Context, html string) (string, error)
	Delete(ctx context.Context, path string) error
}

// RecordStore creates translation metadata records.
type RecordStore interface {
	Create(ctx context.Context, userID, originalURL, targetLanguage, storagePath string) (*models.TranslationRecord, error)
}

// Pipeline is the stateless transform from URL to stored, translated page.
// It owns no persistent state; every run is an independent unit of work.
type Pipeline struct {
	renderer   Renderer
	translator Translator
	blobs      BlobStore
	records    RecordStore
	log        *zap.Logger
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(renderer Renderer, translator Translator, blobs BlobStore, records RecordStore, log *zap.Logger) *Pipeline {
	return &Pipeline{
		renderer:   renderer,
		translator: translator,
		blobs:      blobs,
		records:    records,
		log:        log,
	}
}

// Run executes one full translation: render the page, sanitize it, extract
// its text nodes, translate them in a single batch, rebuild the document,
// upload the result and create the metadata record. Render and storage
// failures abort; translation failures already degraded inside the gateway.
func (p *Pipeline) Run(ctx context.Context, req *models.TranslationRequest, userID string) (*models.TranslationResponse, error) {
	rawHTML, err := p.renderer.Render(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered page: %w", err)
	}

	scraper.Clean(doc)
	nodes := scraper.ExtractTextNodes(doc)
	p.log.Info("extracted text nodes",
		zap.String("url", req.URL), zap.Int("count", len(nodes)))

	translated := p.translator.Translate(ctx, scraper.Texts(nodes), req.TargetLanguage)
	scraper.Rebuild(nodes, translated)

	finalHTML, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize page: %w", err)
	}

	storagePath, err := p.blobs.Upload(ctx, finalHTML)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	rec, err := p.records.Create(ctx, userID, req.URL, req.TargetLanguage, storagePath)
	if err != nil {
		// The record is the blob's only reference; without it the upload
		// would never expire. Clean up best effort.
		if derr := p.blobs.Delete(ctx, storagePath); derr != nil {
			p.log.Warn("failed to clean up orphaned page",
				zap.String("path", storagePath), zap.Error(derr))
		}
		return nil, fmt.Errorf("failed to save translation record: %w", err)
	}

	return &models.TranslationResponse{
		TranslationID: rec.ID,
		ViewLink:      "/render/" + rec.ID,
		ExpiresAt:     rec.ExpiresAt,
	}, nil
}
