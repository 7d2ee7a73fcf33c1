package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alexanderkoo04/language/internal/api"
	"github.com/alexanderkoo04/language/internal/models"
	"github.com/alexanderkoo04/language/internal/store"
)

type fakePipeline struct {
	resp       *models.TranslationResponse
	err        error
	lastUserID string
	called     bool
}

func (f *fakePipeline) Run(_ context.Context, _ *models.TranslationRequest, userID string) (*models.TranslationResponse, error) {
	f.called = true
	f.lastUserID = userID
	return f.resp, f.err
}

type fakeRecords struct {
	byID    map[string]*models.TranslationRecord
	byUser  map[string][]models.TranslationRecord
	listErr error
}

func (f *fakeRecords) GetByID(_ context.Context, id string) (*models.TranslationRecord, error) {
	rec, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func (f *fakeRecords) ListByUser(_ context.Context, userID string) ([]models.TranslationRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byUser[userID], nil
}

type fakeBlobs struct {
	pages map[string]string
	err   error
}

func (f *fakeBlobs) Download(_ context.Context, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	html, ok := f.pages[path]
	if !ok {
		return "", errors.New("object not found")
	}
	return html, nil
}

// fakeVerifier accepts the tokens in its map and rejects everything else.
type fakeVerifier struct {
	users map[string]string
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (string, error) {
	userID, ok := f.users[token]
	if !ok {
		return "", errors.New("invalid token")
	}
	return userID, nil
}

func newTestRouter(t *testing.T, pipeline *fakePipeline, records *fakeRecords, blobs *fakeBlobs, verifier *fakeVerifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handlers := api.NewHandlers(pipeline, records, blobs, zap.NewNop())
	return api.NewRouter(handlers, verifier, false, zap.NewNop())
}

func doRequest(router *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTranslateAsGuest(t *testing.T) {
	expiresAt := time.Now().UTC().Add(24 * time.Hour)
	pipeline := &fakePipeline{resp: &models.TranslationResponse{
		TranslationID: "abc123",
		ViewLink:      "/render/abc123",
		ExpiresAt:     expiresAt,
	}}
	router := newTestRouter(t, pipeline, &fakeRecords{}, &fakeBlobs{}, &fakeVerifier{})

	body, _ := json.Marshal(models.TranslationRequest{URL: "https://example.com", TargetLanguage: "fr"})
	w := doRequest(router, http.MethodPost, "/translate", "", body)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "", pipeline.lastUserID)

	var resp models.TranslationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc123", resp.TranslationID)
	assert.Equal(t, "/render/abc123", resp.ViewLink)
	assert.WithinDuration(t, expiresAt, resp.ExpiresAt, 5*time.Second)
}

func TestTranslateInvalidTokenDegradesToGuest(t *testing.T) {
	pipeline := &fakePipeline{resp: &models.TranslationResponse{TranslationID: "x"}}
	router := newTestRouter(t, pipeline, &fakeRecords{}, &fakeBlobs{},
		&fakeVerifier{users: map[string]string{"good": "user-1"}})

	body, _ := json.Marshal(models.TranslationRequest{URL: "https://example.com", TargetLanguage: "de"})
	w := doRequest(router, http.MethodPost, "/translate", "forged", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", pipeline.lastUserID)
}

func TestTranslateAuthenticatedUser(t *testing.T) {
	pipeline := &fakePipeline{resp: &models.TranslationResponse{TranslationID: "x"}}
	router := newTestRouter(t, pipeline, &fakeRecords{}, &fakeBlobs{},
		&fakeVerifier{users: map[string]string{"good": "user-1"}})

	body, _ := json.Marshal(models.TranslationRequest{URL: "https://example.com", TargetLanguage: "de"})
	w := doRequest(router, http.MethodPost, "/translate", "good", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", pipeline.lastUserID)
}

func TestTranslateRejectsBadRequests(t *testing.T) {
	pipeline := &fakePipeline{}
	router := newTestRouter(t, pipeline, &fakeRecords{}, &fakeBlobs{}, &fakeVerifier{})

	for name, body := range map[string][]byte{
		"not json":     []byte("nope"),
		"missing url":  []byte(`{"targetLanguage":"fr"}`),
		"relative url": []byte(`{"url":"/path/only","targetLanguage":"fr"}`),
		"ftp url":      []byte(`{"url":"ftp://example.com","targetLanguage":"fr"}`),
	} {
		w := doRequest(router, http.MethodPost, "/translate", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
	assert.False(t, pipeline.called)
}

func TestTranslatePipelineFailureIs500(t *testing.T) {
	pipeline := &fakePipeline{err: errors.New("render failed: navigation timeout")}
	router := newTestRouter(t, pipeline, &fakeRecords{}, &fakeBlobs{}, &fakeVerifier{})

	body, _ := json.Marshal(models.TranslationRequest{URL: "https://example.com", TargetLanguage: "fr"})
	w := doRequest(router, http.MethodPost, "/translate", "", body)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "navigation timeout")
}

func TestRenderServesStoredPage(t *testing.T) {
	records := &fakeRecords{byID: map[string]*models.TranslationRecord{
		"abc": {ID: "abc", StoragePath: "pages/abc.html"},
	}}
	blobs := &fakeBlobs{pages: map[string]string{
		"pages/abc.html": "<html><body>Bonjour</body></html>",
	}}
	router := newTestRouter(t, &fakePipeline{}, records, blobs, &fakeVerifier{})

	w := doRequest(router, http.MethodGet, "/render/abc", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Bonjour")
}

func TestRenderMissingOrExpiredIs404(t *testing.T) {
	router := newTestRouter(t, &fakePipeline{}, &fakeRecords{}, &fakeBlobs{}, &fakeVerifier{})

	w := doRequest(router, http.MethodGet, "/render/gone", "", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "404 - Translation Not Found or Expired")
}

func TestRenderBlobFailureIs500(t *testing.T) {
	records := &fakeRecords{byID: map[string]*models.TranslationRecord{
		"abc": {ID: "abc", StoragePath: "pages/abc.html"},
	}}
	blobs := &fakeBlobs{err: errors.New("storage unreachable")}
	router := newTestRouter(t, &fakePipeline{}, records, blobs, &fakeVerifier{})

	w := doRequest(router, http.MethodGet, "/render/abc", "", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error loading translation file")
}

func TestDashboardRequiresAuth(t *testing.T) {
	router := newTestRouter(t, &fakePipeline{}, &fakeRecords{}, &fakeBlobs{},
		&fakeVerifier{users: map[string]string{"good": "user-1"}})

	for name, token := range map[string]string{
		"missing token": "",
		"invalid token": "forged",
	} {
		w := doRequest(router, http.MethodGet, "/dashboard", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestDashboardListsNewestFirst(t *testing.T) {
	now := time.Now().UTC()
	records := &fakeRecords{byUser: map[string][]models.TranslationRecord{
		"user-1": {
			{ID: "c", OriginalURL: "https://c.example", TargetLanguage: "fr", CreatedAt: now},
			{ID: "b", OriginalURL: "https://b.example", TargetLanguage: "es", CreatedAt: now.Add(-time.Hour)},
			{ID: "a", OriginalURL: "https://a.example", TargetLanguage: "de", CreatedAt: now.Add(-2 * time.Hour)},
		},
	}}
	router := newTestRouter(t, &fakePipeline{}, records, &fakeBlobs{},
		&fakeVerifier{users: map[string]string{"good": "user-1"}})

	w := doRequest(router, http.MethodGet, "/dashboard", "good", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var items []models.DashboardItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, "a", items[2].ID)
	for _, item := range items {
		assert.Equal(t, "/render/"+item.ID, item.ViewLink)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakePipeline{}, &fakeRecords{}, &fakeBlobs{}, &fakeVerifier{})

	w := doRequest(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
