package models

import "time"

// These structs define the JSON payloads of the public HTTP API.

// TranslationRequest is the input for POST /translate.
type TranslationRequest struct {
	URL            string `json:"url" binding:"required"`
	TargetLanguage string `json:"targetLanguage" binding:"required"`
}

// TranslationResponse is the output of POST /translate.
type TranslationResponse struct {
	TranslationID string    `json:"translationId"`
	ViewLink      string    `json:"viewLink"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// DashboardItem is one row of the authenticated history listing, a read
// projection of TranslationRecord plus the derived view link.
type DashboardItem struct {
	ID             string    `json:"id"`
	OriginalURL    string    `json:"originalUrl"`
	TargetLanguage string    `json:"targetLanguage"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
	ViewLink       string    `json:"viewLink"`
}
