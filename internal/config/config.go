package config

import (
	"fmt"
	"os"
)

// Config holds all configuration for the translation service, loaded from
// environment variables.
type Config struct {
	Port                   string
	ProjectID              string
	VertexAIRegion         string
	GeminiModel            string
	PagesBucket            string
	TranslationsCollection string
	// AuthAudience is the expected audience of incoming Google ID tokens.
	// Empty disables the audience check (any valid token is accepted).
	AuthAudience string
	Debug        bool
}

// GetEnv reads an environment variable or returns a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Load reads and validates the service configuration.
func Load() (*Config, error) {
	projectID := GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	pagesBucket := GetEnv("PAGES_BUCKET", "")
	if pagesBucket == "" {
		return nil, fmt.Errorf("PAGES_BUCKET environment variable must be set")
	}

	return &Config{
		Port:                   GetEnv("PORT", "8080"),
		ProjectID:              projectID,
		VertexAIRegion:         GetEnv("VERTEX_AI_REGION", "us-central1"),
		GeminiModel:            GetEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		PagesBucket:            pagesBucket,
		TranslationsCollection: GetEnv("TRANSLATIONS_COLLECTION", "translations"),
		AuthAudience:           GetEnv("AUTH_AUDIENCE", ""),
		Debug:                  GetEnv("DEBUG", "") == "true",
	}, nil
}
