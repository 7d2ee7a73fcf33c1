// Package translator sends batched page text to Gemini and enforces the
// array-in/array-out contract, degrading to the original text when the model
// misbehaves.
package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"go.uber.org/zap"

	"github.com/alexanderkoo04/language/internal/gcp"
)

// requestTimeout bounds the single batched model call per pipeline run.
const requestTimeout = 30 * time.Second

type generateFunc func(ctx context.Context, targetLanguage, payload string) (string, error)

// Gateway is the translation gateway. A failed translation never aborts the
// pipeline: every failure path returns the input unchanged.
type Gateway struct {
	gen     generateFunc
	log     *zap.Logger
	timeout time.Duration
}

// NewGateway creates a gateway backed by the given Vertex AI client.
func NewGateway(vertex *gcp.VertexClient, log *zap.Logger) *Gateway {
	g := &Gateway{log: log, timeout: requestTimeout}
	g.gen = func(ctx context.Context, targetLanguage, payload string) (string, error) {
		model := vertex.TranslatorModel(targetLanguage)
		resp, err := model.GenerateContent(ctx, genai.Text(payload))
		if err != nil {
			return "", fmt.Errorf("failed to generate content from gemini: %w", err)
		}
		return collectText(resp), nil
	}
	return g
}

// Translate issues one batched call for the whole text sequence and returns
// the translations in order. On any failure, whether a network error, a
// malformed response or a model refusal, the original texts come back
// unchanged so content is never
// lost. An empty input returns an empty output without a network call.
func (g *Gateway) Translate(ctx context.Context, texts []string, targetLanguage string) []string {
	if len(texts) == 0 {
		return []string{}
	}

	payload, err := json.Marshal(texts)
	if err != nil {
		g.log.Warn("could not encode batch, serving original text", zap.Error(err))
		return texts
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.gen(ctx, targetLanguage, string(payload))
	if err != nil {
		g.log.Warn("translation call failed, serving original text",
			zap.String("targetLanguage", targetLanguage), zap.Error(err))
		return texts
	}

	translated, err := decodeBatch(raw)
	if err != nil {
		g.log.Warn("translation response unusable, serving original text",
			zap.String("targetLanguage", targetLanguage), zap.Error(err))
		return texts
	}
	return translated
}

// collectText concatenates the text parts of a model response.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

// stripCodeFences removes markdown fencing the model was told not to emit.
// Models routinely wrap JSON in fences anyway.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeBatch(raw string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("model response is not a JSON string array: %w", err)
	}
	return out, nil
}
