package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// TranslatorSystemPromptFormat is the system instruction for the page
// translation model. It mandates an array-in/array-out contract: the model
// receives a JSON array of strings and must answer with a same-cardinality
// JSON array of translations, with no markdown fencing.
const TranslatorSystemPromptFormat = `You are a strictly compliant translation engine.
You will receive a JSON array of strings.
You must return a JSON array containing the %s translations.

MUST FOLLOW Rules:
1. The output must be a valid JSON array of strings.
2. The output array must have exactly the same number of elements as the input.
3. Do not translate proper nouns, brand names, or technical keys if inappropriate.
4. Do not output any markdown formatting (like triple backticks), just the raw JSON.`

// VertexClient wraps the Vertex AI generative client and hands out
// translation models configured per target language.
type VertexClient struct {
	modelName  string
	baseClient *genai.Client
}

// NewVertexClient creates a Vertex AI client for the given project, region
// and model alias.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &VertexClient{
		modelName:  modelName,
		baseClient: baseClient,
	}, nil
}

// TranslatorModel returns a generative model configured to translate into the
// given target language. The target language varies per request, so the model
// is configured per call rather than once at client construction.
func (c *VertexClient) TranslatorModel(targetLanguage string) *genai.GenerativeModel {
	model := c.baseClient.GenerativeModel(c.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(TranslatorSystemPromptFormat, targetLanguage))},
	}
	model.GenerationConfig = genai.GenerationConfig{
		// Force JSON output. Temperature 0 keeps the structured contract stable.
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}
	return model
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
