package scanning

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// geminiKeyMarker appears in every Google AI Studio API key
const geminiKeyMarker = "AIza"

// CheckGeminiKey reports ErrMissingCredential for keys that cannot be a Gemini key
func CheckGeminiKey(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("%w: gemini api key is not set", ErrMissingCredential)
	}
	if !strings.Contains(apiKey, geminiKeyMarker) {
		return fmt.Errorf("%w: gemini api key does not look like a Google API key", ErrMissingCredential)
	}
	return nil
}

// Gemini implements the Scanner interface using Google Gemini
type Gemini struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	prompt  string
	timeout time.Duration
	keyErr  error
}

// NewGemini creates a Gemini scanner held for the life of the process.
// A missing or malformed key does not fail construction: the scanner declines every request
// with ErrMissingCredential so the form stays usable for manual entry.
func NewGemini(ctx context.Context, apiKey, modelName string, categories []string, opts ...option.ClientOption) (*Gemini, error) {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	g := &Gemini{
		prompt:  BuildPrompt(categories),
		timeout: 60 * time.Second,
	}

	if err := CheckGeminiKey(apiKey); err != nil {
		g.keyErr = err
		return g, nil
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	g.client = client
	g.model = model
	return g, nil
}

// ScanReceipt analyzes a receipt and extracts its fields
func (g *Gemini) ScanReceipt(ctx context.Context, doc Document) (*ExtractedFields, error) {
	if g.keyErr != nil {
		return nil, g.keyErr
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	payload, err := geminiPayload(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(g.prompt), payload)
	if err != nil {
		return nil, fmt.Errorf("%w: generating content: %w", ErrExtraction, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no response from gemini", ErrExtraction)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	return ParseExtraction(responseText.String())
}

// CredentialErr returns the reason this scanner declines every request, or nil when the key looks usable
func (g *Gemini) CredentialErr() error {
	return g.keyErr
}

// geminiPayload encodes the document for GenerateContent: PDFs as a media-type-tagged blob,
// images inline with HEIC and other formats converted to PNG
func geminiPayload(doc Document) (genai.Part, error) {
	if doc.Media == MediaPDF {
		return genai.Blob{MIMEType: "application/pdf", Data: doc.Data}, nil
	}
	// genai.ImageData expects just the format suffix (e.g. "png"), not the full MIME type
	format, data, err := imagePayload(doc)
	if err != nil {
		return nil, err
	}
	return genai.ImageData(format, data), nil
}

// ListModels returns the models this key can use for content generation
func (g *Gemini) ListModels(ctx context.Context) ([]string, error) {
	if g.keyErr != nil {
		return nil, g.keyErr
	}

	var names []string
	it := g.client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing models: %w", err)
		}
		if slices.Contains(m.SupportedGenerationMethods, "generateContent") {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
