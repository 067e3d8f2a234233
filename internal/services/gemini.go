package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const detailsPrompt = "Generate random data for a specimen student card of a fictional university. " +
	"Provide a common Indonesian first name and last name, determine the gender from the name, " +
	"a random 10-digit student ID number, and a common university major. Ensure the name is unique and not generic."

// GeminiOpts configures [NewGeminiService].
type GeminiOpts struct {
	APIKey            string
	TextModel         string
	ImageModel        string
	RequestsPerMinute int    // 0 disables client-side limiting
	BaseURL           string // overrides the API endpoint; used in tests
	Logger            *log.Logger
}

// GeminiService implements [Model] with Google's GenAI SDK.
type GeminiService struct {
	client     *genai.Client
	textModel  string
	imageModel string
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewGeminiService creates a client for the Gemini API.
func NewGeminiService(ctx context.Context, opts GeminiOpts) (*GeminiService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", shared.ErrMissingCredentials)
	}
	if opts.TextModel == "" {
		opts.TextModel = "gemini-2.5-flash"
	}
	if opts.ImageModel == "" {
		opts.ImageModel = "imagen-3.0-generate-002"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	cfg := &genai.ClientConfig{APIKey: opts.APIKey, Backend: genai.BackendGeminiAPI}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}

	return &GeminiService{
		client:     client,
		textModel:  opts.TextModel,
		imageModel: opts.ImageModel,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     opts.Logger,
	}, nil
}

func (s *GeminiService) Name() string { return "Gemini" }

// GenerateDetails requests a JSON object matching [DetailsSchema].
func (s *GeminiService) GenerateDetails(ctx context.Context) (*models.Details, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   DetailsSchema(),
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.textModel, genai.Text(detailsPrompt), config)
	if err != nil {
		return nil, fmt.Errorf("details request failed: %w", err)
	}

	details, err := ParseDetails(resp.Text())
	if err != nil {
		return nil, err
	}
	s.logger.Debug("details generated", "name", details.FullName(), "model", s.textModel)
	return details, nil
}

// GeneratePortrait requests a single square JPEG.
func (s *GeminiService) GeneratePortrait(ctx context.Context, prompt string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	config := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    "1:1",
	}

	resp, err := s.client.Models.GenerateImages(ctx, s.imageModel, prompt, config)
	if err != nil {
		return nil, fmt.Errorf("portrait request failed: %w", err)
	}
	return firstImage(resp)
}

// DetailsSchema is the response schema sent with every details request.
func DetailsSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"firstName": str("A common Indonesian first name."),
			"lastName":  str("A common Indonesian last name."),
			"gender":    str("The gender of the person based on the name (Male or Female)."),
			"idNumber":  str("A random 10-digit student ID number."),
			"major":     str("A common university major in Indonesia."),
		},
		Required: []string{"firstName", "lastName", "gender", "idNumber", "major"},
	}
}

// ParseDetails decodes the model's JSON answer. Beyond decoding it only insists on a usable name.
func ParseDetails(text string) (*models.Details, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(text, "```")), "```")

	var details models.Details
	if err := json.Unmarshal([]byte(text), &details); err != nil {
		return nil, fmt.Errorf("failed to parse details: %w", err)
	}
	if details.FullName() == "" {
		return nil, fmt.Errorf("details response has no name")
	}
	return &details, nil
}

func firstImage(resp *genai.GenerateImagesResponse) ([]byte, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("image response contained no images")
	}
	img := resp.GeneratedImages[0]
	if img == nil || img.Image == nil || len(img.Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("image response contained no image bytes")
	}
	return img.Image.ImageBytes, nil
}
