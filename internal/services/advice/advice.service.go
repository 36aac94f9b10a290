// Package advice calls the Gemini generateContent endpoint for non-binding
// clinical guidance. The result is advisory text only: it never touches
// stored state, and every failure path degrades to a canned message in the
// caller's language instead of an error.
package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"xrayserver/config"
	"xrayserver/internal/logger"

	. "xrayserver/internal/models"
)

var unavailableMessages = map[Language]string{
	LanguageMS: "Kunci API tidak dijumpai. Sila hubungi pentadbir.",
	LanguageEN: "API Key not found. Please contact admin.",
}

var failureMessages = map[Language]string{
	LanguageMS: "Gagal mendapatkan nasihat AI. Sila cuba lagi.",
	LanguageEN: "Failed to get AI advice. Please try again.",
}

var emptyMessages = map[Language]string{
	LanguageMS: "Tiada nasihat dijana.",
	LanguageEN: "No advice generated.",
}

type Service struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	log     logger.Logger
}

func New(config config.Config) *Service {
	return &Service{
		apiKey:  config.GeminiAPIKey,
		model:   config.GeminiModel,
		baseURL: strings.TrimSuffix(config.GeminiBaseURL, "/"),
		client: &http.Client{
			Timeout: time.Duration(config.AdviceTimeoutSeconds) * time.Second,
		},
		log: logger.New("advice"),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []textPart `json:"parts"`
}

type textPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GetClinicalAdvice returns guidance text for the given history and
// requested parts, in the selected language. It never fails: missing key,
// transport errors, and empty responses all map to fixed messages.
func (s *Service) GetClinicalAdvice(
	ctx context.Context,
	history string,
	parts []BodyPartOption,
	language Language,
) string {
	log := s.log.Function("GetClinicalAdvice")

	if language != LanguageMS {
		language = LanguageEN
	}

	if s.apiKey == "" {
		log.Warn("no API key configured", "reason", ErrCollaboratorUnavailable)
		return unavailableMessages[language]
	}

	text, err := s.generate(ctx, s.buildPrompt(history, parts, language))
	if err != nil {
		log.Er("advisory call failed", err)
		return failureMessages[language]
	}
	if text == "" {
		return emptyMessages[language]
	}

	return text
}

func (s *Service) buildPrompt(history string, parts []BodyPartOption, language Language) string {
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		labels = append(labels, fmt.Sprintf("%s (%s)", part.Category, part.Projection))
	}

	langInstruction := "Answer in English."
	if language == LanguageMS {
		langInstruction = "Jawab dalam Bahasa Melayu."
	}

	return fmt.Sprintf(`Context: You are a senior radiologist assistant at UiTM Health Centre.
Patient History: %s
Requested X-Ray Exams: %s

Task: Provide brief, bullet-pointed clinical guidelines or precautions for these specific X-Ray examinations based on the history provided.
Include any specific patient positioning advice or contraindications if relevant to the history.
Keep it short and professional.
%s`, history, strings.Join(labels, ", "), langInstruction)
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []textPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 {
		return "", nil
	}

	var out strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		out.WriteString(part.Text)
	}
	return strings.TrimSpace(out.String()), nil
}

// NewForTest builds a service pointed at a stub server.
func NewForTest(apiKey, model, baseURL string, client *http.Client) *Service {
	return &Service{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		log:     logger.New("advice"),
	}
}
