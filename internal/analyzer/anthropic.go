package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pbaille/fleeting/internal/domain"
)

const anthropicAPI = "https://api.anthropic.com/v1/messages"

// Anthropic analyzes thought content via the Anthropic messages API.
type Anthropic struct {
	apiKey string
	model  string
}

// NewAnthropic creates the API-backed analyzer from the environment.
func NewAnthropic() (*Anthropic, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	return &Anthropic{
		apiKey: apiKey,
		model:  "claude-sonnet-4-20250514",
	}, nil
}

// Analyze asks the model for a structured project brief.
func (a *Anthropic) Analyze(content string) (*domain.Analysis, error) {
	resp, err := a.callAPI(buildPrompt(content))
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}

	return parseResponse(resp)
}

func buildPrompt(content string) string {
	var sb strings.Builder

	sb.WriteString("You are analyzing a project idea for a software developer. ")
	sb.WriteString("The idea was captured as a fleeting thought and needs to be turned into an actionable project spec.\n\n")
	sb.WriteString("IDEA:\n")
	sb.WriteString(content)
	sb.WriteString("\n\n")

	sb.WriteString(`Analyze this idea and provide a structured response in JSON format:

{
  "summary": "A clear 2-3 sentence summary of what this project is about",
  "feasibility": "Assessment of technical feasibility - what's straightforward vs challenging",
  "nextSteps": ["First concrete action", "Second action", "Third action"],
  "relatedConcepts": ["Related technology or pattern", "Similar existing solution"],
  "mvpFeatures": ["Core feature 1", "Core feature 2", "Core feature 3"],
  "outOfScope": ["Thing to explicitly not build for MVP", "Another boundary"],
  "complexity": "🟢 Simple / 🟡 Medium / 🔴 Complex",
  "platform": "visionOS / iOS / macOS / Web / Cross-platform",
  "techStack": ["Framework1", "Framework2", "Key technology"]
}

Focus on:
1. What's the core value proposition?
2. What's the minimum viable implementation?
3. What technologies would best serve this?
4. What should be explicitly out of scope for v1?

Respond ONLY with valid JSON, no additional text.`)

	return sb.String()
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (a *Anthropic) callAPI(prompt string) (string, error) {
	reqBody := apiRequest{
		Model:     a.model,
		MaxTokens: 1500,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", anthropicAPI, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return apiResp.Content[0].Text, nil
}

func parseResponse(resp string) (*domain.Analysis, error) {
	// Clean up response - remove markdown code blocks if present
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(resp), &analysis); err != nil {
		return nil, fmt.Errorf("parse json: %w (response: %s)", err, resp)
	}

	return &analysis, nil
}
