package assessment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	PerplexityBaseURL    = "https://api.perplexity.ai"
	DefaultResearchModel = "sonar"

	researchMaxTokens   = 1024
	researchTemperature = 0.1
)

type ResearchConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// ResearchClient fetches an optional market-research paragraph. It never
// returns an error: any transport failure, non-2xx status, or malformed body
// degrades to FallbackResearchText so the pipeline is never blocked on it.
type ResearchClient struct {
	cfg ResearchConfig
}

func NewResearchClient(cfg ResearchConfig) *ResearchClient {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.BaseURL == "" {
		cfg.BaseURL = PerplexityBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultResearchModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ResearchClient{cfg: cfg}
}

func NewResearchClientFromEnv() *ResearchClient {
	return NewResearchClient(ResearchConfig{
		APIKey:  os.Getenv("PERPLEXITY_API_KEY"),
		BaseURL: strings.TrimSpace(os.Getenv("PERPLEXITY_BASE_URL")),
		Model:   strings.TrimSpace(os.Getenv("NAVIGATOR_RESEARCH_MODEL")),
	})
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *ResearchClient) FetchMarketResearch(ctx context.Context, input SubmissionInput) string {
	if c.cfg.APIKey == "" {
		log.Printf("solution-research skipped reason=no_api_key")
		return FallbackResearchText
	}

	body, _ := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: researchSystemPrompt},
			{Role: "user", Content: buildResearchQuery(input)},
		},
		MaxTokens:   researchMaxTokens,
		Temperature: researchTemperature,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		log.Printf("solution-research request_build_error err=%q", err.Error())
		return FallbackResearchText
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		log.Printf("solution-research transport_error elapsed_ms=%d err=%q", time.Since(start).Milliseconds(), err.Error())
		return FallbackResearchText
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		log.Printf("solution-research status_error status=%d elapsed_ms=%d", res.StatusCode, time.Since(start).Milliseconds())
		return FallbackResearchText
	}

	var parsed chatResponse
	if err := json.Unmarshal(b, &parsed); err != nil {
		log.Printf("solution-research parse_error elapsed_ms=%d err=%q", time.Since(start).Milliseconds(), err.Error())
		return FallbackResearchText
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		log.Printf("solution-research empty_content elapsed_ms=%d", time.Since(start).Milliseconds())
		return FallbackResearchText
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	log.Printf("solution-research success elapsed_ms=%d response_chars=%d", time.Since(start).Milliseconds(), len(content))
	return content
}
