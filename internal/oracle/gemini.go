package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tycoon/internal/game"
	"tycoon/internal/telemetry"
)

const defaultModel = "gemini-2.5-flash"

var tracer = telemetry.Tracer("oracle")

// GeminiClient talks to the Google generative-language REST API. All four
// calls ask for a JSON-only response and decode it straight into the game
// types; any transport, status, or parse failure surfaces as an error so
// the session layer can degrade.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiClient(baseURL, apiKey, model string) *GeminiClient {
	if model == "" {
		model = defaultModel
	}
	return &GeminiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) InitializeStory(ctx context.Context, g *game.GameState) (game.StoryInit, error) {
	var out game.StoryInit
	if err := c.generate(ctx, "initialize_story", storyPrompt(g), &out); err != nil {
		return game.StoryInit{}, err
	}
	return out, nil
}

func (c *GeminiClient) ProcessTurn(ctx context.Context, g *game.GameState, d game.Decisions) (game.TurnOutcome, error) {
	var out game.TurnOutcome
	if err := c.generate(ctx, "process_turn", turnPrompt(g, d), &out); err != nil {
		return game.TurnOutcome{}, err
	}
	if out.ProductUpdates == nil {
		out.ProductUpdates = []game.ProductUpdate{}
	}
	return out, nil
}

func (c *GeminiClient) EvaluatePitch(ctx context.Context, g *game.GameState, round string) (game.PitchResult, error) {
	var out game.PitchResult
	if err := c.generate(ctx, "evaluate_pitch", pitchPrompt(g, round), &out); err != nil {
		return game.PitchResult{}, err
	}
	return out, nil
}

func (c *GeminiClient) GenerateCandidates(ctx context.Context, g *game.GameState, count int, jobDesc string) ([]game.Candidate, error) {
	var out struct {
		Candidates []game.Candidate `json:"candidates"`
	}
	if err := c.generate(ctx, "generate_candidates", candidatesPrompt(g, count, jobDesc), &out); err != nil {
		return nil, err
	}
	return out.Candidates, nil
}

// generate performs one generateContent call and decodes the model's JSON
// answer into out. Markdown code fences around the payload are tolerated.
func (c *GeminiClient) generate(ctx context.Context, op, prompt string, out any) error {
	ctx, span := tracer.Start(ctx, "oracle.generate",
		trace.WithAttributes(
			attribute.String("oracle.op", op),
			attribute.String("oracle.model", c.model),
		))
	defer span.End()

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			Temperature:      0.9,
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("oracle request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("oracle status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("decode oracle envelope: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("oracle returned no content")
	}
	text := stripFences(gr.Candidates[0].Content.Parts[0].Text)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decode oracle payload: %w", err)
	}
	return nil
}

// stripFences removes a leading ```json (or bare ```) fence and the closing
// fence. Models add them despite the JSON mime type.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
