package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tycoon/internal/game"
	"tycoon/internal/store"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

func (c *Client) CreateGame(ctx context.Context, companyName, industry, productName, productDesc string) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games", map[string]any{
		"company_name":        companyName,
		"industry":            industry,
		"product_name":        productName,
		"product_description": productDesc,
	}, &out, "")
	return out, err
}

func (c *Client) ListGames(ctx context.Context) ([]store.GameSummary, error) {
	var out struct {
		Games []store.GameSummary `json:"games"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games", nil, &out, "")
	return out.Games, err
}

func (c *Client) GameState(ctx context.Context, gameID string) (game.GameState, error) {
	var out game.GameState
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID), nil, &out, "")
	return out, err
}

func (c *Client) History(ctx context.Context, gameID string) ([]game.TurnOutcome, error) {
	var out struct {
		History []game.TurnOutcome `json:"history"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/history", nil, &out, "")
	return out.History, err
}

func (c *Client) ResolveTurn(ctx context.Context, gameID, idem string, d game.Decisions) (game.TurnOutcome, error) {
	var out game.TurnOutcome
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/turn", d, &out, idem)
	return out, err
}

func (c *Client) Pitch(ctx context.Context, gameID, idem, round string) (game.PitchResult, error) {
	var out game.PitchResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/pitch", map[string]any{
		"round": round,
	}, &out, idem)
	return out, err
}

func (c *Client) ChooseEvent(ctx context.Context, gameID, choice string) error {
	return c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/event-choice", map[string]any{
		"choice": choice,
	}, nil, "")
}

func (c *Client) Recruit(ctx context.Context, gameID string, count int, jobDesc string) ([]game.Candidate, error) {
	var out struct {
		Candidates []game.Candidate `json:"candidates"`
	}
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/recruit", map[string]any{
		"count":           count,
		"job_description": jobDesc,
	}, &out, "")
	return out.Candidates, err
}

func (c *Client) Hire(ctx context.Context, gameID, candidateID string) (game.Employee, error) {
	var out game.Employee
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/hire", map[string]any{
		"candidate_id": candidateID,
	}, &out, "")
	return out, err
}

func (c *Client) Fire(ctx context.Context, gameID, employeeID string) error {
	return c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/fire", map[string]any{
		"employee_id": employeeID,
	}, nil, "")
}

func (c *Client) Assign(ctx context.Context, gameID, employeeID, productID string) error {
	return c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/assign", map[string]any{
		"employee_id": employeeID,
		"product_id":  productID,
	}, nil, "")
}

func (c *Client) CreateProduct(ctx context.Context, gameID, name, desc string) (game.Product, error) {
	var out game.Product
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/products", map[string]any{
		"name":        name,
		"description": desc,
	}, &out, "")
	return out, err
}

func (c *Client) UpgradeFacility(ctx context.Context, gameID, facilityID string) (game.Facility, error) {
	var out game.Facility
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/facilities/"+url.PathEscape(facilityID)+"/upgrade", map[string]any{}, &out, "")
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any, idem string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idem != "" {
		req.Header.Set("Idempotency-Key", idem)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
