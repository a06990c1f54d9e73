package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"tycoon/internal/config"
	"tycoon/internal/game"
	"tycoon/internal/oracle"
	"tycoon/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	orc, err := oracle.NewScripted(11)
	if err != nil {
		t.Fatalf("scripted oracle: %v", err)
	}
	games := game.NewManager(orc, st, slog.Default())
	srv := httptest.NewServer(New(config.APIConfig{}, slog.Default(), games, st).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any, headers map[string]string) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func createTestGame(t *testing.T, srv *httptest.Server) game.GameState {
	t.Helper()
	resp := postJSON(t, srv.URL+"/v1/games", map[string]any{
		"company_name": "Acme Labs",
		"industry":     string(game.IndustryTech),
		"product_name": "Widget",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create game status = %d", resp.StatusCode)
	}
	var g game.GameState
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		t.Fatalf("decode game: %v", err)
	}
	return g
}

func TestCreateAndFetchGame(t *testing.T) {
	srv := newTestServer(t)
	g := createTestGame(t, srv)

	resp, err := http.Get(srv.URL + "/v1/games/" + g.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got game.GameState
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CompanyName != "Acme Labs" || got.Stage != game.StagePlaying {
		t.Fatalf("unexpected state: %+v", got)
	}
}

func TestCreateGameValidation(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/v1/games", map[string]any{
		"company_name": "admin empire",
		"industry":     string(game.IndustryTech),
		"product_name": "Widget",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUnknownGameIs404(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/games/ghost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestTurnAndIdempotencyReplay(t *testing.T) {
	srv := newTestServer(t)
	g := createTestGame(t, srv)
	headers := map[string]string{"Idempotency-Key": "key-1"}

	resp := postJSON(t, srv.URL+"/v1/games/"+g.ID+"/turn", game.Decisions{RDFocus: "speed"}, headers)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("turn status = %d", resp.StatusCode)
	}
	var out game.TurnOutcome
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if out.Narrative == "" {
		t.Fatalf("empty narrative")
	}

	replay := postJSON(t, srv.URL+"/v1/games/"+g.ID+"/turn", game.Decisions{}, headers)
	defer replay.Body.Close()
	if replay.StatusCode != http.StatusConflict {
		t.Fatalf("replay status = %d, want 409", replay.StatusCode)
	}
}

func TestPitchCarriesRoundLabel(t *testing.T) {
	srv := newTestServer(t)
	g := createTestGame(t, srv)

	resp := postJSON(t, srv.URL+"/v1/games/"+g.ID+"/pitch", map[string]any{"round": "Series B"},
		map[string]string{"Idempotency-Key": "pitch-1"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pitch status = %d", resp.StatusCode)
	}
	var res game.PitchResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode pitch: %v", err)
	}
	if res.Accepted {
		t.Fatalf("a fresh company should not clear a series B bar")
	}
	if !strings.Contains(res.Feedback, "Series B") {
		t.Fatalf("round label did not reach the investor: %q", res.Feedback)
	}
}

func TestPitchAcceptsEmptyBody(t *testing.T) {
	srv := newTestServer(t)
	g := createTestGame(t, srv)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/games/"+g.ID+"/pitch", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Idempotency-Key", "pitch-2")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bodyless pitch status = %d, want default-round 200", resp.StatusCode)
	}
}

func TestRecruitCarriesJobDescription(t *testing.T) {
	srv := newTestServer(t)
	g := createTestGame(t, srv)

	resp := postJSON(t, srv.URL+"/v1/games/"+g.ID+"/recruit", map[string]any{
		"count":           2,
		"job_description": "growth marketer, paid channels",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("recruit status = %d", resp.StatusCode)
	}
	var out struct {
		Candidates []game.Candidate `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode candidates: %v", err)
	}
	if len(out.Candidates) != 2 {
		t.Fatalf("got %d candidates", len(out.Candidates))
	}
	for _, c := range out.Candidates {
		if !strings.Contains(c.MatchAnalysis, "growth marketer") {
			t.Fatalf("posting did not reach candidate generation: %q", c.MatchAnalysis)
		}
	}
}

func TestHireUnknownCandidateIs400(t *testing.T) {
	srv := newTestServer(t)
	g := createTestGame(t, srv)
	resp := postJSON(t, srv.URL+"/v1/games/"+g.ID+"/hire", map[string]any{"candidate_id": "ghost"}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUpgradeFacility(t *testing.T) {
	srv := newTestServer(t)
	g := createTestGame(t, srv)
	resp := postJSON(t, srv.URL+"/v1/games/"+g.ID+"/facilities/office/upgrade", map[string]any{}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var f game.Facility
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		t.Fatalf("decode facility: %v", err)
	}
	if f.Level != 2 || f.CostToUpgrade != 10_000 {
		t.Fatalf("unexpected facility: %+v", f)
	}
}
