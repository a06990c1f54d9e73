package oracle

import (
	"context"
	"strings"
	"testing"

	"tycoon/internal/game"
)

func scriptedState() *game.GameState {
	g := game.NewGameState("g1", "Acme Labs", game.IndustryTech, "p1", "Widget", "")
	g.Stage = game.StagePlaying
	return g
}

func TestScriptedContentLoads(t *testing.T) {
	s, err := NewScripted(1)
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	if len(s.content.Narratives) == 0 || len(s.content.Events) == 0 || len(s.content.Investors) == 0 {
		t.Fatalf("content tables incomplete: %+v", s.content)
	}
	for _, ev := range s.content.Events {
		if ev.Title == "" || len(ev.Options) < 2 {
			t.Fatalf("malformed event: %+v", ev)
		}
	}
}

func TestScriptedProcessTurn(t *testing.T) {
	s, err := NewScripted(7)
	if err != nil {
		t.Fatalf("new scripted: %v", err)
	}
	g := scriptedState()
	out, err := s.ProcessTurn(context.Background(), g, game.Decisions{RDFocus: "speed"})
	if err != nil {
		t.Fatalf("process turn: %v", err)
	}
	if out.Narrative == "" {
		t.Fatalf("empty narrative")
	}
	if len(out.ProductUpdates) != len(g.Products) {
		t.Fatalf("got %d product updates, want %d", len(out.ProductUpdates), len(g.Products))
	}
	if out.CashChange != -game.BurnRate(g) {
		t.Fatalf("pre-release cash change = %d, want -burn (%d)", out.CashChange, -game.BurnRate(g))
	}
}

func TestScriptedDeterministicWithSeed(t *testing.T) {
	a, _ := NewScripted(99)
	b, _ := NewScripted(99)
	outA, err := a.ProcessTurn(context.Background(), scriptedState(), game.Decisions{})
	if err != nil {
		t.Fatalf("turn a: %v", err)
	}
	outB, err := b.ProcessTurn(context.Background(), scriptedState(), game.Decisions{})
	if err != nil {
		t.Fatalf("turn b: %v", err)
	}
	if outA.Narrative != outB.Narrative || outA.CashChange != outB.CashChange {
		t.Fatalf("same seed produced different outcomes")
	}
}

func TestScriptedUserGrowthStopsAtCapacity(t *testing.T) {
	s, _ := NewScripted(11)
	g := scriptedState()
	g.Products[0].Stage = game.StageRelease
	g.Users = game.UserCapacity(g)
	g.Products[0].Users = g.Users

	out, err := s.ProcessTurn(context.Background(), g, game.Decisions{MarketingFocus: "ads"})
	if err != nil {
		t.Fatalf("process turn: %v", err)
	}
	for _, upd := range out.ProductUpdates {
		if upd.UserChange != 0 {
			t.Fatalf("growth past server capacity: %+v", upd)
		}
	}
}

func TestScriptedCandidates(t *testing.T) {
	s, _ := NewScripted(3)
	cands, err := s.GenerateCandidates(context.Background(), scriptedState(), 3, "")
	if err != nil {
		t.Fatalf("generate candidates: %v", err)
	}
	if len(cands) != 3 {
		t.Fatalf("got %d candidates", len(cands))
	}
	for _, c := range cands {
		if c.Name == "" || !game.ValidRole(c.Role) {
			t.Fatalf("unusable candidate: %+v", c)
		}
		if c.Salary <= 0 || c.HireCost <= 0 {
			t.Fatalf("candidate with no price: %+v", c)
		}
	}
}

func TestScriptedCandidatesReflectPosting(t *testing.T) {
	s, _ := NewScripted(3)
	cands, err := s.GenerateCandidates(context.Background(), scriptedState(), 2, "staff SRE, on-call heavy")
	if err != nil {
		t.Fatalf("generate candidates: %v", err)
	}
	for _, c := range cands {
		if !strings.Contains(c.MatchAnalysis, "staff SRE") {
			t.Fatalf("match analysis ignores the posting: %q", c.MatchAnalysis)
		}
	}
}

func TestScriptedPitchRejectsEarlyCompany(t *testing.T) {
	s, _ := NewScripted(5)
	g := scriptedState()
	g.Morale = 10
	res, err := s.EvaluatePitch(context.Background(), g, "Seed")
	if err != nil {
		t.Fatalf("pitch: %v", err)
	}
	if res.Accepted {
		t.Fatalf("concept-stage company with no users should be rejected")
	}
	if res.InvestorName == "" || res.Feedback == "" {
		t.Fatalf("rejection missing narrative: %+v", res)
	}
}

func TestScriptedPitchLaterRoundsDemandMore(t *testing.T) {
	s, _ := NewScripted(5)
	g := scriptedState()
	g.Users = 1500 // enough for a seed check, nowhere near series B

	res, err := s.EvaluatePitch(context.Background(), g, "Seed")
	if err != nil {
		t.Fatalf("seed pitch: %v", err)
	}
	if !res.Accepted {
		t.Fatalf("seed-stage traction should clear the seed bar: %+v", res)
	}
	if res.Valuation <= 0 || res.Investment <= 0 {
		t.Fatalf("accepted pitch missing terms: %+v", res)
	}

	res, err = s.EvaluatePitch(context.Background(), g, "Series B")
	if err != nil {
		t.Fatalf("series b pitch: %v", err)
	}
	if res.Accepted {
		t.Fatalf("the same traction should not clear a series B bar")
	}
}
