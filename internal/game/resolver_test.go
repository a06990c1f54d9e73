package game

import (
	"strconv"
	"testing"
)

func playingState() *GameState {
	g := newTestState()
	g.Stage = StagePlaying
	return g
}

func TestApplyOutcomeScalars(t *testing.T) {
	g := playingState()
	ApplyOutcome(g, TurnOutcome{
		Narrative:      "a month",
		CashChange:     -1_500,
		MoraleChange:   -3,
		ProductUpdates: []ProductUpdate{{ProductID: "p1", UserChange: 200}},
	})
	if g.Cash != InitialCash-1_500 {
		t.Fatalf("cash = %d", g.Cash)
	}
	if g.Users != 200 {
		t.Fatalf("users = %d", g.Users)
	}
	if g.Morale != InitialMorale-3 {
		t.Fatalf("morale = %d", g.Morale)
	}
	if g.Turn != 2 {
		t.Fatalf("turn = %d, want 2", g.Turn)
	}
	if len(g.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(g.History))
	}
}

func TestApplyOutcomeBounds(t *testing.T) {
	g := playingState()
	ApplyOutcome(g, TurnOutcome{MoraleChange: 500})
	if g.Morale != 100 {
		t.Fatalf("morale = %d, want clamped 100", g.Morale)
	}
	ApplyOutcome(g, TurnOutcome{MoraleChange: -500})
	if g.Morale != 0 {
		t.Fatalf("morale = %d, want clamped 0", g.Morale)
	}
}

func TestGlobalUsersSumProductDeltas(t *testing.T) {
	g := playingState()
	g.Users = 100
	ApplyOutcome(g, TurnOutcome{
		UserChange: -50,
		ProductUpdates: []ProductUpdate{
			{ProductID: "p1", UserChange: 200},
			{ProductID: "ghost", UserChange: 30},
		},
	})
	// per-product deltas drive the counter; the top-level figure does not
	if g.Users != 330 {
		t.Fatalf("users = %d, want 330", g.Users)
	}

	ApplyOutcome(g, TurnOutcome{
		ProductUpdates: []ProductUpdate{{ProductID: "p1", UserChange: -1_000}},
	})
	if g.Users != 0 {
		t.Fatalf("users = %d, want floored at 0", g.Users)
	}
}

func TestEquityOnlyMovesThroughFunding(t *testing.T) {
	g := playingState()
	g.Equity = 60
	ApplyOutcome(g, TurnOutcome{EquityChange: 10})
	if g.Equity != 60 {
		t.Fatalf("equity = %.1f, a turn must not move it", g.Equity)
	}
	ApplyOutcome(g, TurnOutcome{EquityChange: -10})
	if g.Equity != 60 {
		t.Fatalf("equity = %.1f, a turn must not move it", g.Equity)
	}
}

func TestApplyOutcomeProductUpdates(t *testing.T) {
	g := playingState()
	ApplyOutcome(g, TurnOutcome{
		ProductUpdates: []ProductUpdate{
			{ProductID: "p1", DevProgressChange: 35, QualityChange: -5, BugChange: 3, NewFeedback: "slow on mobile"},
			{ProductID: "ghost", DevProgressChange: 50},
		},
	})
	p := g.Product("p1")
	if p.DevelopmentProgress != 35 {
		t.Fatalf("progress = %d, want 35", p.DevelopmentProgress)
	}
	if p.Quality != InitialQuality-5 {
		t.Fatalf("quality = %d", p.Quality)
	}
	if p.Bugs != 3 {
		t.Fatalf("bugs = %d", p.Bugs)
	}
	if len(p.ActiveFeedback) != 1 || p.ActiveFeedback[0] != "slow on mobile" {
		t.Fatalf("feedback = %v", p.ActiveFeedback)
	}
}

func TestFeedbackNewestFirstCapped(t *testing.T) {
	g := playingState()
	for i := 0; i < 7; i++ {
		ApplyOutcome(g, TurnOutcome{
			ProductUpdates: []ProductUpdate{{ProductID: "p1", NewFeedback: "note " + strconv.Itoa(i)}},
		})
	}
	p := g.Product("p1")
	if len(p.ActiveFeedback) != maxActiveFeedback {
		t.Fatalf("feedback length = %d, want %d", len(p.ActiveFeedback), maxActiveFeedback)
	}
	if p.ActiveFeedback[0] != "note 6" {
		t.Fatalf("newest feedback = %q, want note 6", p.ActiveFeedback[0])
	}
	if p.ActiveFeedback[maxActiveFeedback-1] != "note 2" {
		t.Fatalf("oldest kept = %q, want note 2", p.ActiveFeedback[maxActiveFeedback-1])
	}
}

func TestGameOverThreshold(t *testing.T) {
	g := playingState()
	ApplyOutcome(g, TurnOutcome{CashChange: -(InitialCash + 9_500)})
	if g.Stage != StagePlaying {
		t.Fatalf("cash %d should not end the game", g.Cash)
	}

	ApplyOutcome(g, TurnOutcome{CashChange: -1_000})
	if g.Stage != StageGameOver {
		t.Fatalf("cash %d should end the game", g.Cash)
	}
	if g.GameOverReason != GameOverBankrupt {
		t.Fatalf("reason = %q", g.GameOverReason)
	}
}

func TestStressDrift(t *testing.T) {
	g := playingState()
	g.Skills.Management = 2
	g.Employees = []Employee{
		{ID: "e1", Morale: 90, Stress: 10, AssignedProductID: "p1"},
		{ID: "e2", Morale: 90, Stress: 10},
	}
	ApplyOutcome(g, TurnOutcome{})

	// assigned: +2 - 1 relief = +1; benched: -1 relief
	if g.Employees[0].Stress != 11 {
		t.Fatalf("assigned stress = %.1f, want 11", g.Employees[0].Stress)
	}
	if g.Employees[1].Stress != 9 {
		t.Fatalf("benched stress = %.1f, want 9", g.Employees[1].Stress)
	}
}

func TestStressSpikesWhenBroke(t *testing.T) {
	g := playingState()
	g.Skills.Management = 0
	g.Employees = []Employee{{ID: "e1", Morale: 90, Stress: 79, AssignedProductID: "p1"}}
	ApplyOutcome(g, TurnOutcome{CashChange: -(InitialCash + 1)})

	// cash negative +5, assigned +2
	if g.Employees[0].Stress != 86 {
		t.Fatalf("stress = %.1f, want 86", g.Employees[0].Stress)
	}
	if g.Employees[0].Morale != 85 {
		t.Fatalf("morale = %d, want 85 after stress break", g.Employees[0].Morale)
	}
}

func TestFallbackOutcome(t *testing.T) {
	g := playingState()
	g.Employees = []Employee{{ID: "e1", Salary: 2_000}}
	out := FallbackOutcome(g)
	if out.CashChange != -BurnRate(g) {
		t.Fatalf("cash change = %d, want %d", out.CashChange, -BurnRate(g))
	}
	if out.MoraleChange != -FallbackMoralePenalty {
		t.Fatalf("morale change = %d", out.MoraleChange)
	}
	if len(out.ProductUpdates) != 0 {
		t.Fatalf("fallback should not touch products")
	}
}

func TestTeamPowerSumsSkillOfAssigned(t *testing.T) {
	g := playingState()
	g.Employees = []Employee{
		{ID: "e1", Role: RoleDeveloper, Skill: 80, Morale: 50, AssignedProductID: "p1"},
		{ID: "e2", Role: RoleDeveloper, Skill: 60, Morale: 100, AssignedProductID: "p1"},
		{ID: "e3", Role: RoleDeveloper, Skill: 90, Morale: 100},
	}
	// plain skill sum; morale plays no part
	power := TeamPower(g, "p1")
	if power[RoleDeveloper] != 140 {
		t.Fatalf("developer power = %d, want 140", power[RoleDeveloper])
	}
}

func TestValidateDecisions(t *testing.T) {
	g := playingState()
	if err := ValidateDecisions(g, Decisions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateDecisions(g, Decisions{EventChoice: "x"}); err == nil {
		t.Fatalf("expected choice without event to fail")
	}
	g.PendingEvent = &InteractiveEvent{Title: "Outage"}
	if err := ValidateDecisions(g, Decisions{}); err == nil {
		t.Fatalf("expected pending event without choice to fail")
	}
	g.Stage = StageGameOver
	if err := ValidateDecisions(g, Decisions{EventChoice: "x"}); err == nil {
		t.Fatalf("expected finished game to refuse turns")
	}
}
