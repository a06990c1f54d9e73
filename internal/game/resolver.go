package game

import "fmt"

// stressAssigned and friends drive the per-turn stress drift. Stress is the
// slow counterweight to morale: assignment grinds it up, management skill
// bleeds it off, red ink spikes it for everyone.
const (
	stressCashNegative   = 5.0
	stressAssigned       = 2.0
	stressReliefPerMgmt  = 0.5
	stressBreakThreshold = 80.0
	stressMoraleHit      = 5
)

// ApplyOutcome folds one resolved turn into the aggregate: scalar deltas,
// per-product updates through the lifecycle machine, stress drift, skill
// XP, the pending event, the terminal check, and finally the history append
// and turn increment. It never returns an error; a malformed update for an
// unknown product is skipped rather than failing the whole turn.
func ApplyOutcome(g *GameState, out TurnOutcome) {
	g.Cash += out.CashChange
	// Global users follow the per-product deltas, floored at zero. The
	// top-level userChange stays narrative color. Equity never moves
	// through a turn; only funding rounds touch it.
	users := g.Users
	for _, upd := range out.ProductUpdates {
		users += upd.UserChange
	}
	if users < 0 {
		users = 0
	}
	g.Users = users
	g.Morale = clamp(g.Morale+out.MoraleChange, 0, 100)

	for _, upd := range out.ProductUpdates {
		p := g.Product(upd.ProductID)
		if p == nil {
			continue
		}
		applyProductUpdate(p, upd)
	}

	applyStressDrift(g)

	if out.SkillXPEarned != nil {
		g.Skills.Management += out.SkillXPEarned.Management
		g.Skills.Tech += out.SkillXPEarned.Tech
		g.Skills.Charisma += out.SkillXPEarned.Charisma
	}

	g.PendingEvent = out.RandomEvent
	g.EventChoice = ""

	if g.Cash < BankruptcyCash {
		g.Stage = StageGameOver
		g.GameOverReason = GameOverBankrupt
	}

	g.History = append(g.History, out)
	g.Turn++
}

func applyProductUpdate(p *Product, upd ProductUpdate) {
	p.Stage, p.DevelopmentProgress = AdvanceStage(p.Stage, p.DevelopmentProgress, upd.DevProgressChange)
	p.Quality = clamp(p.Quality+upd.QualityChange, 0, 100)
	if p.Bugs += upd.BugChange; p.Bugs < 0 {
		p.Bugs = 0
	}
	if p.Users += upd.UserChange; p.Users < 0 {
		p.Users = 0
	}
	if p.Revenue += upd.RevenueChange; p.Revenue < 0 {
		p.Revenue = 0
	}
	if upd.NewFeedback != "" {
		p.ActiveFeedback = append([]string{upd.NewFeedback}, p.ActiveFeedback...)
		if len(p.ActiveFeedback) > maxActiveFeedback {
			p.ActiveFeedback = p.ActiveFeedback[:maxActiveFeedback]
		}
	}
}

// applyStressDrift runs once per resolved turn, after scalar deltas so the
// cash-negative check sees the post-turn balance.
func applyStressDrift(g *GameState) {
	relief := stressReliefPerMgmt * float64(g.Skills.Management)
	for i := range g.Employees {
		e := &g.Employees[i]
		delta := -relief
		if g.Cash < 0 {
			delta += stressCashNegative
		}
		if e.AssignedProductID != "" {
			delta += stressAssigned
		}
		e.Stress = clampFloat(e.Stress+delta, 0, 100)
		if e.Stress > stressBreakThreshold {
			e.Morale = clamp(e.Morale-stressMoraleHit, 0, 100)
		}
	}
}

// FallbackOutcome is the deterministic degraded-mode turn used when the
// oracle cannot be reached: the company pays its burn rate, morale dips,
// and nothing else moves.
func FallbackOutcome(g *GameState) TurnOutcome {
	return TurnOutcome{
		Narrative: "The market was quiet this month. Operations continued " +
			"without notable developments while communications were down.",
		CashChange:     -BurnRate(g),
		MoraleChange:   -FallbackMoralePenalty,
		ProductUpdates: []ProductUpdate{},
	}
}

// TeamPower sums skill per role for the employees assigned to one product.
func TeamPower(g *GameState, productID string) map[Role]int {
	power := make(map[Role]int)
	for _, e := range g.Employees {
		if e.AssignedProductID != productID {
			continue
		}
		power[e.Role] += e.Skill
	}
	return power
}

// ValidateDecisions rejects turn input that cannot be resolved: a pending
// event demands a choice, and a choice without a pending event is noise.
func ValidateDecisions(g *GameState, d Decisions) error {
	if g.Stage != StagePlaying {
		return fmt.Errorf("%w: game is in stage %s", ErrGameOver, g.Stage)
	}
	if g.PendingEvent != nil && d.EventChoice == "" {
		return fmt.Errorf("%w: a pending event requires a choice", ErrInvalidAction)
	}
	if g.PendingEvent == nil && d.EventChoice != "" {
		return fmt.Errorf("%w: no pending event to choose for", ErrInvalidAction)
	}
	return nil
}
