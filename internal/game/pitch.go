package game

import "fmt"

// PitchResult is the investor's verdict on a funding round.
type PitchResult struct {
	Accepted         bool    `json:"accepted"`
	InvestorName     string  `json:"investor_name"`
	Feedback         string  `json:"feedback"`
	Valuation        int     `json:"valuation"`
	Investment       int     `json:"investment"`
	EquityDemanded   float64 `json:"equity_demanded"`
	CounterNarrative string  `json:"counter_narrative,omitempty"`
}

// ApplyPitch folds a funding round into the aggregate. Acceptance trades
// equity for cash and lifts morale; rejection only stings morale. Equity
// never goes below zero even when the demand exceeds what is left. The
// round is recorded as a history entry so the timeline stays complete.
func ApplyPitch(g *GameState, round string, res PitchResult) {
	out := TurnOutcome{
		Narrative:      res.Feedback,
		ProductUpdates: []ProductUpdate{},
	}
	if res.Accepted {
		granted := res.EquityDemanded
		if granted > g.Equity {
			granted = g.Equity
		}
		g.Cash += res.Investment
		g.Equity -= granted
		g.Morale = clamp(g.Morale+PitchMoraleBonus, 0, 100)
		out.Narrative = fmt.Sprintf("%s invested $%d for %.1f%% equity in the %s round. %s",
			res.InvestorName, res.Investment, res.EquityDemanded, round, res.Feedback)
		out.CashChange = res.Investment
		out.MoraleChange = PitchMoraleBonus
		out.EquityChange = -granted
	} else {
		g.Morale = clamp(g.Morale-PitchMoralePenalty, 0, 100)
		out.Narrative = fmt.Sprintf("%s passed on the %s round. %s", res.InvestorName, round, res.Feedback)
		out.MoraleChange = -PitchMoralePenalty
	}
	g.History = append(g.History, out)
}

// FallbackPitch is the degraded-mode verdict when the investors cannot be
// reached: a flat rejection with no terms, so the round always resolves.
func FallbackPitch() PitchResult {
	return PitchResult{
		Accepted:     false,
		InvestorName: "The investors",
		Feedback:     "Calls went unanswered and no term sheet arrived. Try again next month.",
	}
}
