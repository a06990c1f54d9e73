package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"tycoon/internal/game"
)

// stateDigest is the slice of game state the narrative engine actually
// needs. Candidates and per-turn history are deliberately left out to keep
// prompts small.
type stateDigest struct {
	CompanyName    string                 `json:"company_name"`
	Industry       game.Industry          `json:"industry"`
	Turn           int                    `json:"turn"`
	Cash           int                    `json:"cash"`
	BurnRate       int                    `json:"burn_rate"`
	Users          int                    `json:"users"`
	UserCapacity   int                    `json:"user_capacity"`
	Morale         int                    `json:"morale"`
	Equity         float64                `json:"equity"`
	MarketContext  string                 `json:"market_context,omitempty"`
	CompetitorName string                 `json:"competitor_name,omitempty"`
	Skills         game.PlayerSkills      `json:"player_skills"`
	Products       []productDigest        `json:"products"`
	Employees      []employeeDigest       `json:"employees"`
	PendingEvent   *game.InteractiveEvent `json:"pending_event,omitempty"`
}

type productDigest struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Stage     game.ProductStage `json:"stage"`
	Progress  int               `json:"development_progress"`
	Quality   int               `json:"quality"`
	MarketFit int               `json:"market_fit"`
	Bugs      int               `json:"bugs"`
	Users     int               `json:"users"`
	Revenue   int               `json:"revenue"`
	Feedback  []string          `json:"active_feedback"`
	TeamPower map[game.Role]int `json:"team_power"`
}

type employeeDigest struct {
	Name       string     `json:"name"`
	Role       game.Role  `json:"role"`
	Level      game.Level `json:"level"`
	Skill      int        `json:"skill"`
	Morale     int        `json:"morale"`
	Stress     float64    `json:"stress"`
	AssignedTo string     `json:"assigned_product_id,omitempty"`
}

func digest(g *game.GameState) string {
	d := stateDigest{
		CompanyName:    g.CompanyName,
		Industry:       g.Industry,
		Turn:           g.Turn,
		Cash:           g.Cash,
		BurnRate:       game.BurnRate(g),
		Users:          g.Users,
		UserCapacity:   game.UserCapacity(g),
		Morale:         g.Morale,
		Equity:         g.Equity,
		MarketContext:  g.MarketContext,
		CompetitorName: g.CompetitorName,
		Skills:         g.Skills,
		PendingEvent:   g.PendingEvent,
	}
	for _, p := range g.Products {
		d.Products = append(d.Products, productDigest{
			ID:        p.ID,
			Name:      p.Name,
			Stage:     p.Stage,
			Progress:  p.DevelopmentProgress,
			Quality:   p.Quality,
			MarketFit: p.MarketFit,
			Bugs:      p.Bugs,
			Users:     p.Users,
			Revenue:   p.Revenue,
			Feedback:  p.ActiveFeedback,
			TeamPower: game.TeamPower(g, p.ID),
		})
	}
	for _, e := range g.Employees {
		d.Employees = append(d.Employees, employeeDigest{
			Name:       e.Name,
			Role:       e.Role,
			Level:      e.Level,
			Skill:      e.Skill,
			Morale:     e.Morale,
			Stress:     e.Stress,
			AssignedTo: e.AssignedProductID,
		})
	}
	b, _ := json.Marshal(d)
	return string(b)
}

func storyPrompt(g *game.GameState) string {
	return fmt.Sprintf(`You are the game master of a startup business simulation.
A founder just started a company. Company state:
%s

Write the opening scene. Respond with ONLY a JSON object:
{"narrative": "2-3 sentence opening scene", "market_context": "one sentence on the current market", "competitor_name": "a fictional rival company name"}`, digest(g))
}

func turnPrompt(g *game.GameState, d game.Decisions) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are the game master of a startup business simulation.
Resolve one month for this company. Company state:
%s

Player decisions this month: R&D focus: %q. Marketing focus: %q. Strategy: %q.
`, digest(g), d.RDFocus, d.MarketingFocus, d.StrategyNote)
	if g.PendingEvent != nil && d.EventChoice != "" {
		fmt.Fprintf(&b, "The player answered the pending event %q with: %q. Resolve its consequences this month.\n", g.PendingEvent.Title, d.EventChoice)
	}
	b.WriteString(`
Rules: cash_change must account for the burn rate shown above. dev_progress_change
is 0-40 depending on team_power. Products without an assigned team barely move.
Total users must stay under user_capacity; growth stalls at the ceiling.
Occasionally (about 1 in 4 months) include a random_event with 2-3 options.

Respond with ONLY a JSON object:
{"narrative": "what happened this month", "cash_change": 0, "user_change": 0,
"morale_change": 0, "equity_change": 0,
"product_updates": [{"product_id": "", "dev_progress_change": 0, "quality_change": 0,
"bug_change": 0, "user_change": 0, "revenue_change": 0, "new_feedback": ""}],
"secretary_report": "one short line from the office, or empty",
"random_event": null,
"skill_xp_earned": {"management": 0, "tech": 0, "charisma": 0}}`)
	return b.String()
}

func pitchPrompt(g *game.GameState, round string) string {
	return fmt.Sprintf(`You are a venture capital partner hearing a %q funding pitch.
Company state:
%s

Judge the pitch on traction, product stage, morale, remaining equity, and the
founder's charisma skill. Concept-stage companies asking for a late round
(Series A or beyond) get rejected. Weak companies get rejected with pointed
feedback. The valuation is pre-money.

Respond with ONLY a JSON object:
{"accepted": false, "investor_name": "a fictional VC firm", "feedback": "2 sentences",
"valuation": 0, "investment": 0, "equity_demanded": 0}`, round, digest(g))
}

func candidatesPrompt(g *game.GameState, count int, jobDesc string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a recruiter for a startup business simulation.
Company state:
%s

Generate %d distinct job candidates relevant to this company's gaps. Roles must be
one of: Developer, Designer, Marketer, Sales, Manager, Secretary, Tester. Levels:
Junior, Senior, Lead, Expert. Salary is per month; hire_cost is the signing fee.
`, digest(g), count)
	if strings.TrimSpace(jobDesc) != "" {
		fmt.Fprintf(&b, "The job posting reads: %q. Candidates should fit it.\n", jobDesc)
	}
	b.WriteString(`
Respond with ONLY a JSON object:
{"candidates": [{"name": "", "role": "Developer", "level": "Junior", "skill": 50,
"specific_skills": [""], "salary": 1500, "hire_cost": 1500, "bio": "",
"match_analysis": "", "quirk": "", "education": "", "experience_years": 2,
"interview_notes": ""}]}`)
	return b.String()
}
