package oracle

import (
	"context"
	_ "embed"
	"fmt"
	mathrand "math/rand"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"tycoon/internal/game"
)

//go:embed content.yaml
var contentYAML []byte

type contentTables struct {
	Narratives       []string                `yaml:"narratives"`
	SecretaryReports []string                `yaml:"secretary_reports"`
	Feedback         []string                `yaml:"feedback"`
	Events           []game.InteractiveEvent `yaml:"events"`
	Investors        []string                `yaml:"investors"`
	CandidateNames   []string                `yaml:"candidate_names"`
	Quirks           []string                `yaml:"quirks"`
	Educations       []string                `yaml:"educations"`
}

func loadContent() (contentTables, error) {
	var t contentTables
	if err := yaml.Unmarshal(contentYAML, &t); err != nil {
		return contentTables{}, fmt.Errorf("parse oracle content: %w", err)
	}
	return t, nil
}

// Scripted is a fully local oracle: no network, seeded randomness, content
// drawn from embedded tables. It backs offline play and tests.
type Scripted struct {
	mu      sync.Mutex
	rng     *mathrand.Rand
	content contentTables
}

func NewScripted(seed int64) (*Scripted, error) {
	tables, err := loadContent()
	if err != nil {
		return nil, err
	}
	return &Scripted{
		rng:     mathrand.New(mathrand.NewSource(seed)),
		content: tables,
	}, nil
}

func (s *Scripted) InitializeStory(_ context.Context, g *game.GameState) (game.StoryInit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.StoryInit{
		Narrative: fmt.Sprintf("%s launches out of a spare room, chasing the %s market with more ambition than budget.",
			g.CompanyName, g.Industry),
		MarketContext:  "Investors are selective this quarter; users reward polish over promises.",
		CompetitorName: s.pick(s.content.Investors) + " portfolio company 'Vantage'",
	}, nil
}

func (s *Scripted) ProcessTurn(_ context.Context, g *game.GameState, d game.Decisions) (game.TurnOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := game.TurnOutcome{
		Narrative:      s.pick(s.content.Narratives),
		ProductUpdates: []game.ProductUpdate{},
	}

	// Server capacity caps user growth; upgrades raise the ceiling.
	headroom := game.UserCapacity(g) - g.Users
	if headroom < 0 {
		headroom = 0
	}

	revenue := 0
	for _, p := range g.Products {
		power := game.TeamPower(g, p.ID)
		dev := power[game.RoleDeveloper]/10 + s.rng.Intn(6)
		if d.RDFocus != "" {
			dev += 3
		}
		quality := power[game.RoleTester]/20 - s.rng.Intn(3)
		users := 0
		rev := 0
		if game.StageRank(p.Stage) >= game.StageRank(game.StageRelease) {
			users = (power[game.RoleMarketer]+power[game.RoleSales])/5 + s.rng.Intn(50)
			if d.MarketingFocus != "" {
				users += 25
			}
			if users > headroom {
				users = headroom
			}
			headroom -= users
			rev = (p.Users + users) / 10
		}
		upd := game.ProductUpdate{
			ProductID:         p.ID,
			DevProgressChange: dev,
			QualityChange:     quality,
			BugChange:         s.rng.Intn(4) - 1,
			UserChange:        users,
			RevenueChange:     rev - p.Revenue,
		}
		if s.rng.Float64() < 0.3 {
			upd.NewFeedback = s.pick(s.content.Feedback)
		}
		out.ProductUpdates = append(out.ProductUpdates, upd)
		revenue += rev
	}

	out.CashChange = revenue - game.BurnRate(g)
	out.MoraleChange = s.rng.Intn(7) - 3
	out.SecretaryReport = s.pick(s.content.SecretaryReports)
	out.SkillXPEarned = &game.SkillXP{Management: 1, Tech: 1}

	if g.PendingEvent == nil && s.rng.Float64() < 0.25 && len(s.content.Events) > 0 {
		ev := s.content.Events[s.rng.Intn(len(s.content.Events))]
		out.RandomEvent = &ev
	}
	return out, nil
}

func (s *Scripted) EvaluatePitch(_ context.Context, g *game.GameState, round string) (game.PitchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	score := float64(g.Users)/100 + float64(g.Morale)/10 + float64(g.Skills.Charisma)*2
	for _, p := range g.Products {
		score += float64(game.StageRank(p.Stage)) * 3
	}
	investor := s.pick(s.content.Investors)
	if score < roundBar(round) {
		return game.PitchResult{
			Accepted:     false,
			InvestorName: investor,
			Feedback:     fmt.Sprintf("Too early for a %s round. Come back with traction, not a roadmap.", round),
		}, nil
	}
	invest := 10_000 + s.rng.Intn(40_000)
	equity := 5 + float64(s.rng.Intn(15))
	return game.PitchResult{
		Accepted:       true,
		InvestorName:   investor,
		Feedback:       "The numbers are thin but the trajectory is right.",
		Valuation:      int(float64(invest) * (100 - equity) / equity),
		Investment:     invest,
		EquityDemanded: equity,
	}, nil
}

// roundBar is the score an investor wants to see before writing a check.
// Later rounds demand real traction.
func roundBar(round string) float64 {
	switch strings.ToLower(strings.TrimSpace(round)) {
	case "series a":
		return 30
	case "series b":
		return 45
	default:
		return 15
	}
}

func (s *Scripted) GenerateCandidates(_ context.Context, g *game.GameState, count int, jobDesc string) ([]game.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles := neededRoles(g)
	match := func(role game.Role) string {
		if strings.TrimSpace(jobDesc) != "" {
			return fmt.Sprintf("Responded to the posting %q.", jobDesc)
		}
		return fmt.Sprintf("Would shore up the %s gap.", role)
	}
	out := make([]game.Candidate, 0, count)
	for i := 0; i < count; i++ {
		role := roles[s.rng.Intn(len(roles))]
		skill := 30 + s.rng.Intn(60)
		out = append(out, game.Candidate{
			Name:            s.pick(s.content.CandidateNames),
			Role:            role,
			Level:           levelForSkill(skill),
			Skill:           skill,
			SpecificSkills:  []string{fmt.Sprintf("%s fundamentals", role)},
			Salary:          800 + skill*20,
			HireCost:        800 + skill*20,
			Bio:             fmt.Sprintf("A %s with a point to prove.", role),
			MatchAnalysis:   match(role),
			Quirk:           s.pick(s.content.Quirks),
			Education:       s.pick(s.content.Educations),
			ExperienceYears: 1 + skill/20,
		})
	}
	return out, nil
}

// neededRoles biases generation toward roles the roster lacks.
func neededRoles(g *game.GameState) []game.Role {
	have := make(map[game.Role]bool)
	for _, e := range g.Employees {
		have[e.Role] = true
	}
	var missing []game.Role
	for _, r := range game.Roles {
		if !have[r] {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		return game.Roles
	}
	return missing
}

func levelForSkill(skill int) game.Level {
	switch {
	case skill >= 85:
		return game.LevelExpert
	case skill >= 70:
		return game.LevelLead
	case skill >= 50:
		return game.LevelSenior
	default:
		return game.LevelJunior
	}
}

func (s *Scripted) pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[s.rng.Intn(len(list))]
}
