package game

import (
	"errors"
	"fmt"
	"strings"
)

const (
	InitialEquity    = 100.0
	InitialQuality   = 50
	InitialMarketFit = 50

	maxActiveFeedback = 5
)

var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrCapacityExceeded     = errors.New("office capacity exceeded")
	ErrInvalidAction        = errors.New("invalid action")
	ErrBusy                 = errors.New("turn resolution already in flight")
	ErrGameNotFound         = errors.New("game not found")
	ErrGameOver             = errors.New("game is over")
	ErrDuplicateIdempotency = errors.New("duplicate idempotency key")
)

// GameOverBankrupt is the fixed reason recorded when the bankruptcy
// threshold is crossed.
const GameOverBankrupt = "Bankrupt: debt exceeded $10k."

// traitVocabulary is the fixed pool random hire traits are drawn from.
var traitVocabulary = []string{
	"Diligent",
	"Lazy",
	"Loyal",
	"Thin-skinned",
	"Ambitious",
	"Sociable",
	"Eccentric",
}

var blockedNameFragments = []string{
	"admin",
	"mod",
	"support",
}

// initialFacilities returns fresh copies of the starting facilities so
// states never share slices.
func initialFacilities() []Facility {
	return []Facility{
		{
			ID:              "office",
			Name:            "Home Office / Garage",
			Level:           1,
			MaxLevel:        5,
			Description:     "Cramped workspace, cheap to run.",
			CostToUpgrade:   5_000,
			MaintenanceCost: 100,
			Benefit:         "Max 3 Employees",
			StatEffect:      EffectMaxEmployees,
			Value:           3,
		},
		{
			ID:              "server",
			Name:            "Shared Hosting",
			Level:           1,
			MaxLevel:        5,
			Description:     "Budget servers, prone to falling over under load.",
			CostToUpgrade:   2_000,
			MaintenanceCost: 50,
			Benefit:         "Max 1,000 Users",
			StatEffect:      EffectMaxUsers,
			Value:           1_000,
		},
	}
}

func newProduct(id, name, desc string) Product {
	return Product{
		ID:                  id,
		Name:                name,
		Description:         desc,
		Stage:               StageConcept,
		DevelopmentProgress: 0,
		Quality:             InitialQuality,
		MarketFit:           InitialMarketFit,
		ActiveFeedback:      []string{},
	}
}

// NewGameState builds a SETUP-stage aggregate with the initial product and
// facilities. The story init (market context, competitor, PLAYING stage) is
// applied separately once the oracle has answered.
func NewGameState(id, companyName string, industry Industry, productID, productName, productDesc string) *GameState {
	return &GameState{
		ID:          id,
		CompanyName: companyName,
		Industry:    industry,
		Cash:        InitialCash,
		Morale:      InitialMorale,
		Equity:      InitialEquity,
		Turn:        1,
		Employees:   []Employee{},
		Candidates:  []Candidate{},
		Products:    []Product{newProduct(productID, productName, productDesc)},
		Facilities:  initialFacilities(),
		Skills:      PlayerSkills{Management: 1, Tech: 1, Charisma: 1},
		History:     []TurnOutcome{},
		Stage:       StageSetup,
	}
}

// BurnRate is the recurring per-turn cost before revenue: salaries plus
// facility maintenance. Recomputed on demand, never cached.
func BurnRate(g *GameState) int {
	total := 0
	for _, e := range g.Employees {
		total += e.Salary
	}
	for _, f := range g.Facilities {
		total += f.MaintenanceCost
	}
	return total
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ValidateCompanyName(name string) error {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return fmt.Errorf("%w: company name is required", ErrInvalidAction)
	}
	if len(clean) > 64 {
		return fmt.Errorf("%w: company name too long (max 64 chars)", ErrInvalidAction)
	}
	lower := strings.ToLower(clean)
	for _, fragment := range blockedNameFragments {
		if strings.Contains(lower, fragment) {
			return fmt.Errorf("%w: company name contains blocked content", ErrInvalidAction)
		}
	}
	return nil
}
