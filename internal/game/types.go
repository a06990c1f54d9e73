package game

// GameStage is the session-level state. It moves SETUP -> PLAYING once at
// game start, and PLAYING -> GAME_OVER or VICTORY once, decided only by the
// turn resolver.
type GameStage string

const (
	StageSetup    GameStage = "SETUP"
	StagePlaying  GameStage = "PLAYING"
	StageGameOver GameStage = "GAME_OVER"
	StageVictory  GameStage = "VICTORY"
)

type Industry string

const (
	IndustryTech   Industry = "Technology (SaaS)"
	IndustryHealth Industry = "Health & BioTech"
	IndustryAI     Industry = "Artificial Intelligence"
	IndustryEdTech Industry = "Education Tech"
	IndustryFMCG   Industry = "Consumer Goods (FMCG)"
)

var Industries = []Industry{IndustryTech, IndustryHealth, IndustryAI, IndustryEdTech, IndustryFMCG}

func ValidIndustry(v Industry) bool {
	for _, i := range Industries {
		if i == v {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleDeveloper Role = "Developer"
	RoleDesigner  Role = "Designer"
	RoleMarketer  Role = "Marketer"
	RoleSales     Role = "Sales"
	RoleManager   Role = "Manager"
	RoleSecretary Role = "Secretary"
	RoleTester    Role = "Tester"
)

var Roles = []Role{RoleDeveloper, RoleDesigner, RoleMarketer, RoleSales, RoleManager, RoleSecretary, RoleTester}

func ValidRole(v Role) bool {
	for _, r := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

type Level string

const (
	LevelJunior Level = "Junior"
	LevelSenior Level = "Senior"
	LevelLead   Level = "Lead"
	LevelExpert Level = "Expert"
)

// ProductStage is the product-lifecycle state. Strict forward order; MATURE
// is reserved, no transition into it is defined by the lifecycle rule.
type ProductStage string

const (
	StageConcept ProductStage = "Concept"
	StageMVP     ProductStage = "MVP Development"
	StageAlpha   ProductStage = "Alpha Testing"
	StageRelease ProductStage = "Market Release"
	StageGrowth  ProductStage = "Scaling"
	StageMature  ProductStage = "Mature"
)

// stageOrder backs the lifecycle machine and the monotonicity checks.
var stageOrder = map[ProductStage]int{
	StageConcept: 0,
	StageMVP:     1,
	StageAlpha:   2,
	StageRelease: 3,
	StageGrowth:  4,
	StageMature:  5,
}

// FacilityEffect selects what a facility's value means.
type FacilityEffect string

const (
	EffectMaxEmployees FacilityEffect = "max_employees"
	EffectMaxUsers     FacilityEffect = "max_users"
	EffectEfficiency   FacilityEffect = "efficiency"
)

type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Stage       ProductStage `json:"stage"`

	// DevelopmentProgress tracks progress toward the next stage, 0-100,
	// reset by the lifecycle machine on transition.
	DevelopmentProgress int `json:"development_progress"`

	Quality   int `json:"quality"`    // 0-100
	MarketFit int `json:"market_fit"` // 0-100
	Bugs      int `json:"bugs"`       // >= 0
	Users     int `json:"users"`      // >= 0
	Revenue   int `json:"revenue"`    // per-turn, >= 0

	// ActiveFeedback holds at most maxActiveFeedback entries, newest first.
	ActiveFeedback []string `json:"active_feedback"`
}

type Employee struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Role           Role     `json:"role"`
	Level          Level    `json:"level"`
	Skill          int      `json:"skill"` // 0-100
	SpecificSkills []string `json:"specific_skills"`
	Salary         int      `json:"salary"`
	Morale         int      `json:"morale"`  // 0-100
	Stress         float64  `json:"stress"`  // 0-100
	Loyalty        int      `json:"loyalty"` // 0-100
	Quirk          string   `json:"quirk,omitempty"`
	Education      string   `json:"education,omitempty"`
	Background     string   `json:"background,omitempty"`
	Traits         []string `json:"traits"`

	// AssignedProductID is empty when the employee is on the bench. At most
	// one product per employee.
	AssignedProductID string `json:"assigned_product_id,omitempty"`
}

type Candidate struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Role            Role     `json:"role"`
	Level           Level    `json:"level"`
	Skill           int      `json:"skill"`
	SpecificSkills  []string `json:"specific_skills"`
	Salary          int      `json:"salary"`
	HireCost        int      `json:"hire_cost"`
	Bio             string   `json:"bio"`
	MatchAnalysis   string   `json:"match_analysis"`
	Quirk           string   `json:"quirk"`
	Education       string   `json:"education"`
	ExperienceYears int      `json:"experience_years"`
	InterviewNotes  string   `json:"interview_notes"`
}

type Facility struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Level           int            `json:"level"`
	MaxLevel        int            `json:"max_level"`
	Description     string         `json:"description"`
	CostToUpgrade   int            `json:"cost_to_upgrade"`
	MaintenanceCost int            `json:"maintenance_cost"`
	Benefit         string         `json:"benefit"`
	StatEffect      FacilityEffect `json:"stat_effect"`
	Value           int            `json:"value"`
}

type PlayerSkills struct {
	Management int `json:"management"`
	Tech       int `json:"tech"`
	Charisma   int `json:"charisma"`
}

// Decisions is the player's input for one turn.
type Decisions struct {
	RDFocus        string `json:"rd_focus"`
	MarketingFocus string `json:"marketing_focus"`
	StrategyNote   string `json:"strategy_note"`
	EventChoice    string `json:"event_choice,omitempty"`
}

type EventOption struct {
	Label string `json:"label"`
	Risk  string `json:"risk"`
}

type InteractiveEvent struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        string        `json:"type"` // crisis | opportunity | dilemma
	Options     []EventOption `json:"options"`
}

type ProductUpdate struct {
	ProductID         string `json:"product_id"`
	DevProgressChange int    `json:"dev_progress_change"`
	QualityChange     int    `json:"quality_change"`
	BugChange         int    `json:"bug_change"`
	UserChange        int    `json:"user_change"`
	RevenueChange     int    `json:"revenue_change"`
	NewFeedback       string `json:"new_feedback,omitempty"`
}

type SkillXP struct {
	Management int `json:"management,omitempty"`
	Tech       int `json:"tech,omitempty"`
	Charisma   int `json:"charisma,omitempty"`
}

// TurnOutcome is one history entry. Immutable once appended.
type TurnOutcome struct {
	Narrative       string            `json:"narrative"`
	CashChange      int               `json:"cash_change"`
	UserChange      int               `json:"user_change"`
	MoraleChange    int               `json:"morale_change"`
	EquityChange    float64           `json:"equity_change"`
	ProductUpdates  []ProductUpdate   `json:"product_updates"`
	SecretaryReport string            `json:"secretary_report,omitempty"`
	RandomEvent     *InteractiveEvent `json:"random_event,omitempty"`
	SkillXPEarned   *SkillXP          `json:"skill_xp_earned,omitempty"`
	Decisions       *Decisions        `json:"decisions,omitempty"`
}

// GameState is the root aggregate. One live instance per running game,
// owned by the session controller; resolvers mutate it only while holding
// the session.
type GameState struct {
	ID          string   `json:"id"`
	CompanyName string   `json:"company_name"`
	Industry    Industry `json:"industry"`

	Cash        int     `json:"cash"` // may go negative
	Users       int     `json:"users"`
	Morale      int     `json:"morale"`       // 0-100
	MarketShare float64 `json:"market_share"` // percent
	Equity      float64 `json:"equity"`       // 0-100, only funding lowers it
	Turn        int     `json:"turn"`

	Employees  []Employee   `json:"employees"`
	Candidates []Candidate  `json:"candidates"`
	Products   []Product    `json:"products"`
	Facilities []Facility   `json:"facilities"`
	Skills     PlayerSkills `json:"player_skills"`

	// History is append-only, one entry per resolved turn or pitch.
	History []TurnOutcome `json:"history"`

	Stage          GameStage         `json:"stage"`
	GameOverReason string            `json:"game_over_reason,omitempty"`
	MarketContext  string            `json:"market_context,omitempty"`
	CompetitorName string            `json:"competitor_name,omitempty"`
	PendingEvent   *InteractiveEvent `json:"pending_event,omitempty"`
	EventChoice    string            `json:"event_choice,omitempty"`
}

// Product returns the product with the given id, or nil.
func (g *GameState) Product(id string) *Product {
	for i := range g.Products {
		if g.Products[i].ID == id {
			return &g.Products[i]
		}
	}
	return nil
}

// Employee returns the employee with the given id, or nil.
func (g *GameState) Employee(id string) *Employee {
	for i := range g.Employees {
		if g.Employees[i].ID == id {
			return &g.Employees[i]
		}
	}
	return nil
}

// Clone deep-copies the aggregate so snapshots can outlive the session
// lock. Every slice and pointer field is duplicated.
func (g *GameState) Clone() GameState {
	out := *g
	out.Employees = cloneEmployees(g.Employees)
	out.Candidates = append([]Candidate(nil), g.Candidates...)
	out.Products = cloneProducts(g.Products)
	out.Facilities = append([]Facility(nil), g.Facilities...)
	out.History = cloneHistory(g.History)
	if g.PendingEvent != nil {
		ev := *g.PendingEvent
		ev.Options = append([]EventOption(nil), g.PendingEvent.Options...)
		out.PendingEvent = &ev
	}
	return out
}

func cloneEmployees(in []Employee) []Employee {
	out := append([]Employee(nil), in...)
	for i := range out {
		out[i].SpecificSkills = append([]string(nil), in[i].SpecificSkills...)
		out[i].Traits = append([]string(nil), in[i].Traits...)
	}
	return out
}

func cloneProducts(in []Product) []Product {
	out := append([]Product(nil), in...)
	for i := range out {
		out[i].ActiveFeedback = append([]string(nil), in[i].ActiveFeedback...)
	}
	return out
}

func cloneHistory(in []TurnOutcome) []TurnOutcome {
	out := append([]TurnOutcome(nil), in...)
	for i := range out {
		out[i].ProductUpdates = append([]ProductUpdate(nil), in[i].ProductUpdates...)
		if in[i].RandomEvent != nil {
			ev := *in[i].RandomEvent
			ev.Options = append([]EventOption(nil), in[i].RandomEvent.Options...)
			out[i].RandomEvent = &ev
		}
		if in[i].SkillXPEarned != nil {
			xp := *in[i].SkillXPEarned
			out[i].SkillXPEarned = &xp
		}
		if in[i].Decisions != nil {
			d := *in[i].Decisions
			out[i].Decisions = &d
		}
	}
	return out
}

// Facility returns the facility with the given id, or nil.
func (g *GameState) Facility(id string) *Facility {
	for i := range g.Facilities {
		if g.Facilities[i].ID == id {
			return &g.Facilities[i]
		}
	}
	return nil
}
