package game

// Balance-file tunables. Defaults live in DefaultBalance; cmd/tycoon-api
// overrides them from a loaded balance file before any game state exists.
var (
	InitialCash   int
	InitialMorale int

	// BankruptcyCash is the game-over threshold: the game ends when cash
	// drops strictly below it after a resolved turn.
	BankruptcyCash int

	// RecruitPostingCost is debited per recruitment batch, regardless of
	// how many candidates come back.
	RecruitPostingCost int

	FiringMoralePenalty int
	PitchMoraleBonus    int
	PitchMoralePenalty  int

	// FallbackMoralePenalty applies when the oracle is unreachable and the
	// turn resolves in degraded mode.
	FallbackMoralePenalty int
)

func init() {
	ApplyBalance(DefaultBalance())
}

// Balance holds the gameplay tunables a balance file can override.
type Balance struct {
	InitialCash           int `yaml:"initial_cash"`
	InitialMorale         int `yaml:"initial_morale"`
	BankruptcyCash        int `yaml:"bankruptcy_cash"`
	RecruitPostingCost    int `yaml:"recruit_posting_cost"`
	FiringMoralePenalty   int `yaml:"firing_morale_penalty"`
	PitchMoraleBonus      int `yaml:"pitch_morale_bonus"`
	PitchMoralePenalty    int `yaml:"pitch_morale_penalty"`
	FallbackMoralePenalty int `yaml:"fallback_morale_penalty"`
}

func DefaultBalance() Balance {
	return Balance{
		InitialCash:           10_000,
		InitialMorale:         80,
		BankruptcyCash:        -10_000,
		RecruitPostingCost:    500,
		FiringMoralePenalty:   10,
		PitchMoraleBonus:      10,
		PitchMoralePenalty:    5,
		FallbackMoralePenalty: 2,
	}
}

// ApplyBalance installs a loaded balance. Call once at startup.
func ApplyBalance(b Balance) {
	InitialCash = b.InitialCash
	InitialMorale = b.InitialMorale
	BankruptcyCash = b.BankruptcyCash
	RecruitPostingCost = b.RecruitPostingCost
	FiringMoralePenalty = b.FiringMoralePenalty
	PitchMoraleBonus = b.PitchMoraleBonus
	PitchMoralePenalty = b.PitchMoralePenalty
	FallbackMoralePenalty = b.FallbackMoralePenalty
}
