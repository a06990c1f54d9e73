package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StoryInit is the oracle's opening scene for a new game.
type StoryInit struct {
	Narrative      string `json:"narrative"`
	MarketContext  string `json:"market_context"`
	CompetitorName string `json:"competitor_name"`
}

// Oracle is the external narrative engine. Implementations live in
// internal/oracle; every method may fail and callers must be prepared to
// degrade.
type Oracle interface {
	InitializeStory(ctx context.Context, g *GameState) (StoryInit, error)
	ProcessTurn(ctx context.Context, g *GameState, d Decisions) (TurnOutcome, error)
	EvaluatePitch(ctx context.Context, g *GameState, round string) (PitchResult, error)
	GenerateCandidates(ctx context.Context, g *GameState, count int, jobDesc string) ([]Candidate, error)
}

// Store persists snapshots. Saves are write-behind: a failed save is logged
// and the in-memory state stays authoritative.
type Store interface {
	Save(ctx context.Context, g *GameState) error
	Load(ctx context.Context, id string) (*GameState, error)
}

// session wraps one live aggregate. The mutex serializes every mutation;
// busy additionally single-flights turn resolution so staffing actions can
// still land while the oracle is thinking.
type session struct {
	mu    sync.Mutex
	state *GameState
	busy  bool
	seen  map[string]time.Time
}

// Manager owns all live sessions. One per process.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	rngMu sync.Mutex
	rng   *mathrand.Rand

	oracle Oracle
	store  Store
	log    *slog.Logger
}

func NewManager(oracle Oracle, store Store, log *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		rng:      mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		oracle:   oracle,
		store:    store,
		log:      log,
	}
}

// CreateGame validates the founding input, asks the oracle for the opening
// scene, and registers a PLAYING session. When the oracle is down the game
// still starts, with a generic market backdrop.
func (m *Manager) CreateGame(ctx context.Context, companyName string, industry Industry, productName, productDesc string) (GameState, error) {
	if err := ValidateCompanyName(companyName); err != nil {
		return GameState{}, err
	}
	if !ValidIndustry(industry) {
		return GameState{}, fmt.Errorf("%w: unknown industry %q", ErrInvalidAction, industry)
	}
	if productName == "" {
		return GameState{}, fmt.Errorf("%w: product name is required", ErrInvalidAction)
	}

	g := NewGameState(uuid.NewString(), companyName, industry, uuid.NewString(), productName, productDesc)

	init, err := m.oracle.InitializeStory(ctx, g)
	if err != nil {
		m.log.Warn("story init degraded", "game_id", g.ID, "error", err)
		init = StoryInit{
			Narrative:      fmt.Sprintf("%s opens its doors in a crowded market.", companyName),
			MarketContext:  "The market is cautious but curious about newcomers.",
			CompetitorName: "Incumbent Corp",
		}
	}
	g.MarketContext = init.MarketContext
	g.CompetitorName = init.CompetitorName
	g.Stage = StagePlaying
	g.History = append(g.History, TurnOutcome{
		Narrative:      init.Narrative,
		ProductUpdates: []ProductUpdate{},
	})

	m.mu.Lock()
	m.sessions[g.ID] = &session{state: g, seen: make(map[string]time.Time)}
	m.mu.Unlock()

	m.save(ctx, g)
	return g.Clone(), nil
}

// get returns the live session, lazily rehydrating from the store.
func (m *Manager) get(ctx context.Context, id string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	if m.store == nil {
		return nil, ErrGameNotFound
	}
	g, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	s := &session{state: g, seen: make(map[string]time.Time)}
	m.sessions[id] = s
	return s, nil
}

// Snapshot returns a deep copy safe to hand to encoders.
func (m *Manager) Snapshot(ctx context.Context, id string) (GameState, error) {
	s, err := m.get(ctx, id)
	if err != nil {
		return GameState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone(), nil
}

// History returns the outcome timeline, oldest first.
func (m *Manager) History(ctx context.Context, id string) ([]TurnOutcome, error) {
	s, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TurnOutcome, len(s.state.History))
	copy(out, s.state.History)
	return out, nil
}

// ResolveTurn runs one turn against the oracle. The session stays unlocked
// during the oracle await so staffing actions can interleave; the outcome
// is applied to whatever the state looks like when the answer arrives. A
// second in-flight resolution is refused, as is a replayed idempotency key.
func (m *Manager) ResolveTurn(ctx context.Context, id, idemKey string, d Decisions) (TurnOutcome, error) {
	s, err := m.get(ctx, id)
	if err != nil {
		return TurnOutcome{}, err
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return TurnOutcome{}, ErrBusy
	}
	if _, dup := s.seen[idemKey]; dup {
		s.mu.Unlock()
		return TurnOutcome{}, ErrDuplicateIdempotency
	}
	if d.EventChoice == "" {
		d.EventChoice = s.state.EventChoice
	}
	if err := ValidateDecisions(s.state, d); err != nil {
		s.mu.Unlock()
		return TurnOutcome{}, err
	}
	s.busy = true
	snapshot := s.state.Clone()
	s.mu.Unlock()

	out, oracleErr := m.oracle.ProcessTurn(ctx, &snapshot, d)

	s.mu.Lock()
	defer func() {
		s.busy = false
		s.mu.Unlock()
	}()

	if oracleErr != nil {
		m.log.Warn("turn resolved in degraded mode", "game_id", id, "turn", s.state.Turn, "error", oracleErr)
		out = FallbackOutcome(s.state)
	}
	dd := d
	out.Decisions = &dd
	ApplyOutcome(s.state, out)
	s.seen[idemKey] = time.Now()
	m.save(ctx, s.state)
	return out, nil
}

// Pitch runs a funding round for the named round label. An unreachable
// investor degrades to a flat rejection; like turns, the round always
// resolves.
func (m *Manager) Pitch(ctx context.Context, id, idemKey, round string) (PitchResult, error) {
	s, err := m.get(ctx, id)
	if err != nil {
		return PitchResult{}, err
	}
	round = strings.TrimSpace(round)
	if round == "" {
		round = "Seed"
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return PitchResult{}, ErrBusy
	}
	if _, dup := s.seen[idemKey]; dup {
		s.mu.Unlock()
		return PitchResult{}, ErrDuplicateIdempotency
	}
	if s.state.Stage != StagePlaying {
		s.mu.Unlock()
		return PitchResult{}, fmt.Errorf("%w: game is in stage %s", ErrGameOver, s.state.Stage)
	}
	s.busy = true
	snapshot := s.state.Clone()
	s.mu.Unlock()

	res, oracleErr := m.oracle.EvaluatePitch(ctx, &snapshot, round)

	s.mu.Lock()
	defer func() {
		s.busy = false
		s.mu.Unlock()
	}()

	if oracleErr != nil {
		m.log.Warn("pitch resolved in degraded mode", "game_id", id, "round", round, "error", oracleErr)
		res = FallbackPitch()
	}
	ApplyPitch(s.state, round, res)
	s.seen[idemKey] = time.Now()
	m.save(ctx, s.state)
	return res, nil
}

// Recruit charges the posting fee and replaces the candidate pool with a
// fresh oracle batch for the given job description. The fee is spent
// regardless of what comes back; an unreachable oracle degrades to an
// empty batch.
func (m *Manager) Recruit(ctx context.Context, id string, count int, jobDesc string) ([]Candidate, error) {
	s, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 3
	}

	s.mu.Lock()
	if err := DebitRecruitPosting(s.state); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	batch, oracleErr := m.oracle.GenerateCandidates(ctx, &snapshot, count, jobDesc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if oracleErr != nil {
		m.log.Warn("recruitment resolved in degraded mode", "game_id", id, "error", oracleErr)
		batch = nil
	}
	ReplaceCandidates(s.state, NormalizeCandidates(batch))
	m.save(ctx, s.state)
	out := make([]Candidate, len(s.state.Candidates))
	copy(out, s.state.Candidates)
	return out, nil
}

// Hire signs a candidate from the current pool.
func (m *Manager) Hire(ctx context.Context, id, candidateID string) (Employee, error) {
	s, err := m.get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m.rngMu.Lock()
	emp, herr := Hire(s.state, candidateID, m.rng)
	m.rngMu.Unlock()
	if herr != nil {
		return Employee{}, herr
	}
	m.save(ctx, s.state)
	return emp, nil
}

// Fire lets an employee go.
func (m *Manager) Fire(ctx context.Context, id, employeeID string) error {
	s, err := m.get(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := Fire(s.state, employeeID); err != nil {
		return err
	}
	m.save(ctx, s.state)
	return nil
}

// Assign moves an employee onto a product, or benches them.
func (m *Manager) Assign(ctx context.Context, id, employeeID, productID string) error {
	s, err := m.get(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := Assign(s.state, employeeID, productID); err != nil {
		return err
	}
	m.save(ctx, s.state)
	return nil
}

// CreateProduct starts a new concept-stage product line.
func (m *Manager) CreateProduct(ctx context.Context, id, name, desc string) (Product, error) {
	s, err := m.get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, perr := CreateProduct(s.state, uuid.NewString(), name, desc)
	if perr != nil {
		return Product{}, perr
	}
	m.save(ctx, s.state)
	return p, nil
}

// UpgradeFacility levels a facility up.
func (m *Manager) UpgradeFacility(ctx context.Context, id, facilityID string) (Facility, error) {
	s, err := m.get(ctx, id)
	if err != nil {
		return Facility{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := UpgradeFacility(s.state, facilityID); err != nil {
		return Facility{}, err
	}
	m.save(ctx, s.state)
	return *s.state.Facility(facilityID), nil
}

// ChooseEvent records the player's answer to the pending interactive event.
// The choice itself is resolved by the oracle on the next turn.
func (m *Manager) ChooseEvent(ctx context.Context, id, choice string) error {
	s, err := m.get(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.PendingEvent == nil {
		return fmt.Errorf("%w: no pending event", ErrInvalidAction)
	}
	valid := false
	for _, opt := range s.state.PendingEvent.Options {
		if opt.Label == choice {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %q is not one of the offered options", ErrInvalidAction, choice)
	}
	s.state.EventChoice = choice
	m.save(ctx, s.state)
	return nil
}

func (m *Manager) save(ctx context.Context, g *GameState) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(ctx, g); err != nil {
		m.log.Error("save game failed", "game_id", g.ID, "error", err)
	}
}
