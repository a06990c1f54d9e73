package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tycoon/internal/config"
	"tycoon/internal/game"
	"tycoon/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type Server struct {
	cfg   config.APIConfig
	log   *slog.Logger
	games *game.Manager
	store *store.Store
	mux   *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, games *game.Manager, st *store.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:   cfg,
		log:   logger,
		games: games,
		store: st,
		mux:   chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/games", s.handleCreateGame)
		r.Get("/games", s.handleListGames)
		r.Get("/games/{id}", s.handleGameState)
		r.Get("/games/{id}/history", s.handleHistory)

		r.Post("/games/{id}/turn", s.handleTurn)
		r.Post("/games/{id}/pitch", s.handlePitch)
		r.Post("/games/{id}/event-choice", s.handleEventChoice)

		r.Post("/games/{id}/recruit", s.handleRecruit)
		r.Post("/games/{id}/hire", s.handleHire)
		r.Post("/games/{id}/fire", s.handleFire)
		r.Post("/games/{id}/assign", s.handleAssign)

		r.Post("/games/{id}/products", s.handleCreateProduct)
		r.Post("/games/{id}/facilities/{facility_id}/upgrade", s.handleUpgradeFacility)
	})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CompanyName        string `json:"company_name"`
		Industry           string `json:"industry"`
		ProductName        string `json:"product_name"`
		ProductDescription string `json:"product_description"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := s.games.CreateGame(r.Context(), strings.TrimSpace(in.CompanyName),
		game.Industry(in.Industry), strings.TrimSpace(in.ProductName), in.ProductDescription)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": rows})
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	out, err := s.games.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": out})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var in game.Decisions
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.games.ResolveTurn(r.Context(), chi.URLParam(r, "id"), idempotencyKey(r), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePitch(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Round string `json:"round"`
	}
	// An empty body means a default-round pitch.
	if err := decodeJSON(r, &in); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.games.Pitch(r.Context(), chi.URLParam(r, "id"), idempotencyKey(r), in.Round)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEventChoice(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Choice string `json:"choice"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.games.ChooseEvent(r.Context(), chi.URLParam(r, "id"), in.Choice); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRecruit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Count          int    `json:"count"`
		JobDescription string `json:"job_description"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.games.Recruit(r.Context(), chi.URLParam(r, "id"), in.Count, in.JobDescription)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": out})
}

func (s *Server) handleHire(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CandidateID string `json:"candidate_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	emp, err := s.games.Hire(r.Context(), chi.URLParam(r, "id"), in.CandidateID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, emp)
}

func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	var in struct {
		EmployeeID string `json:"employee_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.games.Fire(r.Context(), chi.URLParam(r, "id"), in.EmployeeID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var in struct {
		EmployeeID string `json:"employee_id"`
		ProductID  string `json:"product_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.games.Assign(r.Context(), chi.URLParam(r, "id"), in.EmployeeID, in.ProductID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.games.CreateProduct(r.Context(), chi.URLParam(r, "id"), in.Name, in.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpgradeFacility(w http.ResponseWriter, r *http.Request) {
	f, err := s.games.UpgradeFacility(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "facility_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrBusy), errors.Is(err, game.ErrDuplicateIdempotency):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrCapacityExceeded):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds), errors.Is(err, game.ErrInvalidAction), errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key != "" {
		return key
	}
	return uuid.NewString()
}
