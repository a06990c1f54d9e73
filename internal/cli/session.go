package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tycoon/internal/game"
)

// Session pins the CLI to one running game so subcommands don't need the
// id repeated.
type Session struct {
	GameID      string `json:"game_id"`
	CompanyName string `json:"company_name"`
}

func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".tycoon")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func sessionPath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

func SaveSession(s Session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o600)
}

func LoadSession() (Session, error) {
	path, err := sessionPath()
	if err != nil {
		return Session{}, err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(s.GameID) == "" {
		return Session{}, fmt.Errorf("no active game in session; run 'tyc new' or 'tyc switch'")
	}
	return s, nil
}

func ClearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}

func draftPath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "draft.json"), nil
}

// SaveDraft stores partially composed turn decisions so the player can set
// focus areas across several invocations before ending the month.
func SaveDraft(d game.Decisions) error {
	path, err := draftPath()
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o600)
}

// LoadDraft returns the pending decisions, or the zero value when none are
// drafted.
func LoadDraft() (game.Decisions, error) {
	path, err := draftPath()
	if err != nil {
		return game.Decisions{}, err
	}
	body, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return game.Decisions{}, nil
	}
	if err != nil {
		return game.Decisions{}, err
	}
	var d game.Decisions
	if err := json.Unmarshal(body, &d); err != nil {
		return game.Decisions{}, err
	}
	return d, nil
}

func ClearDraft() error {
	path, err := draftPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}
