package config

import (
	"os"
	"path/filepath"
	"testing"

	"tycoon/internal/game"
)

func TestLoadBalanceCustomPathOverridesPartially(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	if err := os.WriteFile(path, []byte("initial_cash: 25000\nrecruit_posting_cost: 100\n"), 0o644); err != nil {
		t.Fatalf("write balance file: %v", err)
	}

	b, err := LoadBalance(path)
	if err != nil {
		t.Fatalf("load balance: %v", err)
	}
	if b.InitialCash != 25_000 || b.RecruitPostingCost != 100 {
		t.Fatalf("overrides not applied: %+v", b)
	}
	// Keys absent from the file keep their defaults.
	def := game.DefaultBalance()
	if b.InitialMorale != def.InitialMorale || b.BankruptcyCash != def.BankruptcyCash {
		t.Fatalf("partial file clobbered defaults: %+v", b)
	}
}

func TestLoadBalanceMissingCustomPathFails(t *testing.T) {
	if _, err := LoadBalance(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("an explicitly named file that does not exist must fail loudly")
	}
}

func TestLoadBalanceMalformedCustomPathFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	if err := os.WriteFile(path, []byte("initial_cash: [not a number"), 0o644); err != nil {
		t.Fatalf("write balance file: %v", err)
	}
	if _, err := LoadBalance(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadBalanceFallsBackToEmbeddedDefault(t *testing.T) {
	// Point HOME somewhere empty so no user override is found.
	t.Setenv("HOME", t.TempDir())
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	b, err := LoadBalance("")
	if err != nil {
		t.Fatalf("load balance: %v", err)
	}
	if b != game.DefaultBalance() {
		t.Fatalf("embedded default diverged from DefaultBalance: %+v", b)
	}
}
