package game

import (
	mathrand "math/rand"
	"testing"
)

func testRand() *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(42))
}

func stateWithCandidate(hireCost int) *GameState {
	g := newTestState()
	g.Candidates = []Candidate{{
		ID:       "c1",
		Name:     "Ada Park",
		Role:     RoleDeveloper,
		Level:    LevelSenior,
		Skill:    70,
		Salary:   2_000,
		HireCost: hireCost,
	}}
	return g
}

func TestHire(t *testing.T) {
	g := stateWithCandidate(2_000)
	emp, err := Hire(g, "c1", testRand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Cash != InitialCash-2_000 {
		t.Fatalf("cash = %d, want %d", g.Cash, InitialCash-2_000)
	}
	if len(g.Candidates) != 0 {
		t.Fatalf("candidate not removed from pool")
	}
	if len(g.Employees) != 1 {
		t.Fatalf("employee not added")
	}
	if emp.Morale < 80 || emp.Morale > 99 {
		t.Fatalf("morale = %d, want 80-99", emp.Morale)
	}
	if emp.Loyalty < 50 || emp.Loyalty > 99 {
		t.Fatalf("loyalty = %d, want 50-99", emp.Loyalty)
	}
	if n := len(emp.Traits); n < 1 || n > 2 {
		t.Fatalf("traits = %v, want 1 or 2", emp.Traits)
	}
	if emp.Stress != 0 {
		t.Fatalf("stress = %.1f, want 0", emp.Stress)
	}
	if emp.AssignedProductID != "" {
		t.Fatalf("new hire should start on the bench")
	}
}

func TestHireRefusals(t *testing.T) {
	g := stateWithCandidate(20_000)
	if _, err := Hire(g, "c1", testRand()); err == nil {
		t.Fatalf("expected insufficient funds")
	}
	if g.Cash != InitialCash || len(g.Employees) != 0 {
		t.Fatalf("refused hire mutated state")
	}

	g = stateWithCandidate(1_000)
	for i := 0; i < OfficeCapacity(g); i++ {
		g.Employees = append(g.Employees, Employee{ID: string(rune('a' + i))})
	}
	if _, err := Hire(g, "c1", testRand()); err == nil {
		t.Fatalf("expected capacity exceeded")
	}

	if _, err := Hire(g, "nope", testRand()); err == nil {
		t.Fatalf("expected unknown candidate to fail")
	}
}

func TestFire(t *testing.T) {
	g := newTestState()
	g.Employees = []Employee{{ID: "e1", Name: "Ada"}, {ID: "e2", Name: "Tom"}}
	if err := Fire(g, "e1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Employees) != 1 || g.Employees[0].ID != "e2" {
		t.Fatalf("wrong employee removed: %+v", g.Employees)
	}
	if g.Morale != InitialMorale-FiringMoralePenalty {
		t.Fatalf("morale = %d, want %d", g.Morale, InitialMorale-FiringMoralePenalty)
	}
	if err := Fire(g, "ghost"); err == nil {
		t.Fatalf("expected unknown employee to fail")
	}
}

func TestAssignExclusivity(t *testing.T) {
	g := newTestState()
	g.Products = append(g.Products, newProduct("p2", "Gadget", ""))
	g.Employees = []Employee{{ID: "e1", Name: "Ada"}}

	if err := Assign(g, "e1", "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Assign(g, "e1", "p2"); err == nil {
		t.Fatalf("expected direct reassignment to fail")
	}
	if err := Assign(g, "e1", ""); err != nil {
		t.Fatalf("benching failed: %v", err)
	}
	if err := Assign(g, "e1", "p2"); err != nil {
		t.Fatalf("reassignment after benching failed: %v", err)
	}
	if err := Assign(g, "e1", "ghost"); err == nil {
		t.Fatalf("expected unknown product to fail")
	}
}

func TestUpgradeFacility(t *testing.T) {
	g := newTestState()
	if err := UpgradeFacility(g, "office"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := g.Facility("office")
	if g.Cash != InitialCash-5_000 {
		t.Fatalf("cash = %d, want %d", g.Cash, InitialCash-5_000)
	}
	if f.Level != 2 {
		t.Fatalf("level = %d, want 2", f.Level)
	}
	if f.CostToUpgrade != 10_000 {
		t.Fatalf("next cost = %d, want 10000", f.CostToUpgrade)
	}
	if f.Value != 9 {
		t.Fatalf("capacity = %d, want 9", f.Value)
	}
}

func TestUpgradeFacilityRefusals(t *testing.T) {
	g := newTestState()
	g.Cash = 100
	if err := UpgradeFacility(g, "office"); err == nil {
		t.Fatalf("expected insufficient funds")
	}
	if g.Facility("office").Level != 1 {
		t.Fatalf("refused upgrade mutated facility")
	}

	g = newTestState()
	g.Cash = 100_000_000
	f := g.Facility("server")
	f.Level = f.MaxLevel
	if err := UpgradeFacility(g, "server"); err == nil {
		t.Fatalf("expected max level refusal")
	}
	if err := UpgradeFacility(g, "lab"); err == nil {
		t.Fatalf("expected unknown facility to fail")
	}
}

func TestCreateProduct(t *testing.T) {
	g := newTestState()
	p, err := CreateProduct(g, "p2", "  Gadget  ", "desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Gadget" || p.Stage != StageConcept || p.Quality != InitialQuality {
		t.Fatalf("unexpected product: %+v", p)
	}
	if len(g.Products) != 2 {
		t.Fatalf("product not appended")
	}
	if _, err := CreateProduct(g, "p3", "   ", ""); err == nil {
		t.Fatalf("expected blank name to fail")
	}
}
