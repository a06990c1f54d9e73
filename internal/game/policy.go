package game

import (
	"fmt"
	mathrand "math/rand"
	"strings"
)

// OfficeCapacity is how many employees the current office allows. Falls
// back to zero when no max_employees facility exists.
func OfficeCapacity(g *GameState) int {
	for _, f := range g.Facilities {
		if f.StatEffect == EffectMaxEmployees {
			return f.Value
		}
	}
	return 0
}

// UserCapacity is the server facility's user ceiling.
func UserCapacity(g *GameState) int {
	for _, f := range g.Facilities {
		if f.StatEffect == EffectMaxUsers {
			return f.Value
		}
	}
	return 0
}

// Hire converts a candidate into an employee. This is the only place an
// Employee is constructed. Fails without touching state when the office is
// full or the signing fee is unaffordable.
func Hire(g *GameState, candidateID string, rng *mathrand.Rand) (Employee, error) {
	idx := -1
	for i := range g.Candidates {
		if g.Candidates[i].ID == candidateID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Employee{}, fmt.Errorf("%w: unknown candidate %s", ErrInvalidAction, candidateID)
	}
	c := g.Candidates[idx]
	if len(g.Employees) >= OfficeCapacity(g) {
		return Employee{}, fmt.Errorf("%w: office holds %d", ErrCapacityExceeded, OfficeCapacity(g))
	}
	if g.Cash < c.HireCost {
		return Employee{}, fmt.Errorf("%w: hire cost %d, cash %d", ErrInsufficientFunds, c.HireCost, g.Cash)
	}

	traits := []string{traitVocabulary[rng.Intn(len(traitVocabulary))]}
	if rng.Float64() > 0.5 {
		traits = append(traits, traitVocabulary[rng.Intn(len(traitVocabulary))])
	}

	emp := Employee{
		ID:             c.ID,
		Name:           c.Name,
		Role:           c.Role,
		Level:          c.Level,
		Skill:          c.Skill,
		SpecificSkills: c.SpecificSkills,
		Salary:         c.Salary,
		Morale:         80 + rng.Intn(20),
		Loyalty:        50 + rng.Intn(50),
		Quirk:          c.Quirk,
		Education:      c.Education,
		Background:     c.Bio,
		Stress:         0,
		Traits:         traits,
	}

	g.Cash -= c.HireCost
	g.Employees = append(g.Employees, emp)
	g.Candidates = append(g.Candidates[:idx], g.Candidates[idx+1:]...)
	return emp, nil
}

// Fire removes an employee from the roster. The rest of the team takes a
// fixed company-wide morale hit. The employee's former product is left
// untouched.
func Fire(g *GameState, employeeID string) error {
	idx := -1
	for i := range g.Employees {
		if g.Employees[i].ID == employeeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: unknown employee %s", ErrInvalidAction, employeeID)
	}
	g.Employees = append(g.Employees[:idx], g.Employees[idx+1:]...)
	g.Morale = clamp(g.Morale-FiringMoralePenalty, 0, 100)
	return nil
}

// Assign points an employee at a product, or benches them when productID is
// empty. An employee already on a product must be benched before moving to
// a different one; the setter enforces the one-product rule rather than
// trusting callers.
func Assign(g *GameState, employeeID, productID string) error {
	emp := g.Employee(employeeID)
	if emp == nil {
		return fmt.Errorf("%w: unknown employee %s", ErrInvalidAction, employeeID)
	}
	if productID == "" {
		emp.AssignedProductID = ""
		return nil
	}
	if g.Product(productID) == nil {
		return fmt.Errorf("%w: unknown product %s", ErrInvalidAction, productID)
	}
	if emp.AssignedProductID != "" && emp.AssignedProductID != productID {
		return fmt.Errorf("%w: %s is already assigned to %s", ErrInvalidAction, emp.Name, emp.AssignedProductID)
	}
	emp.AssignedProductID = productID
	return nil
}

// UpgradeFacility levels a facility up: cash down by the current price,
// price doubles, capacity triples. Geometric growth keeps each upgrade a
// real investment decision against linear income.
func UpgradeFacility(g *GameState, facilityID string) error {
	f := g.Facility(facilityID)
	if f == nil {
		return fmt.Errorf("%w: unknown facility %s", ErrInvalidAction, facilityID)
	}
	if f.Level >= f.MaxLevel {
		return fmt.Errorf("%w: %s is already at max level", ErrInvalidAction, f.Name)
	}
	if g.Cash < f.CostToUpgrade {
		return fmt.Errorf("%w: upgrade costs %d, cash %d", ErrInsufficientFunds, f.CostToUpgrade, g.Cash)
	}
	g.Cash -= f.CostToUpgrade
	f.Level++
	f.CostToUpgrade *= 2
	f.Value *= 3
	f.Description = fmt.Sprintf("Level %d Facility", f.Level)
	return nil
}

// CreateProduct adds a concept-stage product with default metrics.
func CreateProduct(g *GameState, id, name, desc string) (Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, fmt.Errorf("%w: product name is required", ErrInvalidAction)
	}
	p := newProduct(id, name, strings.TrimSpace(desc))
	g.Products = append(g.Products, p)
	return p, nil
}

// ReplaceCandidates swaps the candidate pool wholesale after a recruitment
// batch arrives. Unhired candidates from the previous batch are discarded.
func ReplaceCandidates(g *GameState, batch []Candidate) {
	g.Candidates = batch
}
