package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DebitRecruitPosting charges the flat job-posting fee up front, before the
// oracle is asked for candidates. The fee is not refunded if the batch
// comes back empty.
func DebitRecruitPosting(g *GameState) error {
	if g.Cash < RecruitPostingCost {
		return fmt.Errorf("%w: posting costs %d, cash %d", ErrInsufficientFunds, RecruitPostingCost, g.Cash)
	}
	g.Cash -= RecruitPostingCost
	return nil
}

// NormalizeCandidates sanitizes an oracle candidate batch before it touches
// state. IDs are always assigned locally so they are unique within the
// game; narrative fields get defaults so a sparse oracle answer still
// renders. Candidates with no usable name or role are dropped.
func NormalizeCandidates(batch []Candidate) []Candidate {
	out := make([]Candidate, 0, len(batch))
	for _, c := range batch {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" || !ValidRole(c.Role) {
			continue
		}
		c.ID = uuid.NewString()
		if c.Level == "" {
			c.Level = LevelJunior
		}
		c.Skill = clamp(c.Skill, 1, 100)
		if c.Salary <= 0 {
			c.Salary = 1_000
		}
		if c.HireCost <= 0 {
			c.HireCost = c.Salary
		}
		if c.Education == "" {
			c.Education = "Self-taught"
		}
		if c.ExperienceYears <= 0 {
			c.ExperienceYears = 1
		}
		if c.InterviewNotes == "" {
			c.InterviewNotes = "Candidate seemed eager."
		}
		out = append(out, c)
	}
	return out
}
