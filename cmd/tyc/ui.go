package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tycoon/internal/game"
	"tycoon/internal/store"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Fprintln(os.Stderr, msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		accent.Printf("%s: ", label)
		line, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		printWarn("Required.")
	}
}

func promptOptional(label string) (string, error) {
	accent.Printf("%s: ", label)
	line, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptChoice(label string, options []string) (string, error) {
	for i, opt := range options {
		neutral.Printf("  %d) %s\n", i+1, opt)
	}
	for {
		accent.Printf("%s [1-%d]: ", label, len(options))
		line, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		printWarn("Pick a number from the list.")
	}
}

func renderStatus(g game.GameState) {
	accent.Printf("%s", g.CompanyName)
	neutral.Printf("  [%s]  turn %d  %s\n", g.Industry, g.Turn, string(g.Stage))
	if g.CompetitorName != "" {
		neutral.Printf("vs %s - %s\n", g.CompetitorName, g.MarketContext)
	}
	fmt.Printf("cash %s   users %s   morale %d   equity %.1f%%   burn %s/mo\n",
		colorizeCash(g.Cash), comma(int64(g.Users)), g.Morale, g.Equity, formatCash(game.BurnRate(&g)))
	fmt.Printf("skills: mgmt %d  tech %d  charisma %d\n",
		g.Skills.Management, g.Skills.Tech, g.Skills.Charisma)

	if len(g.Products) > 0 {
		accent.Println("\nProducts")
		for _, p := range g.Products {
			fmt.Printf("  %-24s %-16s %3d%%  q%d  bugs %d  users %s  rev %s/mo\n",
				truncate(p.Name, 24), p.Stage, p.DevelopmentProgress, p.Quality,
				p.Bugs, comma(int64(p.Users)), formatCash(p.Revenue))
			for _, f := range p.ActiveFeedback {
				neutral.Printf("      · %s\n", truncate(f, 70))
			}
		}
	}

	if len(g.Employees) > 0 {
		accent.Println("\nTeam")
		for _, e := range g.Employees {
			assigned := "bench"
			if e.AssignedProductID != "" {
				if p := productByID(g, e.AssignedProductID); p != nil {
					assigned = p.Name
				}
			}
			stress := fmt.Sprintf("stress %.0f", e.Stress)
			if e.Stress > 80 {
				stress = danger.Sprint(stress)
			}
			fmt.Printf("  %-20s %-10s %-7s skill %-3d morale %-3d %s  -> %s\n",
				truncate(e.Name, 20), e.Role, e.Level, e.Skill, e.Morale, stress, assigned)
		}
	}

	if g.PendingEvent != nil {
		warn.Printf("\n! %s - %s\n", g.PendingEvent.Title, g.PendingEvent.Description)
		for _, opt := range g.PendingEvent.Options {
			neutral.Printf("    %s (%s)\n", opt.Label, opt.Risk)
		}
		printWarn("Answer with 'tyc event' before ending the month.")
	}

	if g.Stage == game.StageGameOver {
		danger.Printf("\nGAME OVER: %s\n", g.GameOverReason)
	}
}

func renderCandidates(cands []game.Candidate) {
	if len(cands) == 0 {
		printInfo("No candidates on file. Run 'tyc recruit'.")
		return
	}
	accent.Println("Candidates")
	for _, c := range cands {
		fmt.Printf("  %-20s %-10s %-7s skill %-3d salary %s  signing %s\n",
			truncate(c.Name, 20), c.Role, c.Level, c.Skill,
			formatCash(c.Salary), formatCash(c.HireCost))
		neutral.Printf("      %s | %s, %d yrs | %s\n",
			truncate(c.Bio, 46), c.Education, c.ExperienceYears, truncate(c.InterviewNotes, 40))
		neutral.Printf("      id: %s\n", c.ID)
	}
}

func renderOutcome(out game.TurnOutcome) {
	fmt.Println()
	neutral.Println(out.Narrative)
	fmt.Printf("cash %s   users %s   morale %s   equity %s\n",
		colorizeDelta(out.CashChange), colorizeDelta(out.UserChange),
		colorizeDelta(out.MoraleChange), colorizeFloatDelta(out.EquityChange))
	for _, u := range out.ProductUpdates {
		fmt.Printf("  product %s: dev %+d  quality %+d  bugs %+d  users %+d  revenue %+d\n",
			u.ProductID, u.DevProgressChange, u.QualityChange, u.BugChange, u.UserChange, u.RevenueChange)
		if u.NewFeedback != "" {
			neutral.Printf("      feedback: %s\n", u.NewFeedback)
		}
	}
	if out.SecretaryReport != "" {
		neutral.Printf("secretary: %s\n", out.SecretaryReport)
	}
	if out.RandomEvent != nil {
		warn.Printf("! %s - %s\n", out.RandomEvent.Title, out.RandomEvent.Description)
	}
}

func renderPitch(res game.PitchResult) {
	if res.Accepted {
		success.Printf("%s is in: %s for %.1f%% equity\n",
			res.InvestorName, formatCash(res.Investment), res.EquityDemanded)
		if res.Valuation > 0 {
			neutral.Printf("Pre-money valuation: %s\n", formatCash(res.Valuation))
		}
	} else {
		danger.Printf("%s passed.\n", res.InvestorName)
	}
	neutral.Println(res.Feedback)
}

func renderHistory(history []game.TurnOutcome) {
	if len(history) == 0 {
		printInfo("Nothing has happened yet.")
		return
	}
	for i, out := range history {
		accent.Printf("#%d ", i+1)
		neutral.Println(truncate(out.Narrative, 90))
		if out.CashChange != 0 || out.MoraleChange != 0 {
			fmt.Printf("    cash %s  morale %s\n",
				colorizeDelta(out.CashChange), colorizeDelta(out.MoraleChange))
		}
	}
}

func renderGamesList(rows []store.GameSummary) {
	if len(rows) == 0 {
		printInfo("No saved games. Run 'tyc new'.")
		return
	}
	for _, r := range rows {
		fmt.Printf("  %-24s turn %-4d %-10s %s\n", truncate(r.CompanyName, 24), r.Turn, r.Stage, r.ID)
	}
}

func productByID(g game.GameState, id string) *game.Product {
	for i := range g.Products {
		if g.Products[i].ID == id {
			return &g.Products[i]
		}
	}
	return nil
}

func colorizeCash(v int) string {
	text := formatCash(v)
	switch {
	case v < 0:
		return danger.Sprint(text)
	default:
		return success.Sprint(text)
	}
}

func colorizeDelta(v int) string {
	text := fmt.Sprintf("%+d", v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func colorizeFloatDelta(v float64) string {
	text := fmt.Sprintf("%+.1f%%", v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func formatCash(v int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%s", sign, comma(int64(v)))
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
