package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cl "tycoon/internal/cli"
	"tycoon/internal/config"
	"tycoon/internal/game"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "tyc",
		Short:        "Startup tycoon CLI client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newNewCmd(&apiBase),
		newGamesCmd(&apiBase),
		newSwitchCmd(&apiBase),
		newStatusCmd(&apiBase),
		newDashCmd(&apiBase),
		newRecruitCmd(&apiBase),
		newCandidatesCmd(&apiBase),
		newHireCmd(&apiBase),
		newFireCmd(&apiBase),
		newAssignCmd(&apiBase),
		newProductCmd(&apiBase),
		newUpgradeCmd(&apiBase),
		newFocusCmd(),
		newTurnCmd(&apiBase),
		newPitchCmd(&apiBase),
		newEventCmd(&apiBase),
		newHistoryCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		printError(fmt.Sprintf("error: %v", err))
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func cmdContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 90*time.Second)
}

func newNewCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Found a new company",
		RunE: func(cmd *cobra.Command, args []string) error {
			companyName, err := promptRequired("Company name")
			if err != nil {
				return err
			}
			industries := make([]string, len(game.Industries))
			for i, ind := range game.Industries {
				industries[i] = string(ind)
			}
			industry, err := promptChoice("Industry", industries)
			if err != nil {
				return err
			}
			productName, err := promptRequired("First product name")
			if err != nil {
				return err
			}
			productDesc, err := promptOptional("Product pitch (one line)")
			if err != nil {
				return err
			}

			ctx, cancel := cmdContext(cmd)
			defer cancel()
			g, err := newClient(apiBase).CreateGame(ctx, companyName, industry, productName, productDesc)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{GameID: g.ID, CompanyName: g.CompanyName}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s is live. Game %s is now active.", g.CompanyName, g.ID))
			if len(g.History) > 0 {
				printInfo(g.History[0].Narrative)
			}
			return nil
		},
	}
}

func newGamesCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List saved games",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			rows, err := newClient(apiBase).ListGames(ctx)
			if err != nil {
				return err
			}
			renderGamesList(rows)
			return nil
		},
	}
}

func newSwitchCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <game_id>",
		Short: "Make another saved game active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			g, err := newClient(apiBase).GameState(ctx, args[0])
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{GameID: g.ID, CompanyName: g.CompanyName}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Switched to %s.", g.CompanyName))
			return nil
		},
	}
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active company",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			g, err := newClient(apiBase).GameState(ctx, sess.GameID)
			if err != nil {
				return err
			}
			renderStatus(g)
			return nil
		},
	}
}

func newRecruitCmd(apiBase *string) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "recruit [job description...]",
		Short: "Post a job opening and collect candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			jobDesc := strings.Join(args, " ")
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			cands, err := newClient(apiBase).Recruit(ctx, sess.GameID, count, jobDesc)
			if err != nil {
				return err
			}
			if len(cands) == 0 {
				printWarn("No applications came in. The posting fee is spent either way.")
				return nil
			}
			renderCandidates(cands)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 3, "number of candidates to request")
	return cmd
}

func newCandidatesCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "candidates",
		Short: "Show the current candidate pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			g, err := newClient(apiBase).GameState(ctx, sess.GameID)
			if err != nil {
				return err
			}
			renderCandidates(g.Candidates)
			return nil
		},
	}
}

func newHireCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "hire <candidate_id>",
		Short: "Hire a candidate from the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			emp, err := newClient(apiBase).Hire(ctx, sess.GameID, args[0])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s joined as %s %s.", emp.Name, emp.Level, emp.Role))
			return nil
		},
	}
}

func newFireCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fire <employee_id>",
		Short: "Let an employee go",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			if err := newClient(apiBase).Fire(ctx, sess.GameID, args[0]); err != nil {
				return err
			}
			printWarn("Done. The office is quieter, and not in a good way.")
			return nil
		},
	}
}

func newAssignCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <employee_id> [product_id]",
		Short: "Assign an employee to a product, or bench them",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			productID := ""
			if len(args) == 2 {
				productID = args[1]
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			if err := newClient(apiBase).Assign(ctx, sess.GameID, args[0], productID); err != nil {
				return err
			}
			if productID == "" {
				printSuccess("Benched.")
			} else {
				printSuccess("Assigned.")
			}
			return nil
		},
	}
}

func newProductCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "product <name> [description...]",
		Short: "Start a new product line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			desc := strings.Join(args[1:], " ")
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			p, err := newClient(apiBase).CreateProduct(ctx, sess.GameID, args[0], desc)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s is on the whiteboard (id %s).", p.Name, p.ID))
			return nil
		},
	}
}

func newUpgradeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <facility_id>",
		Short: "Upgrade a facility (office, server)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			f, err := newClient(apiBase).UpgradeFacility(ctx, sess.GameID, args[0])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s is now level %d (%s). Next upgrade: %s.",
				f.Name, f.Level, f.Benefit, formatCash(f.CostToUpgrade)))
			return nil
		},
	}
}

func newFocusCmd() *cobra.Command {
	var rd, marketing, note string
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Draft decisions for the coming month",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := cl.LoadDraft()
			if err != nil {
				return err
			}
			if rd != "" {
				draft.RDFocus = rd
			}
			if marketing != "" {
				draft.MarketingFocus = marketing
			}
			if note != "" {
				draft.StrategyNote = note
			}
			if err := cl.SaveDraft(draft); err != nil {
				return err
			}
			printInfo(fmt.Sprintf("Draft: R&D %q, marketing %q, note %q.",
				draft.RDFocus, draft.MarketingFocus, draft.StrategyNote))
			return nil
		},
	}
	cmd.Flags().StringVar(&rd, "rd", "", "R&D focus for the month")
	cmd.Flags().StringVar(&marketing, "marketing", "", "marketing focus for the month")
	cmd.Flags().StringVar(&note, "note", "", "free-form strategy note")
	return cmd
}

func newTurnCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "turn",
		Short: "End the month and resolve the drafted decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			draft, err := cl.LoadDraft()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).ResolveTurn(ctx, sess.GameID, uuid.NewString(), draft)
			if err != nil {
				return err
			}
			if err := cl.ClearDraft(); err != nil {
				return err
			}
			renderOutcome(out)
			return nil
		},
	}
}

func newPitchCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pitch [round]",
		Short: "Pitch investors for funding (Seed, Series A, ...)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			round := "Seed"
			if len(args) == 1 {
				round = args[0]
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			res, err := newClient(apiBase).Pitch(ctx, sess.GameID, uuid.NewString(), round)
			if err != nil {
				return err
			}
			renderPitch(res)
			return nil
		},
	}
}

func newEventCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "event",
		Short: "Answer the pending event",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			client := newClient(apiBase)
			g, err := client.GameState(ctx, sess.GameID)
			if err != nil {
				return err
			}
			if g.PendingEvent == nil {
				printInfo("No pending event.")
				return nil
			}
			warn.Printf("%s - %s\n", g.PendingEvent.Title, g.PendingEvent.Description)
			labels := make([]string, len(g.PendingEvent.Options))
			for i, opt := range g.PendingEvent.Options {
				labels[i] = fmt.Sprintf("%s (%s)", opt.Label, opt.Risk)
			}
			picked, err := promptChoice("Your call", labels)
			if err != nil {
				return err
			}
			choice := g.PendingEvent.Options[indexOf(labels, picked)].Label
			if err := client.ChooseEvent(ctx, sess.GameID, choice); err != nil {
				return err
			}
			printSuccess("Noted. It plays out when the month ends.")
			return nil
		},
	}
}

func newHistoryCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the company timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).History(ctx, sess.GameID)
			if err != nil {
				return err
			}
			renderHistory(out)
			return nil
		},
	}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return 0
}
