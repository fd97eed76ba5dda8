package demo

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/Harshitk-cp/doxa/internal/domain"
	"github.com/Harshitk-cp/doxa/internal/logic"
	"github.com/Harshitk-cp/doxa/internal/service"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed scenarios/*.yaml
var scenarioFS embed.FS

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	descStyle   = lipgloss.NewStyle().Faint(true)
	addStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dropStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	rejectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noteStyle   = lipgloss.NewStyle().Italic(true).Faint(true)
)

// Step is one operation replayed against the scenario's base.
type Step struct {
	Op           string `yaml:"op"`
	Formula      string `yaml:"formula,omitempty"`
	To           string `yaml:"to,omitempty"`
	Entrenchment *int   `yaml:"entrenchment,omitempty"`
	Note         string `yaml:"note,omitempty"`
}

// Scenario is a named, ordered walkthrough of belief change operations.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Scenarios returns the embedded scenarios in file order.
func Scenarios() ([]Scenario, error) {
	entries, err := fs.ReadDir(scenarioFS, "scenarios")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded scenarios: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	scenarios := make([]Scenario, 0, len(names))
	for _, name := range names {
		raw, err := scenarioFS.ReadFile("scenarios/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read scenario %s: %w", name, err)
		}
		var sc Scenario
		if err := yaml.Unmarshal(raw, &sc); err != nil {
			return nil, fmt.Errorf("failed to parse scenario %s: %w", name, err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// Runner replays scenarios against fresh belief bases with styled output.
type Runner struct {
	svc *service.RevisionService
	out io.Writer
}

func NewRunner(svc *service.RevisionService, out io.Writer) *Runner {
	return &Runner{svc: svc, out: out}
}

// RunAll replays every embedded scenario in order.
func (r *Runner) RunAll(ctx context.Context) error {
	scenarios, err := Scenarios()
	if err != nil {
		return err
	}
	for _, sc := range scenarios {
		if err := r.Run(ctx, sc); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}
	return nil
}

// Run replays a single scenario against a fresh base.
func (r *Runner) Run(ctx context.Context, sc Scenario) error {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, titleStyle.Render("== "+sc.Name+" =="))
	if sc.Description != "" {
		fmt.Fprintln(r.out, descStyle.Render(sc.Description))
	}

	base := domain.NewBeliefBase()
	for i, step := range sc.Steps {
		if err := r.step(ctx, base, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	return nil
}

func (r *Runner) step(ctx context.Context, base *domain.BeliefBase, step Step) error {
	if step.Note != "" {
		fmt.Fprintln(r.out, noteStyle.Render("note: "+step.Note))
	}

	entrenchment := domain.DefaultEntrenchment
	if step.Entrenchment != nil {
		entrenchment = *step.Entrenchment
	}

	switch step.Op {
	case "expand":
		f, err := logic.Parse(step.Formula)
		if err != nil {
			return err
		}
		belief, err := r.svc.Expand(ctx, base, f, entrenchment)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, addStyle.Render("+ "+describe(belief)))

	case "revise":
		f, err := logic.Parse(step.Formula)
		if err != nil {
			return err
		}
		removed, added, err := r.svc.Revise(ctx, base, f, entrenchment)
		if err != nil {
			return err
		}
		for _, b := range removed {
			fmt.Fprintln(r.out, dropStyle.Render("- "+describe(b)))
		}
		fmt.Fprintln(r.out, addStyle.Render("+ "+describe(added)))

	case "contract":
		f, err := logic.Parse(step.Formula)
		if err != nil {
			return err
		}
		removed, err := r.svc.Contract(ctx, base, f)
		if err != nil {
			// A rejected contraction is part of the story, not a failure.
			if errors.Is(err, service.ErrVacuousTarget) {
				fmt.Fprintln(r.out, rejectStyle.Render("rejected: "+err.Error()))
				return nil
			}
			return err
		}
		if len(removed) == 0 {
			fmt.Fprintln(r.out, descStyle.Render(fmt.Sprintf("%s is not entailed, nothing to contract", f)))
			return nil
		}
		for _, b := range removed {
			fmt.Fprintln(r.out, dropStyle.Render("- "+describe(b)))
		}

	case "remove":
		f, err := logic.Parse(step.Formula)
		if err != nil {
			return err
		}
		belief, err := r.svc.Remove(ctx, base, f)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, dropStyle.Render("- "+describe(belief)))

	case "update":
		old, err := logic.Parse(step.Formula)
		if err != nil {
			return err
		}
		updated, err := logic.Parse(step.To)
		if err != nil {
			return err
		}
		belief, err := r.svc.Update(ctx, base, old, updated, entrenchment)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s -> %s\n", old, addStyle.Render(describe(belief)))

	case "entails":
		f, err := logic.Parse(step.Formula)
		if err != nil {
			return err
		}
		entailed, err := r.svc.Entails(ctx, base, f)
		if err != nil {
			return err
		}
		if entailed {
			fmt.Fprintln(r.out, addStyle.Render(fmt.Sprintf("%s is entailed", f)))
		} else {
			fmt.Fprintln(r.out, descStyle.Render(fmt.Sprintf("%s is not entailed", f)))
		}

	case "entrenchment":
		f, err := logic.Parse(step.Formula)
		if err != nil {
			return err
		}
		e, err := r.svc.Entrenchment(ctx, base, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "entrenchment of %s: %d\n", f, e)

	case "cnf":
		f, err := logic.Parse(step.Formula)
		if err != nil {
			return err
		}
		cnf, err := logic.ToCNF(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "cnf of %s: %s\n", f, cnf)

	case "show":
		beliefs := base.Beliefs()
		if len(beliefs) == 0 {
			fmt.Fprintln(r.out, descStyle.Render("(empty base)"))
			return nil
		}
		for _, b := range beliefs {
			fmt.Fprintln(r.out, "  "+describe(b))
		}

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	return nil
}

func describe(b domain.Belief) string {
	var sb strings.Builder
	sb.WriteString(b.Formula.String())
	fmt.Fprintf(&sb, " (entrenchment %d)", b.Entrenchment)
	return sb.String()
}
