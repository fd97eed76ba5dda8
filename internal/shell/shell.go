package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Harshitk-cp/doxa/internal/domain"
	"github.com/Harshitk-cp/doxa/internal/logic"
	"github.com/Harshitk-cp/doxa/internal/service"
	"github.com/charmbracelet/lipgloss"
)

// Prompt is the shell prompt, exported so cmd can hand it to the reader.
const Prompt = "doxa> "

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Shell is a REPL over a single in-process belief base.
type Shell struct {
	base   *domain.BeliefBase
	svc    *service.RevisionService
	reader InputReader
	out    io.Writer
}

func New(svc *service.RevisionService, reader InputReader, out io.Writer) *Shell {
	return &Shell{
		base:   domain.NewBeliefBase(),
		svc:    svc,
		reader: reader,
		out:    out,
	}
}

// Run reads and executes commands until exit, EOF or context cancellation.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, titleStyle.Render("doxa — belief revision shell"))
	fmt.Fprintln(s.out, mutedStyle.Render(`type "help" for commands, "exit" to leave`))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// The interactive reader renders its own prompt.
		if _, interactive := s.reader.(*InteractiveReader); !interactive {
			fmt.Fprint(s.out, Prompt)
		}

		line, err := s.reader.ReadLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out, mutedStyle.Render("bye"))
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Fprintln(s.out, mutedStyle.Render("bye"))
			return nil
		}

		s.dispatch(ctx, line)
	}
}

func (s *Shell) dispatch(ctx context.Context, line string) {
	verb, rest := splitVerb(line)

	switch verb {
	case "help":
		s.printHelp()
	case "show":
		s.show()
	case "clear":
		s.base.Clear()
		fmt.Fprintln(s.out, successStyle.Render("belief base cleared"))
	case "expand":
		s.expand(ctx, rest)
	case "revise":
		s.revise(ctx, rest)
	case "contract":
		s.contract(ctx, rest)
	case "remove":
		s.remove(ctx, rest)
	case "entails":
		s.entails(ctx, rest)
	case "entrenchment":
		s.entrenchment(ctx, rest)
	case "update":
		s.update(ctx, rest)
	case "cnf":
		s.cnf(rest)
	default:
		s.errorf("unknown command %q, try help", verb)
	}
}

func (s *Shell) expand(ctx context.Context, arg string) {
	if arg == "" {
		s.errorf("usage: expand FORMULA [ENTRENCHMENT]")
		return
	}
	text, entrenchment := splitEntrenchment(arg)
	f, err := logic.Parse(text)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	belief, err := s.svc.Expand(ctx, s.base, f, entrenchment)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	fmt.Fprintln(s.out, successStyle.Render("added "+describeBelief(belief)))
}

func (s *Shell) revise(ctx context.Context, arg string) {
	if arg == "" {
		s.errorf("usage: revise FORMULA [ENTRENCHMENT]")
		return
	}
	text, entrenchment := splitEntrenchment(arg)
	f, err := logic.Parse(text)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	removed, added, err := s.svc.Revise(ctx, s.base, f, entrenchment)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	for _, b := range removed {
		fmt.Fprintln(s.out, mutedStyle.Render("retracted "+describeBelief(b)))
	}
	fmt.Fprintln(s.out, successStyle.Render("accepted "+describeBelief(added)))
}

func (s *Shell) contract(ctx context.Context, arg string) {
	if arg == "" {
		s.errorf("usage: contract FORMULA")
		return
	}
	f, err := logic.Parse(arg)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	removed, err := s.svc.Contract(ctx, s.base, f)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	if len(removed) == 0 {
		fmt.Fprintln(s.out, mutedStyle.Render(fmt.Sprintf("%s is not entailed, nothing to contract", f)))
		return
	}
	for _, b := range removed {
		fmt.Fprintln(s.out, successStyle.Render("retracted "+describeBelief(b)))
	}
}

func (s *Shell) remove(ctx context.Context, arg string) {
	if arg == "" {
		s.errorf("usage: remove FORMULA")
		return
	}
	f, err := logic.Parse(arg)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	belief, err := s.svc.Remove(ctx, s.base, f)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	fmt.Fprintln(s.out, successStyle.Render("removed "+describeBelief(belief)))
}

func (s *Shell) entails(ctx context.Context, arg string) {
	if arg == "" {
		s.errorf("usage: entails FORMULA")
		return
	}
	f, err := logic.Parse(arg)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	entailed, err := s.svc.Entails(ctx, s.base, f)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	if entailed {
		fmt.Fprintln(s.out, successStyle.Render(fmt.Sprintf("%s is entailed", f)))
	} else {
		fmt.Fprintln(s.out, mutedStyle.Render(fmt.Sprintf("%s is not entailed", f)))
	}
}

func (s *Shell) entrenchment(ctx context.Context, arg string) {
	if arg == "" {
		s.errorf("usage: entrenchment FORMULA")
		return
	}
	f, err := logic.Parse(arg)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	entrenchment, err := s.svc.Entrenchment(ctx, s.base, f)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	fmt.Fprintf(s.out, "entrenchment of %s: %d\n", f, entrenchment)
}

func (s *Shell) update(ctx context.Context, arg string) {
	oldText, rest, found := strings.Cut(arg, ";")
	if !found || strings.TrimSpace(oldText) == "" || strings.TrimSpace(rest) == "" {
		s.errorf("usage: update OLD ; NEW [ENTRENCHMENT]")
		return
	}

	old, err := logic.Parse(strings.TrimSpace(oldText))
	if err != nil {
		s.errorf("%v", err)
		return
	}
	newText, entrenchment := splitEntrenchment(strings.TrimSpace(rest))
	updated, err := logic.Parse(newText)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	belief, err := s.svc.Update(ctx, s.base, old, updated, entrenchment)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	fmt.Fprintln(s.out, successStyle.Render(fmt.Sprintf("updated %s -> %s", old, describeBelief(belief))))
}

func (s *Shell) cnf(arg string) {
	if arg == "" {
		s.errorf("usage: cnf FORMULA")
		return
	}
	f, err := logic.Parse(arg)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	cnf, err := logic.ToCNF(f)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	fmt.Fprintln(s.out, cnf.String())
	fmt.Fprintln(s.out, mutedStyle.Render(fmt.Sprintf("%d clause(s), atoms: %s",
		len(cnf), strings.Join(cnf.Atoms(), " "))))
}

func (s *Shell) show() {
	beliefs := s.base.Beliefs()
	if len(beliefs) == 0 {
		fmt.Fprintln(s.out, mutedStyle.Render("the belief base is empty"))
		return
	}

	fmt.Fprintln(s.out, headerStyle.Render(fmt.Sprintf("%-4s %-40s %s", "#", "formula", "entrenchment")))
	for _, b := range beliefs {
		fmt.Fprintf(s.out, "%-4d %-40s %d\n", b.Position, b.Formula.String(), b.Entrenchment)
	}
}

func (s *Shell) printHelp() {
	help := [][2]string{
		{"expand F [E]", "add F at entrenchment E (default 50), no consistency check"},
		{"revise F [E]", "incorporate F, retracting whatever contradicts it"},
		{"contract F", "retract beliefs until F is no longer entailed"},
		{"remove F", "delete the belief F itself"},
		{"entails F", "check whether the base entails F"},
		{"entrenchment F", "show the entrenchment of belief F"},
		{"update OLD ; NEW [E]", "replace belief OLD with NEW"},
		{"cnf F", "print the conjunctive normal form of F"},
		{"show", "list the current beliefs"},
		{"clear", "drop every belief"},
		{"exit, quit", "leave the shell"},
	}
	for _, h := range help {
		fmt.Fprintf(s.out, "  %-22s %s\n", h[0], mutedStyle.Render(h[1]))
	}
}

func (s *Shell) errorf(format string, args ...any) {
	fmt.Fprintln(s.out, errorStyle.Render("error: "+fmt.Sprintf(format, args...)))
}

func splitVerb(line string) (string, string) {
	verb, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(verb), strings.TrimSpace(rest)
}

// splitEntrenchment splits "FORMULA [N]". Integers are not atoms, so a
// trailing integer token can only be the entrenchment argument.
func splitEntrenchment(arg string) (string, int) {
	fields := strings.Fields(arg)
	if len(fields) >= 2 {
		if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
			return strings.Join(fields[:len(fields)-1], " "), n
		}
	}
	return arg, domain.DefaultEntrenchment
}

func describeBelief(b domain.Belief) string {
	return fmt.Sprintf("%s (entrenchment %d)", b.Formula, b.Entrenchment)
}
