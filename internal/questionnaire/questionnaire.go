package questionnaire

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind identifies how a question is asked and parsed.
type Kind string

const (
	KindText    Kind = "text"
	KindSelect  Kind = "select"
	KindMulti   Kind = "multi_select"
	KindConfirm Kind = "confirm"
	KindNumber  Kind = "number"
)

// Question is a single question in the interview.
type Question struct {
	Key      string
	Prompt   string
	Kind     Kind
	Options  []string
	Default  string
	Required bool
	Help     string
	// Condition, when set, hides the question unless it returns true for the
	// answers collected so far.
	Condition func(Answers) bool
}

// Group is a set of related questions presented together.
type Group struct {
	Name        string
	Description string
	Questions   []Question
}

// Engine runs the interview over an arbitrary reader/writer pair so tests can
// script it.
type Engine struct {
	groups []Group
	in     *bufio.Scanner
	out    io.Writer
}

// NewEngine creates an Engine with the default question set.
func NewEngine(in io.Reader, out io.Writer) *Engine {
	return &Engine{
		groups: DefaultGroups(),
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// NewEngineWithGroups creates an Engine over a custom question set.
func NewEngineWithGroups(groups []Group, in io.Reader, out io.Writer) *Engine {
	return &Engine{groups: groups, in: bufio.NewScanner(in), out: out}
}

// Run asks every applicable question and returns the collected answers.
func (e *Engine) Run() (Answers, error) {
	answers := Answers{}
	for _, g := range e.groups {
		fmt.Fprintf(e.out, "\n── %s ──\n%s\n", g.Name, g.Description)
		for _, q := range g.Questions {
			if q.Condition != nil && !q.Condition(answers) {
				continue
			}
			val, err := e.ask(q)
			if err != nil {
				return nil, err
			}
			answers[q.Key] = val
		}
	}
	return answers, nil
}

func (e *Engine) ask(q Question) (any, error) {
	for {
		e.printPrompt(q)
		line, err := e.readLine()
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if q.Default != "" {
				line = q.Default
			} else if !q.Required {
				return zeroValue(q.Kind), nil
			} else {
				fmt.Fprintln(e.out, "An answer is required.")
				continue
			}
		}

		val, err := parseAnswer(q, line)
		if err != nil {
			fmt.Fprintf(e.out, "%v\n", err)
			continue
		}
		return val, nil
	}
}

func (e *Engine) printPrompt(q Question) {
	fmt.Fprintf(e.out, "\n%s", q.Prompt)
	if q.Default != "" {
		fmt.Fprintf(e.out, " [%s]", q.Default)
	}
	fmt.Fprintln(e.out)
	if q.Help != "" {
		fmt.Fprintf(e.out, "  (%s)\n", q.Help)
	}
	for i, opt := range q.Options {
		fmt.Fprintf(e.out, "  %d) %s\n", i+1, opt)
	}
	fmt.Fprint(e.out, "> ")
}

func (e *Engine) readLine() (string, error) {
	if !e.in.Scan() {
		if err := e.in.Err(); err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}
	return e.in.Text(), nil
}

func parseAnswer(q Question, line string) (any, error) {
	switch q.Kind {
	case KindText:
		return line, nil
	case KindNumber:
		n, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", line)
		}
		return n, nil
	case KindConfirm:
		switch strings.ToLower(line) {
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		}
		return nil, fmt.Errorf("expected y or n, got %q", line)
	case KindSelect:
		return selectOption(q.Options, line)
	case KindMulti:
		var picked []string
		seen := make(map[string]bool)
		for _, part := range strings.Split(line, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			opt, err := selectOption(q.Options, part)
			if err != nil {
				return nil, err
			}
			if !seen[opt] {
				seen[opt] = true
				picked = append(picked, opt)
			}
		}
		return picked, nil
	default:
		return nil, fmt.Errorf("unknown question kind %q", q.Kind)
	}
}

// selectOption accepts either a 1-based index or the option text itself.
func selectOption(options []string, input string) (string, error) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("choice %d out of range 1-%d", n, len(options))
		}
		return options[n-1], nil
	}
	for _, opt := range options {
		if strings.EqualFold(opt, input) {
			return opt, nil
		}
	}
	return "", fmt.Errorf("no option matching %q", input)
}

func zeroValue(k Kind) any {
	switch k {
	case KindMulti:
		return []string(nil)
	case KindConfirm:
		return false
	case KindNumber:
		return 0
	default:
		return ""
	}
}
