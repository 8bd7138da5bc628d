// Package problem loads linear arithmetic problems from YAML files.
//
// A file holds one or more YAML documents, each describing a problem:
//
//	name: transitivity
//	type: rat
//	hypotheses:
//	  - id: h1
//	    expr: x - y < 0
//	  - y - x < 0
//	expect: refuted
//
// Hypotheses are Go expressions. An entry may be a bare string or a
// mapping with id, expr and type keys.
package problem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/linarith/internal/frontend"
	"github.com/gnolang/linarith/internal/linarith"
)

var (
	ErrInvalidProblem = errors.New("invalid problem")
	ErrInvalidGoal    = errors.New("invalid goal")
)

// Expectation is the verdict a problem file asserts.
type Expectation string

const (
	ExpectNone       Expectation = ""
	ExpectRefuted    Expectation = "refuted"
	ExpectNotRefuted Expectation = "not-refuted"
	ExpectProved     Expectation = "proved"
	ExpectNotProved  Expectation = "not-proved"
)

// Holds reports whether the outcome of a run satisfies e. For problems with
// a goal, success means the goal was proved; otherwise it means the
// hypotheses were refuted.
func (e Expectation) Holds(success bool) bool {
	switch e {
	case ExpectRefuted, ExpectProved:
		return success
	case ExpectNotRefuted, ExpectNotProved:
		return !success
	default:
		return true
	}
}

// HypothesisSpec is a single hypothesis entry of a problem file.
type HypothesisSpec struct {
	ID   string `yaml:"id,omitempty"`
	Expr string `yaml:"expr"`
	Type string `yaml:"type,omitempty"`
}

// UnmarshalYAML accepts either a bare expression or a mapping.
func (h *HypothesisSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		h.Expr = node.Value
		return nil
	}
	type plain HypothesisSpec
	return node.Decode((*plain)(h))
}

// Problem is one document of a problem file.
type Problem struct {
	Name       string           `yaml:"name"`
	Type       string           `yaml:"type,omitempty"`
	Hypotheses []HypothesisSpec `yaml:"hypotheses"`
	Goal       string           `yaml:"goal,omitempty"`
	Expect     Expectation      `yaml:"expect,omitempty"`
}

// Validate checks the fields that do not need parsing.
func (p Problem) Validate() error {
	switch p.Expect {
	case ExpectNone:
	case ExpectRefuted, ExpectNotRefuted:
		if p.Goal != "" {
			return fmt.Errorf("%w: %s: expect %q needs no goal", ErrInvalidProblem, p.Name, p.Expect)
		}
	case ExpectProved, ExpectNotProved:
		if p.Goal == "" {
			return fmt.Errorf("%w: %s: expect %q needs a goal", ErrInvalidProblem, p.Name, p.Expect)
		}
	default:
		return fmt.Errorf("%w: %s: unknown expectation %q", ErrInvalidProblem, p.Name, p.Expect)
	}

	ids := make(map[string]bool)
	for i, h := range p.Hypotheses {
		if h.Expr == "" {
			return fmt.Errorf("%w: %s: hypothesis %d is empty", ErrInvalidProblem, p.Name, i+1)
		}
		if h.ID == "" {
			continue
		}
		if h.ID == linarith.GoalID {
			return fmt.Errorf("%w: %s: hypothesis id %q is reserved", ErrInvalidProblem, p.Name, h.ID)
		}
		if ids[h.ID] {
			return fmt.Errorf("%w: %s: duplicate hypothesis id %q", ErrInvalidProblem, p.Name, h.ID)
		}
		ids[h.ID] = true
	}
	return nil
}

// Load reads every problem in the file at path.
func Load(path string) ([]Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open problem file: %w", err)
	}
	defer f.Close()

	problems, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return problems, nil
}

// Parse decodes every YAML document in r. Empty documents are skipped and
// unnamed problems are named after their position.
func Parse(r io.Reader) ([]Problem, error) {
	var problems []Problem

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	for n := 1; ; n++ {
		var p Problem
		err := decoder.Decode(&p)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %v", ErrInvalidProblem, n, err)
		}
		if p.Name == "" && len(p.Hypotheses) == 0 && p.Goal == "" {
			continue
		}
		if p.Name == "" {
			p.Name = "problem-" + strconv.Itoa(n)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		problems = append(problems, p)
	}

	return problems, nil
}

// Props converts the entries of p into prover hypotheses. Entries
// without an id are labelled h1, h2, ... by position. A conjunction
// expands into one hypothesis per conjunct, labelled id, id.2, id.3, ...
// Labels must be unique since certificates name hypotheses by label.
func (p Problem) Props() ([]linarith.Hypothesis, error) {
	var out []linarith.Hypothesis
	seen := make(map[string]bool)
	for i, h := range p.Hypotheses {
		id := h.ID
		if id == "" {
			id = "h" + strconv.Itoa(i+1)
		}
		typ := h.Type
		if typ == "" {
			typ = p.Type
		}

		props, err := frontend.ParseHypothesis(h.Expr)
		if err != nil {
			return nil, fmt.Errorf("%s: hypothesis %s: %w", p.Name, id, err)
		}
		for j, prop := range props {
			label := id
			if j > 0 {
				label = id + "." + strconv.Itoa(j+1)
			}
			if seen[label] || label == linarith.GoalID {
				return nil, fmt.Errorf("%w: %s: duplicate hypothesis label %q", ErrInvalidProblem, p.Name, label)
			}
			seen[label] = true
			out = append(out, linarith.Hypothesis{ID: label, Type: typ, Prop: prop})
		}
	}
	return out, nil
}

// GoalProp parses the goal of p. It returns false when p has no goal.
func (p Problem) GoalProp() (linarith.Prop, bool, error) {
	if p.Goal == "" {
		return linarith.Prop{}, false, nil
	}
	props, err := frontend.ParseHypothesis(p.Goal)
	if err != nil {
		return linarith.Prop{}, false, fmt.Errorf("%s: goal: %w", p.Name, err)
	}
	if len(props) != 1 {
		return linarith.Prop{}, false, fmt.Errorf("%w: %s: goal must be a single comparison", ErrInvalidGoal, p.Name)
	}
	return props[0], true, nil
}
