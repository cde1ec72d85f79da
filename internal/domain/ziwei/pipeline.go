package ziwei

import (
	"fmt"

	"github.com/yanqian/destiny/internal/domain/bazi"
	"github.com/yanqian/destiny/internal/domain/calendar"
)

// Input is what the placement rules read.
type Input struct {
	LunarMonth int
	LunarDay   int
	Hour       calendar.Branch
	YearStem   calendar.Stem
	YearBranch calendar.Branch
	Gender     Gender
}

// board is the in-progress chart the rules write to.
type board struct {
	in       Input
	elements *bazi.Tables

	life, body    calendar.Branch
	palaceStems   [12]calendar.Stem
	bureau        int
	decadeForward bool
	decades       [12]Decade
	positions     map[Star]calendar.Branch
	transforms    map[Star]Transformation
}

func (b *board) place(star Star, branch calendar.Branch) error {
	if _, ok := b.positions[star]; ok {
		return fmt.Errorf("star %s placed twice", star)
	}
	b.positions[star] = branch
	return nil
}

func (b *board) position(star Star) (calendar.Branch, error) {
	branch, ok := b.positions[star]
	if !ok {
		return 0, fmt.Errorf("star %s not placed yet", star)
	}
	return branch, nil
}

// Rule is one named placement step. Requires lists rules that must run first.
type Rule struct {
	Name     string
	Requires []string
	Apply    func(*board) error
}

// Pipeline is an ordered, dependency-checked list of rules.
type Pipeline struct {
	rules []Rule
}

// NewPipeline verifies that rule names are unique and every dependency
// appears before the rule that needs it.
func NewPipeline(rules ...Rule) (*Pipeline, error) {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Name == "" || r.Apply == nil {
			return nil, fmt.Errorf("placement rule %q is incomplete", r.Name)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("placement rule %q declared twice", r.Name)
		}
		for _, dep := range r.Requires {
			if !seen[dep] {
				return nil, fmt.Errorf("placement rule %q requires %q, which does not run before it", r.Name, dep)
			}
		}
		seen[r.Name] = true
	}
	return &Pipeline{rules: append([]Rule(nil), rules...)}, nil
}

// Names returns the rule names in execution order.
func (p *Pipeline) Names() []string {
	out := make([]string, 0, len(p.rules))
	for _, r := range p.rules {
		out = append(out, r.Name)
	}
	return out
}

func (p *Pipeline) run(b *board) error {
	for _, r := range p.rules {
		if err := r.Apply(b); err != nil {
			return fmt.Errorf("rule %s: %w", r.Name, err)
		}
	}
	return nil
}
