package recommend

import (
	"fmt"
	"slices"
)

// Engine evaluates queries against an immutable rule table.
// It is safe for concurrent use.
type Engine struct {
	table Table
}

// NewEngine validates the table and returns an engine over a private copy of it.
func NewEngine(table Table) (*Engine, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule table: %w", err)
	}
	return &Engine{table: table.clone()}, nil
}

var defaultEngine = func() *Engine {
	e, err := NewEngine(DefaultTable())
	if err != nil {
		panic(err)
	}
	return e
}()

// Default returns the engine over the built-in table.
func Default() *Engine {
	return defaultEngine
}

// Recommend evaluates q against the built-in table.
func Recommend(q Query) Result {
	return defaultEngine.Recommend(q)
}

// Table returns a copy of the engine's rule table.
func (e *Engine) Table() Table {
	return e.table.clone()
}

// Recommend returns every suggestion whose rule matches q, in declaration order.
// It never fails: incomplete queries yield a placeholder and unmatched ones the fallback.
func (e *Engine) Recommend(q Query) Result {
	q = q.normalized()
	if !q.Complete() {
		return Result{
			Outcome:     OutcomeIncomplete,
			Suggestions: []Suggestion{incompletePlaceholder},
		}
	}

	matched := make([]Suggestion, 0, 4)
	for _, block := range e.table.Blocks {
		if block.Season != Season(q.Season) {
			continue
		}
		for _, rule := range block.Rules {
			if rule.Match(q) {
				matched = append(matched, rule.Suggestion)
			}
		}
	}

	if len(matched) == 0 {
		return Result{
			Outcome:     OutcomeNoMatch,
			Suggestions: slices.Clone(e.table.Fallback),
		}
	}
	return Result{
		Outcome:     OutcomeMatched,
		Suggestions: matched,
	}
}
