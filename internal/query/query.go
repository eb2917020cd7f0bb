package query

import (
	"strings"

	"github.com/kevinmichaelchen/star-suggest/internal/topic"
)

// TermCounts are the query widths tried in order. A five-term query is often
// too narrow to match anything; the shorter ones broaden recall.
var TermCounts = []int{5, 4, 3}

// Planner derives search queries from a topic model.
type Planner struct {
	model topic.Model
}

func NewPlanner(model topic.Model) *Planner {
	return &Planner{model: model}
}

// Build joins the model's top termCount terms with single spaces.
func (p *Planner) Build(termCount int) string {
	return strings.Join(p.model.TopTerms(termCount), " ")
}
