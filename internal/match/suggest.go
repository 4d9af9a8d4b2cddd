package match

import (
	"sort"
)

// MinSuggestScore is the similarity below which a candidate is not offered
// as a suggestion.
const MinSuggestScore = 0.5

// Candidate is a scored name.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList sorts by descending score, then by name.
type CandidateList []Candidate

func (c CandidateList) Len() int      { return len(c) }
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Names returns the candidate names in order.
func (c CandidateList) Names() []string {
	names := make([]string, len(c))
	for i := range c {
		names[i] = c[i].Name
	}

	return names
}

// Rank scores every candidate against name, best first.
func Rank(name string, candidates []string) CandidateList {
	list := make(CandidateList, 0, len(candidates))
	for _, c := range candidates {
		list = append(list, Candidate{Name: c, Score: Similarity(name, c)})
	}

	sort.Sort(list)

	return list
}

// Suggest returns the candidate most similar to name, or "" when none is
// similar enough.
func Suggest(name string, candidates []string) string {
	ranked := Rank(name, candidates)
	if len(ranked) == 0 || ranked[0].Score < MinSuggestScore {
		return ""
	}

	return ranked[0].Name
}
