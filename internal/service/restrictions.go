package service

import "strings"

// defaultRestrictions maps a disease name to the ingredient keywords that
// must not be requested by someone with that condition.
var defaultRestrictions = map[string][]string{
	"diabetes":       {"sugar", "honey", "white bread"},
	"hypertension":   {"salt", "processed meats", "canned foods"},
	"heart disease":  {"red meat", "butter", "fried foods"},
	"kidney disease": {"high sodium foods", "processed cheese", "canned soups"},
}

// RestrictionPolicy strips disease-restricted ingredients from a request.
// It is immutable after construction and safe for concurrent use.
type RestrictionPolicy struct {
	table map[string][]string
}

// NewRestrictionPolicy copies table into a new policy. Keys are matched
// exactly as given; keywords are lower-cased.
func NewRestrictionPolicy(table map[string][]string) *RestrictionPolicy {
	p := &RestrictionPolicy{table: make(map[string][]string, len(table))}
	for disease, keywords := range table {
		lowered := make([]string, len(keywords))
		for i, k := range keywords {
			lowered[i] = strings.ToLower(k)
		}
		p.table[disease] = lowered
	}
	return p
}

// DefaultRestrictionPolicy returns the built-in disease table.
func DefaultRestrictionPolicy() *RestrictionPolicy {
	return NewRestrictionPolicy(defaultRestrictions)
}

// Restricted returns the union of forbidden keywords for the given
// diseases. Unknown diseases are ignored.
func (p *RestrictionPolicy) Restricted(diseases []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, d := range diseases {
		for _, k := range p.table[d] {
			out[k] = struct{}{}
		}
	}
	return out
}

// Strip removes every ingredient whose lower-case form is restricted by one
// of the diseases, preserving the order of the rest.
func (p *RestrictionPolicy) Strip(ingredients, diseases []string) []string {
	restricted := p.Restricted(diseases)
	out := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if _, banned := restricted[strings.ToLower(ing)]; banned {
			continue
		}
		out = append(out, ing)
	}
	return out
}
