package guard

import "sort"

// Rule protects every path under Prefix: personas outside Allowed are sent
// to Redirect instead.
type Rule struct {
	Prefix   string
	Allowed  []Persona
	Redirect string
}

func (r Rule) allows(p Persona) bool {
	for _, allowed := range r.Allowed {
		if allowed == p {
			return true
		}
	}
	return false
}

// LoginPath is where unauthenticated navigations land.
const LoginPath = "/login"

// DefaultRules protects the dashboard sections. Paths not covered by any
// rule are open routes.
var DefaultRules = []Rule{
	{Prefix: "/dashboard", Allowed: []Persona{Admin, Instructor}, Redirect: "/dashboard/learning"},
	{Prefix: "/dashboard/users", Allowed: []Persona{Admin}, Redirect: "/dashboard"},
	{Prefix: "/dashboard/courses", Allowed: []Persona{Admin, Instructor}, Redirect: "/dashboard/learning"},
	{Prefix: "/dashboard/learning", Allowed: []Persona{Student, Admin, Instructor}, Redirect: "/dashboard"},
	{Prefix: "/dashboard/settings", Allowed: []Persona{Admin}, Redirect: "/dashboard"},
}

// sortedBySpecificity returns the rules ordered longest prefix first, so the
// most specific rule wins regardless of declaration order. The sort is
// stable: equal-length prefixes keep their declaration order.
func sortedBySpecificity(rules []Rule) []Rule {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return sorted
}
