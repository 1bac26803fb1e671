// Package guard decides, per navigation, whether the current identity may
// view a path and where to send it otherwise. Decisions are a pure function
// of (roles, path, authenticated, loading); nothing is cached between
// evaluations.
package guard

import "strings"

// State is the outcome of one evaluation.
type State int

const (
	// Pending: the session is still rehydrating; no decision is made and
	// nothing should render yet.
	Pending State = iota
	// Unauthenticated: redirect to the login screen.
	Unauthenticated
	// Allowed: render.
	Allowed
	// Denied: redirect to the matched rule's fallback path.
	Denied
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Unauthenticated:
		return "unauthenticated"
	case Allowed:
		return "allowed"
	default:
		return "denied"
	}
}

// Decision carries the state and, for redirecting states, the target path.
type Decision struct {
	State    State
	Redirect string
}

// Guard evaluates navigations against a rule table.
type Guard struct {
	rules []Rule
}

func New(rules ...Rule) *Guard {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Guard{rules: sortedBySpecificity(rules)}
}

// Evaluate runs the authorization check for one navigation. When several
// rule prefixes match the path, the longest one wins; a path matching no
// rule is an open route.
func (g *Guard) Evaluate(path string, authenticated, loading bool, roles []string) Decision {
	if loading {
		return Decision{State: Pending}
	}
	if !authenticated {
		return Decision{State: Unauthenticated, Redirect: LoginPath}
	}

	persona := DerivePersona(roles)
	for _, rule := range g.rules {
		if !strings.HasPrefix(path, rule.Prefix) {
			continue
		}
		if rule.allows(persona) {
			return Decision{State: Allowed}
		}
		return Decision{State: Denied, Redirect: rule.Redirect}
	}
	return Decision{State: Allowed}
}
