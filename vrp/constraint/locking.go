package constraint

import "github.com/vrp-engine/vrp-engine/vrp"

const (
	codeLocking vrp.ViolationCode = iota + 400
)

// LockRule pins a job to one of a set of allowed actor IDs, or forbids it
// from a set of disallowed actor IDs. Exactly one of Allowed/Disallowed is
// expected to be non-empty for a given job; both empty means "unconstrained"
// and the rule has no effect.
type LockRule struct {
	JobID      string
	Allowed    []string
	Disallowed []string
}

// StrictLockingModule enforces per-job actor pinning and exclusion (§4.2
// "Strict Locking"): a locked job may only be served by an allowed actor, and
// never by a disallowed one.
type StrictLockingModule struct {
	rules map[string]LockRule
}

// NewStrictLockingModule returns a StrictLockingModule enforcing rules.
func NewStrictLockingModule(rules []LockRule) *StrictLockingModule {
	byJob := make(map[string]LockRule, len(rules))
	for _, r := range rules {
		byJob[r.JobID] = r
	}
	return &StrictLockingModule{rules: byJob}
}

func (m *StrictLockingModule) AcceptInsertion(*vrp.SolutionContext, *vrp.RouteContext, *vrp.Job) {}

func (m *StrictLockingModule) AcceptRouteState(*vrp.RouteContext) {}

func (m *StrictLockingModule) AcceptSolutionState(*vrp.SolutionContext) {}

func (m *StrictLockingModule) StateKeys() []string { return nil }

func (m *StrictLockingModule) Constraints() []vrp.ConstraintVariant {
	return []vrp.ConstraintVariant{vrp.HardRouteVariant(&lockingHardRoute{module: m})}
}

type lockingHardRoute struct{ module *StrictLockingModule }

func (h *lockingHardRoute) EvaluateRoute(solution *vrp.SolutionContext, route *vrp.RouteContext, job *vrp.Job) *vrp.RouteViolation {
	rule, ok := h.module.rules[job.ID]
	if !ok {
		return nil
	}
	actorID := route.Route.Actor.ID
	if len(rule.Allowed) > 0 && !contains(rule.Allowed, actorID) {
		return &vrp.RouteViolation{Code: codeLocking}
	}
	if contains(rule.Disallowed, actorID) {
		return &vrp.RouteViolation{Code: codeLocking}
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
