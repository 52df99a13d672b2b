package constraint

import "github.com/vrp-engine/vrp-engine/vrp"

// JobPredicate decides whether a wrapped constraint applies to job at all.
type JobPredicate func(job *vrp.Job) bool

// ConditionalModule wraps another ConstraintModule so its constraints are
// only evaluated for jobs matching predicate (§4.2 "Conditional"). Jobs that
// don't match skip the wrapped module entirely rather than trivially passing
// it, so a predicate can be used to scope an otherwise-global module (e.g.
// StrictLocking) down to a job subset without touching the module itself.
type ConditionalModule struct {
	inner     vrp.ConstraintModule
	predicate JobPredicate
}

// NewConditionalModule returns a ConditionalModule gating inner by predicate.
func NewConditionalModule(inner vrp.ConstraintModule, predicate JobPredicate) *ConditionalModule {
	return &ConditionalModule{inner: inner, predicate: predicate}
}

func (m *ConditionalModule) AcceptInsertion(solution *vrp.SolutionContext, route *vrp.RouteContext, job *vrp.Job) {
	if m.predicate(job) {
		m.inner.AcceptInsertion(solution, route, job)
	}
}

func (m *ConditionalModule) AcceptRouteState(route *vrp.RouteContext) { m.inner.AcceptRouteState(route) }

func (m *ConditionalModule) AcceptSolutionState(solution *vrp.SolutionContext) {
	m.inner.AcceptSolutionState(solution)
}

func (m *ConditionalModule) StateKeys() []string { return m.inner.StateKeys() }

func (m *ConditionalModule) Constraints() []vrp.ConstraintVariant {
	var out []vrp.ConstraintVariant
	for _, variant := range m.inner.Constraints() {
		out = append(out, m.wrap(variant))
	}
	return out
}

func (m *ConditionalModule) wrap(variant vrp.ConstraintVariant) vrp.ConstraintVariant {
	switch variant.Kind {
	case vrp.VariantHardRoute:
		return vrp.HardRouteVariant(&conditionalHardRoute{module: m, inner: variant.HardRoute})
	case vrp.VariantHardActivity:
		return vrp.HardActivityVariant(&conditionalHardActivity{module: m, inner: variant.HardActivity})
	case vrp.VariantSoftRoute:
		return vrp.SoftRouteVariant(&conditionalSoftRoute{module: m, inner: variant.SoftRoute})
	default:
		return vrp.SoftActivityVariant(&conditionalSoftActivity{module: m, inner: variant.SoftActivity})
	}
}

type conditionalHardRoute struct {
	module *ConditionalModule
	inner  vrp.HardRouteConstraint
}

func (c *conditionalHardRoute) EvaluateRoute(solution *vrp.SolutionContext, route *vrp.RouteContext, job *vrp.Job) *vrp.RouteViolation {
	if !c.module.predicate(job) {
		return nil
	}
	return c.inner.EvaluateRoute(solution, route, job)
}

type conditionalHardActivity struct {
	module *ConditionalModule
	inner  vrp.HardActivityConstraint
}

func (c *conditionalHardActivity) EvaluateActivity(route *vrp.RouteContext, job *vrp.Job, taskIndex, pos int) *vrp.ActivityViolation {
	if !c.module.predicate(job) {
		return nil
	}
	return c.inner.EvaluateActivity(route, job, taskIndex, pos)
}

type conditionalSoftRoute struct {
	module *ConditionalModule
	inner  vrp.SoftRouteConstraint
}

func (c *conditionalSoftRoute) EstimateRoute(solution *vrp.SolutionContext, route *vrp.RouteContext, job *vrp.Job) float64 {
	if !c.module.predicate(job) {
		return 0
	}
	return c.inner.EstimateRoute(solution, route, job)
}

type conditionalSoftActivity struct {
	module *ConditionalModule
	inner  vrp.SoftActivityConstraint
}

func (c *conditionalSoftActivity) EstimateActivity(route *vrp.RouteContext, job *vrp.Job, taskIndex, pos int) float64 {
	if !c.module.predicate(job) {
		return 0
	}
	return c.inner.EstimateActivity(route, job, taskIndex, pos)
}
