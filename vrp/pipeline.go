package vrp

// RouteViolation is the structured, machine-readable reason a job cannot be
// inserted into a particular route at all (§4.2 HardRoute, §7).
type RouteViolation struct {
	Code ViolationCode
}

// ActivityViolation is the structured reason a specific slot within a route is
// infeasible for a job's task (§4.2 HardActivity, §7). Stopped, when true,
// tells the insertion heuristic to abandon every remaining slot in this route
// for this job rather than keep probing — e.g. once a time window has been
// passed moving forward along the route, no later slot in the same route can
// help.
type ActivityViolation struct {
	Code    ViolationCode
	Stopped bool
}

// HardRouteConstraint is queried once per (job, route) candidate before any
// activity-level evaluation.
type HardRouteConstraint interface {
	EvaluateRoute(solution *SolutionContext, route *RouteContext, job *Job) *RouteViolation
}

// HardActivityConstraint is queried once per (job, route, slot) candidate.
type HardActivityConstraint interface {
	EvaluateActivity(route *RouteContext, job *Job, taskIndex, pos int) *ActivityViolation
}

// SoftRouteConstraint contributes a cost delta for a (job, route) candidate
// that survived every HardRouteConstraint.
type SoftRouteConstraint interface {
	EstimateRoute(solution *SolutionContext, route *RouteContext, job *Job) float64
}

// SoftActivityConstraint contributes a cost delta for a (job, route, slot)
// candidate that survived every HardActivityConstraint.
type SoftActivityConstraint interface {
	EstimateActivity(route *RouteContext, job *Job, taskIndex, pos int) float64
}

// ConstraintVariantKind tags which of the four capability shapes a
// ConstraintVariant carries. Re-expressed from the original's open trait-object
// capability set (REDESIGN FLAGS §9) as a tagged variant: a registered module
// contributes a list of these, and the pipeline dispatches on Kind rather than
// on dynamic trait queries.
type ConstraintVariantKind int

const (
	VariantHardRoute ConstraintVariantKind = iota
	VariantHardActivity
	VariantSoftRoute
	VariantSoftActivity
)

// ConstraintVariant is one contribution a ConstraintModule makes to the
// pipeline. Exactly one of the four interface fields is non-nil, matching Kind.
type ConstraintVariant struct {
	Kind ConstraintVariantKind

	HardRoute    HardRouteConstraint
	HardActivity HardActivityConstraint
	SoftRoute    SoftRouteConstraint
	SoftActivity SoftActivityConstraint
}

// HardRouteVariant wraps a HardRouteConstraint as a registered contribution.
func HardRouteVariant(c HardRouteConstraint) ConstraintVariant {
	return ConstraintVariant{Kind: VariantHardRoute, HardRoute: c}
}

// HardActivityVariant wraps a HardActivityConstraint as a registered contribution.
func HardActivityVariant(c HardActivityConstraint) ConstraintVariant {
	return ConstraintVariant{Kind: VariantHardActivity, HardActivity: c}
}

// SoftRouteVariant wraps a SoftRouteConstraint as a registered contribution.
func SoftRouteVariant(c SoftRouteConstraint) ConstraintVariant {
	return ConstraintVariant{Kind: VariantSoftRoute, SoftRoute: c}
}

// SoftActivityVariant wraps a SoftActivityConstraint as a registered contribution.
func SoftActivityVariant(c SoftActivityConstraint) ConstraintVariant {
	return ConstraintVariant{Kind: VariantSoftActivity, SoftActivity: c}
}

// ConstraintModule is one composable unit of the pipeline (§4.2). Modules are
// registered once, in the order their contributions should be evaluated.
type ConstraintModule interface {
	// AcceptInsertion is called after job has been inserted into route.
	AcceptInsertion(solution *SolutionContext, route *RouteContext, job *Job)
	// AcceptRouteState is called after any mutation to route; must rebuild
	// every cached value this module owns from scratch.
	AcceptRouteState(route *RouteContext)
	// AcceptSolutionState is called once a recreate pass completes.
	AcceptSolutionState(solution *SolutionContext)
	// StateKeys enumerates the opaque state keys this module reads or writes.
	StateKeys() []string
	// Constraints enumerates this module's contributions to the pipeline.
	Constraints() []ConstraintVariant
}

// Pipeline composes zero or more ConstraintModules into the ordered hard/soft
// evaluation spec.md §4.2 describes. Evaluation order is module registration
// order; a hard violation short-circuits remaining hard checks for the same
// candidate and suppresses all soft evaluation for it.
type Pipeline struct {
	modules       []ConstraintModule
	hardRoutes    []HardRouteConstraint
	hardActivity  []HardActivityConstraint
	softRoutes    []SoftRouteConstraint
	softActivity  []SoftActivityConstraint
}

// NewPipeline composes modules, in registration order, into a Pipeline.
func NewPipeline(modules ...ConstraintModule) *Pipeline {
	p := &Pipeline{modules: modules}
	for _, m := range modules {
		for _, c := range m.Constraints() {
			switch c.Kind {
			case VariantHardRoute:
				p.hardRoutes = append(p.hardRoutes, c.HardRoute)
			case VariantHardActivity:
				p.hardActivity = append(p.hardActivity, c.HardActivity)
			case VariantSoftRoute:
				p.softRoutes = append(p.softRoutes, c.SoftRoute)
			case VariantSoftActivity:
				p.softActivity = append(p.softActivity, c.SoftActivity)
			}
		}
	}
	return p
}

// Modules returns the registered modules, in registration order.
func (p *Pipeline) Modules() []ConstraintModule { return p.modules }

// EvaluateRoute runs every HardRouteConstraint for (job, route), returning the
// first violation encountered, or nil if the route is feasible for job.
func (p *Pipeline) EvaluateRoute(solution *SolutionContext, route *RouteContext, job *Job) *RouteViolation {
	for _, c := range p.hardRoutes {
		if v := c.EvaluateRoute(solution, route, job); v != nil {
			return v
		}
	}
	return nil
}

// EvaluateActivity runs every HardActivityConstraint for the (job, route,
// slot) candidate, returning the first violation encountered, or nil if the
// slot is feasible.
func (p *Pipeline) EvaluateActivity(route *RouteContext, job *Job, taskIndex, pos int) *ActivityViolation {
	for _, c := range p.hardActivity {
		if v := c.EvaluateActivity(route, job, taskIndex, pos); v != nil {
			return v
		}
	}
	return nil
}

// EstimateRoute sums every SoftRouteConstraint's cost delta for (job, route).
func (p *Pipeline) EstimateRoute(solution *SolutionContext, route *RouteContext, job *Job) float64 {
	total := 0.0
	for _, c := range p.softRoutes {
		total += c.EstimateRoute(solution, route, job)
	}
	return total
}

// EstimateActivity sums every SoftActivityConstraint's cost delta for the
// (job, route, slot) candidate.
func (p *Pipeline) EstimateActivity(route *RouteContext, job *Job, taskIndex, pos int) float64 {
	total := 0.0
	for _, c := range p.softActivity {
		total += c.EstimateActivity(route, job, taskIndex, pos)
	}
	return total
}

// AcceptInsertion notifies every module that job was inserted into route.
func (p *Pipeline) AcceptInsertion(solution *SolutionContext, route *RouteContext, job *Job) {
	for _, m := range p.modules {
		m.AcceptInsertion(solution, route, job)
	}
}

// AcceptRouteState notifies every module to rebuild its cached state for route.
func (p *Pipeline) AcceptRouteState(route *RouteContext) {
	for _, m := range p.modules {
		m.AcceptRouteState(route)
	}
}

// AcceptSolutionState notifies every module that a recreate pass completed.
func (p *Pipeline) AcceptSolutionState(solution *SolutionContext) {
	for _, m := range p.modules {
		m.AcceptSolutionState(solution)
	}
}
