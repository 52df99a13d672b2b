package constraint

import "github.com/vrp-engine/vrp-engine/vrp"

const (
	codeSkillsMissing vrp.ViolationCode = iota + 500
)

// SkillsModule enforces that a job naming required skills is only placed on
// an actor whose vehicle carries every one of them. A job with no skills
// requirement is unconstrained. Supplemented from original_source/'s skill
// matching beyond what spec.md's distilled §4.2 module list names (SPEC_FULL
// §4.2).
type SkillsModule struct{}

// NewSkillsModule returns a SkillsModule.
func NewSkillsModule() *SkillsModule { return &SkillsModule{} }

func (m *SkillsModule) AcceptInsertion(*vrp.SolutionContext, *vrp.RouteContext, *vrp.Job) {}

func (m *SkillsModule) AcceptRouteState(*vrp.RouteContext) {}

func (m *SkillsModule) AcceptSolutionState(*vrp.SolutionContext) {}

func (m *SkillsModule) StateKeys() []string { return nil }

func (m *SkillsModule) Constraints() []vrp.ConstraintVariant {
	return []vrp.ConstraintVariant{vrp.HardRouteVariant(&skillsHardRoute{})}
}

type skillsHardRoute struct{}

func (h *skillsHardRoute) EvaluateRoute(solution *vrp.SolutionContext, route *vrp.RouteContext, job *vrp.Job) *vrp.RouteViolation {
	if len(job.Skills) == 0 {
		return nil
	}
	carried := route.Route.Actor.Vehicle.Skills
	for _, required := range job.Skills {
		if !contains(carried, required) {
			return &vrp.RouteViolation{Code: codeSkillsMissing}
		}
	}
	return nil
}
