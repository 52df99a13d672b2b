package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vrp-engine/vrp-engine/vrp"
)

func TestCapacityModule_AcceptRouteState_TracksCumulativeDemand(t *testing.T) {
	actor := simpleActor("a1", vrp.Capacity{5})
	route := vrp.NewRoute(actor)
	pickup := simpleJob("pickup", vrp.TaskPickup, 1, vrp.Capacity{3})
	delivery := simpleJob("delivery", vrp.TaskDelivery, 2, vrp.Capacity{3})

	route.InsertTask(pickup, 0, 1)
	route.InsertTask(delivery, 0, 2)

	rc := vrp.NewRouteContext(route)
	module := NewCapacityModule()
	module.AcceptRouteState(rc)

	// index 0: start, 1: pickup (+3), 2: delivery (-3), 3: end
	v, ok := rc.State.Activity(vrp.CurrentCapacityKey, 1)
	assert.True(t, ok)
	assert.Equal(t, vrp.Capacity{3}, v.(vrp.Capacity))

	v, ok = rc.State.Activity(vrp.CurrentCapacityKey, 2)
	assert.True(t, ok)
	assert.Equal(t, vrp.Capacity{0}, v.(vrp.Capacity))
}

func TestCapacityModule_EvaluateActivity_RejectsOverflow(t *testing.T) {
	actor := simpleActor("a1", vrp.Capacity{2})
	route := vrp.NewRoute(actor)
	rc := vrp.NewRouteContext(route)

	job := simpleJob("big", vrp.TaskPickup, 1, vrp.Capacity{3})
	h := &capacityHardActivity{}

	violation := h.EvaluateActivity(rc, job, 0, 1)
	assert.NotNil(t, violation)
	assert.Equal(t, codeCapacityOverflow, violation.Code)
	assert.False(t, violation.Stopped)
}

func TestCapacityModule_EvaluateActivity_AcceptsFit(t *testing.T) {
	actor := simpleActor("a1", vrp.Capacity{5})
	route := vrp.NewRoute(actor)
	rc := vrp.NewRouteContext(route)

	job := simpleJob("small", vrp.TaskPickup, 1, vrp.Capacity{3})
	h := &capacityHardActivity{}

	violation := h.EvaluateActivity(rc, job, 0, 1)
	assert.Nil(t, violation)
}

func TestReloadIntervals_NoReloads_SpansWholeRoute(t *testing.T) {
	activities := []vrp.Activity{
		{Kind: vrp.ActivityStart},
		{Kind: vrp.ActivityTask},
		{Kind: vrp.ActivityEnd},
	}
	intervals := reloadIntervals(activities)
	assert.Equal(t, []vrp.ReloadInterval{{Start: 0, End: 2}}, intervals)
}

func TestReloadIntervals_SplitsOnReloadStops(t *testing.T) {
	activities := []vrp.Activity{
		{Kind: vrp.ActivityStart},
		{Kind: vrp.ActivityTask},
		{Kind: vrp.ActivityReload},
		{Kind: vrp.ActivityTask},
		{Kind: vrp.ActivityEnd},
	}
	intervals := reloadIntervals(activities)
	assert.Equal(t, []vrp.ReloadInterval{{Start: 0, End: 2}, {Start: 2, End: 4}}, intervals)
}
