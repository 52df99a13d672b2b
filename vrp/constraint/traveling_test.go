package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vrp-engine/vrp-engine/vrp"
)

func TestTravelingModule_EvaluateRoute_RejectsOverLimit(t *testing.T) {
	actor := simpleActor("a1", nil)
	route := vrp.NewRoute(actor)
	rc := vrp.NewRouteContext(route)
	rc.State.SetRoute(vrp.TotalDistanceKey, 150.0)
	rc.State.SetRoute(vrp.TotalDurationKey, 10.0)

	limit := func(vrp.Actor) (float64, float64) { return 100, 0 }
	module := NewTravelingModule(limit, linearTransport{})
	h := &travelingHardRoute{module: module}

	job := simpleJob("j1", vrp.TaskService, 1, nil)
	violation := h.EvaluateRoute(nil, rc, job)
	assert.NotNil(t, violation)
	assert.Equal(t, codeTravelLimit, violation.Code)
}

func TestTravelingModule_EvaluateRoute_AllowsWithinLimit(t *testing.T) {
	actor := simpleActor("a1", nil)
	route := vrp.NewRoute(actor)
	rc := vrp.NewRouteContext(route)
	rc.State.SetRoute(vrp.TotalDistanceKey, 50.0)
	rc.State.SetRoute(vrp.TotalDurationKey, 10.0)

	limit := func(vrp.Actor) (float64, float64) { return 100, 0 }
	module := NewTravelingModule(limit, linearTransport{})
	h := &travelingHardRoute{module: module}

	job := simpleJob("j1", vrp.TaskService, 1, nil)
	violation := h.EvaluateRoute(nil, rc, job)
	assert.Nil(t, violation)
}

func TestTravelingModule_NoLimit_NeverRejects(t *testing.T) {
	actor := simpleActor("a1", nil)
	route := vrp.NewRoute(actor)
	rc := vrp.NewRouteContext(route)
	rc.State.SetRoute(vrp.TotalDistanceKey, 1e9)

	limit := func(vrp.Actor) (float64, float64) { return 0, 0 }
	module := NewTravelingModule(limit, linearTransport{})
	h := &travelingHardRoute{module: module}

	job := simpleJob("j1", vrp.TaskService, 1, nil)
	assert.Nil(t, h.EvaluateRoute(nil, rc, job))
}
