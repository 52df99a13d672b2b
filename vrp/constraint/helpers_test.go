package constraint

import "github.com/vrp-engine/vrp-engine/vrp"

// linearTransport is a fake Transport where distance and duration both equal
// the absolute difference between location indices, independent of profile
// or departure time.
type linearTransport struct{}

func (linearTransport) Distance(profile string, from, to vrp.Location, departure float64) float64 {
	return absLoc(from, to)
}

func (linearTransport) Duration(profile string, from, to vrp.Location, departure float64) float64 {
	return absLoc(from, to)
}

func absLoc(from, to vrp.Location) float64 {
	d := int(to) - int(from)
	if d < 0 {
		d = -d
	}
	return float64(d)
}

func simpleActor(id string, capacity vrp.Capacity) vrp.Actor {
	return vrp.Actor{
		ID: id,
		Vehicle: vrp.Vehicle{
			ID:       id + "-vehicle",
			Profile:  "car",
			Capacity: capacity,
			Shifts: []vrp.Shift{{
				Start: vrp.Place{Location: 0, Window: vrp.TimeWindow{Start: 0, End: 1000}},
				End:   &vrp.Place{Location: 0, Window: vrp.TimeWindow{Start: 0, End: 1000}},
			}},
		},
	}
}

func simpleJob(id string, kind vrp.TaskKind, location vrp.Location, demand vrp.Capacity) *vrp.Job {
	return &vrp.Job{
		ID: id,
		Tasks: []vrp.Task{{
			Kind:        kind,
			Location:    location,
			Duration:    1,
			TimeWindows: []vrp.TimeWindow{{Start: 0, End: 1000}},
			Demand:      demand,
		}},
	}
}
