package common

import "fmt"

// schema for geographic location (degrees)
// preconditions: latitude in [-90, 90], longitude in [-180, 180];
// out-of-range coordinates are the caller's problem
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// schema for transit stop
type Stop struct {
	ID       string   `json:"stop_id"`
	Name     string   `json:"stop_name"`
	Location Location `json:"location"`
}

func (s Stop) String() string {
	return fmt.Sprintf(
		"%s (%0.6f, %0.6f)",
		s.ID,
		s.Location.Latitude,
		s.Location.Longitude,
	)
}

// schema for route: ordered stop sequence, stop 0 is the depot.
// built once from topology, read-only during optimization
type Route struct {
	ID    string `json:"route_id"`
	Stops []Stop `json:"stops"`
}

// locations of all stops, in sequence order
func (r Route) Locations() []Location {
	locs := make([]Location, len(r.Stops))
	for i, s := range r.Stops {
		locs[i] = s.Location
	}
	return locs
}
