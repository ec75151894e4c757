package dto

// StateResponse is the JSON structure returned by GET /api/v1/state.
//
// State carries the tracker's primary value formatted as a string, or one of
// the sentinel states: "unknown" when nothing has been observed yet,
// "unavailable" once a unit mismatch has been detected. Attributes contains
// the tracked-entity count and every extremum/last field currently set;
// absent attributes are omitted from the map rather than emitted as null.
//
// swagger:model StateResponse
type StateResponse struct {
	Name       string         `json:"name" example:"Max sensor"`
	Kind       string         `json:"kind" example:"max"`
	State      string         `json:"state" example:"21.4"`
	Unit       string         `json:"unit,omitempty" example:"°C"`
	Attributes map[string]any `json:"attributes"`
}

// StateChangeRequest is the JSON body accepted by POST /api/v1/states: one
// value-change notification for a tracked entity.
//
// swagger:model StateChangeRequest
type StateChangeRequest struct {
	EntityID string `json:"entity_id" binding:"required" example:"sensor.living_room_temperature"`
	State    string `json:"state" example:"21.37"`
	Unit     string `json:"unit,omitempty" example:"°C"`
}

// ResetResponse acknowledges a manual reset request.
//
// swagger:model ResetResponse
type ResetResponse struct {
	Status string `json:"status" example:"reset"`
}
