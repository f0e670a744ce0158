package irrigation

import "fmt"

// LowMoistureThreshold is the soil moisture percentage below which watering
// should be stepped up.
const LowMoistureThreshold = 50.0

const (
	ActionIncrease = "increase irrigation frequency"
	ActionMaintain = "maintain current irrigation schedule"
)

// Advice is the irrigation recommendation for one reading.
type Advice struct {
	Moisture float64 `json:"moisture"`
	Action   string  `json:"action"`
	Message  string  `json:"message"`
}

// Advise recommends more frequent watering when soil moisture is low.
func Advise(r Reading) Advice {
	action := ActionMaintain
	if r.Moisture < LowMoistureThreshold {
		action = ActionIncrease
	}
	return Advice{
		Moisture: r.Moisture,
		Action:   action,
		Message: fmt.Sprintf("Based on current soil moisture (%.1f%%) and weather conditions, it's recommended to %s.",
			r.Moisture, action),
	}
}
