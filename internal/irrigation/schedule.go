package irrigation

// Slot statuses.
const (
	SlotCompleted = "completed"
	SlotActive    = "active"
	SlotScheduled = "scheduled"
)

// Slot is one watering window of the daily schedule.
type Slot struct {
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
}

// DefaultSchedule returns the fixed daily watering plan.
func DefaultSchedule() []Slot {
	return []Slot{
		{Time: "06:00", DurationMinutes: 30, Status: SlotCompleted},
		{Time: "12:00", DurationMinutes: 45, Status: SlotActive},
		{Time: "18:00", DurationMinutes: 30, Status: SlotScheduled},
	}
}
