package override_duration

// OverrideDurationRequest HTTP request model
type OverrideDurationRequest struct {
	DurationMinutes int    `json:"durationMinutes"`
	Note            string `json:"note"`
}
