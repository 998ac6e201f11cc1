package transition_appointment

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Status string `json:"status"`
}
