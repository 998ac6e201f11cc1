package cancel_appointment

// CancelRequest HTTP request model, тело запроса необязательно
type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}
