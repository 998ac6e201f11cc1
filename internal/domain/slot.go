package domain

import "github.com/m04kA/SMC-SalonScheduling/pkg/types"

// SlotAvailability is a candidate start time annotated against existing appointments
type SlotAvailability struct {
	Start                     types.TimeString
	Available                 bool
	ConflictingAppointmentIDs []int64
}
