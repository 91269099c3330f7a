package teishokubi

import "time"

// Key identifies one restriction record. The fields are value snapshots
// taken from the assignment, not foreign keys, so renaming a client or an
// organizational unit does not rewrite history.
type Key struct {
	StaffEmail            string `json:"staffEmail"`
	ClientCorporateNumber string `json:"clientCorporateNumber"`
	OrganizationName      string `json:"organizationName"`
}

// Record is the derived period-restriction header for one key.
type Record struct {
	ID                string    `json:"id"`
	Key               Key       `json:"key"`
	DispatchStartDate time.Time `json:"dispatchStartDate"`
	ConflictDate      time.Time `json:"conflictDate"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Detail is one historical period under a record. IsCalculated marks
// membership in the currently-counted streak; IsManual marks human-entered
// rows which recomputation must never delete.
type Detail struct {
	ID           string     `json:"id"`
	TeishokubiID string     `json:"teishokubiId"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	IsCalculated bool       `json:"isCalculated"`
	IsManual     bool       `json:"isManual"`
}
