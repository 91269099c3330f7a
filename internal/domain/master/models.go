package master

import "time"

// Pattern domains and clause positions mirror the authoring master data.
const (
	DomainStaff  = "1"
	DomainClient = "10"

	PositionPreamble  = 1
	PositionBody      = 2
	PositionPostamble = 3
)

// ContractPattern is a reusable contract template.
type ContractPattern struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Domain           string   `json:"domain"`
	ContractTypeCode string   `json:"contractTypeCode"`
	Clauses          []Clause `json:"clauses"`
}

// Clause is one block of template text. Body text may contain {{name}}
// placeholders substituted at composition time.
type Clause struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Ordinal  int    `json:"ordinal"`
	Label    string `json:"label"`
	Body     string `json:"body"`
}

// ClausesAt returns the pattern's clauses at a display position, already
// ordered by ordinal.
func (p ContractPattern) ClausesAt(position int) []Clause {
	var out []Clause
	for _, c := range p.Clauses {
		if c.Position == position {
			out = append(out, c)
		}
	}
	return out
}

// Dropdown is one (value, label) choice of a named category.
type Dropdown struct {
	Category string `json:"category"`
	Value    string `json:"value"`
	Name     string `json:"name"`
	Seq      int    `json:"seq"`
}

// MinimumWage is the statutory hourly minimum for a prefecture from an
// effective date.
type MinimumWage struct {
	PrefectureCode string    `json:"prefectureCode"`
	HourlyWage     int       `json:"hourlyWage"`
	EffectiveFrom  time.Time `json:"effectiveFrom"`
}

// JobCategory carries the per-category dispatch flags referenced during
// validation and composition.
type JobCategory struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	IsManufacturingDispatch bool   `json:"isManufacturingDispatch"`
	AcceptsForeignWorker    bool   `json:"acceptsForeignWorker"`
}

// StaffAgreement is the agreement text a staff member must accept before
// confirming an issued employment document.
type StaffAgreement struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
