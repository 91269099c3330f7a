package contract

import "time"

// ClientContract is a client-side contract. After approval every field is
// frozen until unapprove resets the row to draft.
type ClientContract struct {
	ID               string     `json:"id"`
	ClientID         string     `json:"clientId"`
	TypeCode         string     `json:"typeCode"`
	PatternID        string     `json:"patternId"`
	ContractName     string     `json:"contractName"`
	ContractNumber   string     `json:"contractNumber,omitempty"`
	Status           string     `json:"status"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	ContractAmount   *int64     `json:"contractAmount,omitempty"`
	BillUnit         string     `json:"billUnit,omitempty"`
	PaymentSite      string     `json:"paymentSite,omitempty"`
	BusinessContent  string     `json:"businessContent,omitempty"`
	JobCategoryID    string     `json:"jobCategoryId,omitempty"`
	Memo             string     `json:"memo,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy       string     `json:"approvedBy,omitempty"`
	IssuedAt         *time.Time `json:"issuedAt,omitempty"`
	IssuedBy         string     `json:"issuedBy,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmedAt,omitempty"`
	QuotationIssuedAt *time.Time `json:"quotationIssuedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (c ClientContract) IsDispatch() bool {
	return c.TypeCode == TypeDispatch
}

// Haken is the dispatch adjunct of a DISPATCH client contract.
type Haken struct {
	ClientContractID      string `json:"clientContractId"`
	WorkplaceDepartmentID string `json:"workplaceDepartmentId"`
	UnitDepartmentID      string `json:"unitDepartmentId"`
	WorkLocation          string `json:"workLocation,omitempty"`
	Commander             string `json:"commander,omitempty"`
	ComplaintOfficerClient  string `json:"complaintOfficerClient,omitempty"`
	ComplaintOfficerCompany string `json:"complaintOfficerCompany,omitempty"`
	ResponsiblePersonClient  string `json:"responsiblePersonClient,omitempty"`
	ResponsiblePersonCompany string `json:"responsiblePersonCompany,omitempty"`
	ResponsibilityDegree  string `json:"responsibilityDegree,omitempty"`
	LimitByAgreement      string `json:"limitByAgreement"`
	LimitIndefiniteOrSenior string `json:"limitIndefiniteOrSenior"`
}

// Ttp holds introduction-to-permanent terms; its presence caps the parent
// dispatch period at six months.
type Ttp struct {
	ClientContractID  string `json:"clientContractId"`
	EmploymentPlanned string `json:"employmentPlanned,omitempty"`
	ProbationPeriod   string `json:"probationPeriod,omitempty"`
	WageOnHire        string `json:"wageOnHire,omitempty"`
	InsuranceOnHire   string `json:"insuranceOnHire,omitempty"`
	HolidaysOnHire    string `json:"holidaysOnHire,omitempty"`
}

// HakenExempt describes a period-restriction exemption ground.
type HakenExempt struct {
	ClientContractID string `json:"clientContractId"`
	Reason           string `json:"reason"`
	Detail           string `json:"detail,omitempty"`
}

// StaffContract is a staff-side contract sharing the client contract's
// lifecycle.
type StaffContract struct {
	ID              string     `json:"id"`
	StaffID         string     `json:"staffId"`
	EmploymentType  string     `json:"employmentType"`
	PatternID       string     `json:"patternId"`
	ContractName    string     `json:"contractName"`
	ContractNumber  string     `json:"contractNumber,omitempty"`
	Status          string     `json:"status"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	ContractAmount  *int64     `json:"contractAmount,omitempty"`
	PayUnit         string     `json:"payUnit,omitempty"`
	WorkLocation    string     `json:"workLocation,omitempty"`
	BusinessContent string     `json:"businessContent,omitempty"`
	JobCategoryID   string     `json:"jobCategoryId,omitempty"`
	WorktimeText    string     `json:"worktimeText,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	IssuedAt        *time.Time `json:"issuedAt,omitempty"`
	IssuedBy        string     `json:"issuedBy,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// PrintRow is one entry of the append-only issue log. Rows survive
// unapprove and are never mutated.
type PrintRow struct {
	ID             string    `json:"id"`
	ParentID       string    `json:"parentId"`
	PrintType      string    `json:"printType"`
	DocumentTitle  string    `json:"documentTitle"`
	ContractNumber string    `json:"contractNumber"`
	FileName       string    `json:"fileName"`
	BlobHandle     string    `json:"blobHandle"`
	SHA256         string    `json:"sha256"`
	IssuedAt       time.Time `json:"issuedAt"`
	IssuedBy       string    `json:"issuedBy"`
}

// AssignmentPeriod is the slice of assignment data the validator and the
// approve path need: the linked staff contract's window and worker facts.
type AssignmentPeriod struct {
	AssignmentID    string
	StaffContractID string
	StaffID         string
	StaffName       string
	EmploymentType  string
	BirthDate       time.Time
	StartDate       time.Time
	EndDate         *time.Time
}
