package staff

import "time"

type Staff struct {
	ID              string     `json:"id"`
	EmployeeNo      string     `json:"employeeNo"`
	NameLast        string     `json:"nameLast"`
	NameFirst       string     `json:"nameFirst"`
	NameLastKana    string     `json:"nameLastKana"`
	NameFirstKana   string     `json:"nameFirstKana"`
	Email           string     `json:"email"`
	Sex             string     `json:"sex"`
	BirthDate       time.Time  `json:"birthDate"`
	HireDate        *time.Time `json:"hireDate,omitempty"`
	ResignationDate *time.Time `json:"resignationDate,omitempty"`
	DepartmentCode  string     `json:"departmentCode,omitempty"`

	HasInternational bool `json:"hasInternational"`
	HasDisability    bool `json:"hasDisability"`
}

func (s Staff) FullName() string {
	return s.NameLast + " " + s.NameFirst
}

// AgeAt returns the age in completed years on the given date.
func (s Staff) AgeAt(on time.Time) int {
	age := on.Year() - s.BirthDate.Year()
	anniversary := time.Date(on.Year(), s.BirthDate.Month(), s.BirthDate.Day(), 0, 0, 0, 0, time.UTC)
	if on.Before(anniversary) {
		age--
	}
	return age
}

// International holds the residence-card profile for foreign workers.
type International struct {
	StaffID           string     `json:"staffId"`
	ResidenceStatus   string     `json:"residenceStatus"`
	ResidencePeriodTo *time.Time `json:"residencePeriodTo,omitempty"`
	ResidenceCardNo   string     `json:"residenceCardNo"`
}

type Disability struct {
	StaffID        string `json:"staffId"`
	DisabilityType string `json:"disabilityType"`
	Severity       string `json:"severity"`
}

// InsuranceEnrollment mirrors the social-insurance join dates recorded per
// staff; a nil date means not enrolled.
type InsuranceEnrollment struct {
	StaffID                   string     `json:"staffId"`
	HealthInsuranceJoined     *time.Time `json:"healthInsuranceJoined,omitempty"`
	WelfarePensionJoined      *time.Time `json:"welfarePensionJoined,omitempty"`
	EmploymentInsuranceJoined *time.Time `json:"employmentInsuranceJoined,omitempty"`
	NonEnrollmentReason       string     `json:"nonEnrollmentReason,omitempty"`
}
