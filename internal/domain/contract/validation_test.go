package contract

import (
	"testing"
	"time"

	"haken/internal/domain/client"
	"haken/internal/domain/master"
	"haken/internal/domain/staff"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func dp(y int, m time.Month, day int) *time.Time {
	t := d(y, m, day)
	return &t
}

func i64(v int64) *int64 { return &v }

func violated(t *testing.T, err error, rule string) {
	t.Helper()
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, v := range ve.Violations {
		if v.Rule == rule {
			return
		}
	}
	t.Fatalf("expected rule %s in violations %+v", rule, ve.Violations)
}

func notViolated(t *testing.T, err error, rule string) {
	t.Helper()
	if err == nil {
		return
	}
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error or nil, got %v", err)
	}
	for _, v := range ve.Violations {
		if v.Rule == rule {
			t.Fatalf("did not expect rule %s, got %+v", rule, ve.Violations)
		}
	}
}

func TestHourlyRate(t *testing.T) {
	if got := HourlyRate(1200, PayUnitHourly); got != 1200 {
		t.Fatalf("hourly: got %d", got)
	}
	if got := HourlyRate(16000, PayUnitDaily); got != 2000 {
		t.Fatalf("daily: got %d", got)
	}
	if got := HourlyRate(320000, PayUnitMonthly); got != 2000 {
		t.Fatalf("monthly: got %d", got)
	}
	if got := HourlyRate(100, "99"); got != 0 {
		t.Fatalf("unknown unit should not convert, got %d", got)
	}
}

func TestValidateStaffContractMinWage(t *testing.T) {
	wage := 1100
	in := StaffContractInput{
		Contract: StaffContract{
			StartDate:      d(2025, 4, 1),
			EndDate:        dp(2025, 9, 30),
			ContractAmount: i64(1000),
			PayUnit:        PayUnitHourly,
		},
		Staff:       staff.Staff{HireDate: dp(2024, 1, 1)},
		MinimumWage: &wage,
	}
	violated(t, ValidateStaffContract(in), RuleMinWage)

	in.Contract.ContractAmount = i64(1100)
	notViolated(t, ValidateStaffContract(in), RuleMinWage)
}

func TestValidateStaffContractResidence(t *testing.T) {
	in := StaffContractInput{
		Contract: StaffContract{
			StartDate: d(2025, 4, 1),
			EndDate:   dp(2025, 12, 31),
		},
		Staff:         staff.Staff{},
		International: &staff.International{ResidencePeriodTo: dp(2025, 9, 30)},
	}
	violated(t, ValidateStaffContract(in), RuleResidenceExpired)

	in.Contract.EndDate = dp(2025, 9, 30)
	notViolated(t, ValidateStaffContract(in), RuleResidenceExpired)

	// Open-ended contracts always exceed a finite residence period.
	in.Contract.EndDate = nil
	violated(t, ValidateStaffContract(in), RuleResidenceExpired)
}

func TestValidateStaffContractCategory(t *testing.T) {
	in := StaffContractInput{
		Contract:      StaffContract{StartDate: d(2025, 4, 1), EndDate: dp(2025, 6, 30)},
		Staff:         staff.Staff{},
		International: &staff.International{ResidencePeriodTo: dp(2026, 1, 1)},
		JobCategory:   &master.JobCategory{AcceptsForeignWorker: false},
	}
	violated(t, ValidateStaffContract(in), RuleCategoryMismatch)

	in.JobCategory.AcceptsForeignWorker = true
	notViolated(t, ValidateStaffContract(in), RuleCategoryMismatch)
}

func TestValidateStaffContractHireAndResignation(t *testing.T) {
	in := StaffContractInput{
		Contract: StaffContract{StartDate: d(2023, 12, 1), EndDate: dp(2024, 6, 30)},
		Staff:    staff.Staff{HireDate: dp(2024, 1, 1)},
	}
	violated(t, ValidateStaffContract(in), RuleHireDate)

	in.Contract.StartDate = d(2024, 1, 1)
	in.Staff.ResignationDate = dp(2024, 3, 31)
	violated(t, ValidateStaffContract(in), RuleResignation)

	in.Contract.EndDate = dp(2024, 3, 31)
	notViolated(t, ValidateStaffContract(in), RuleResignation)
}

func baseClientInput() ClientContractInput {
	return ClientContractInput{
		Contract: ClientContract{
			TypeCode:  TypeDispatch,
			StartDate: d(2024, 4, 1),
			EndDate:   dp(2025, 3, 31),
		},
		Client: client.Client{
			CorporateNumber:        "1234567890123",
			BasicContractDateHaken: dp(2024, 1, 1),
		},
		Haken: &Haken{LimitIndefiniteOrSenior: LimitNotLimited},
	}
}

func TestValidateClientContractBaseDate(t *testing.T) {
	in := baseClientInput()
	in.Client.BasicContractDateHaken = nil
	violated(t, ValidateClientContract(in), RuleBaseContractMissing)

	in = baseClientInput()
	in.Contract.StartDate = d(2023, 12, 31)
	violated(t, ValidateClientContract(in), RuleBaseContractMissing)

	// A WORK contract checks the plain basic contract date instead.
	in = baseClientInput()
	in.Contract.TypeCode = TypeWork
	in.Client.BasicContractDate = dp(2024, 1, 1)
	notViolated(t, ValidateClientContract(in), RuleBaseContractMissing)
}

func TestValidateClientContractHakenRequired(t *testing.T) {
	in := baseClientInput()
	in.Haken = nil
	violated(t, ValidateClientContract(in), RuleHakenRequired)
}

func TestValidateClientContractTtpCap(t *testing.T) {
	in := baseClientInput()
	in.Ttp = &Ttp{}
	in.Contract.StartDate = d(2025, 1, 1)

	// Exactly six months inclusive is accepted.
	in.Contract.EndDate = dp(2025, 6, 30)
	notViolated(t, ValidateClientContract(in), RuleTtpPeriodExceeded)

	// Six months plus one day is rejected.
	in.Contract.EndDate = dp(2025, 7, 1)
	violated(t, ValidateClientContract(in), RuleTtpPeriodExceeded)

	in.Contract.EndDate = nil
	violated(t, ValidateClientContract(in), RuleTtpPeriodExceeded)
}

func TestValidateClientContractPaymentSite(t *testing.T) {
	in := baseClientInput()
	in.Client.DefaultPaymentSite = "30"
	in.Contract.PaymentSite = "60"
	violated(t, ValidateClientContract(in), RulePaymentSite)

	in.Contract.PaymentSite = "30"
	notViolated(t, ValidateClientContract(in), RulePaymentSite)
}

func TestAssignmentPeriodOverlap(t *testing.T) {
	in := baseClientInput()
	in.Assignments = []AssignmentPeriod{{
		StaffName:      "山田 太郎",
		EmploymentType: EmploymentFixedTerm,
		BirthDate:      d(1990, 1, 1),
		StartDate:      d(2025, 4, 1),
		EndDate:        dp(2025, 9, 30),
	}}
	// Starts the day after the client contract ends.
	in.Contract.EndDate = dp(2025, 3, 31)
	violated(t, ValidateClientContract(in), RulePeriodDisjoint)

	in.Assignments[0].StartDate = d(2025, 3, 31)
	notViolated(t, ValidateClientContract(in), RulePeriodDisjoint)
}

func TestAssignmentWorkerEligibility(t *testing.T) {
	in := baseClientInput()
	in.Haken.LimitIndefiniteOrSenior = LimitLimited
	in.Assignments = []AssignmentPeriod{{
		StaffName:      "佐藤 花子",
		EmploymentType: EmploymentFixedTerm,
		BirthDate:      d(1990, 5, 10),
		StartDate:      d(2024, 4, 1),
		EndDate:        dp(2025, 3, 31),
	}}
	violated(t, ValidateClientContract(in), RuleWorkerEligibility)

	// Indefinite employment passes.
	in.Assignments[0].EmploymentType = EmploymentIndefinite
	notViolated(t, ValidateClientContract(in), RuleWorkerEligibility)

	// Turning 60 on the assignment start date passes.
	in.Assignments[0].EmploymentType = EmploymentFixedTerm
	in.Assignments[0].BirthDate = d(1964, 4, 1)
	notViolated(t, ValidateClientContract(in), RuleWorkerEligibility)

	// One day short of 60 fails.
	in.Assignments[0].BirthDate = d(1964, 4, 2)
	violated(t, ValidateClientContract(in), RuleWorkerEligibility)
}

func TestValidationAccumulatesAllRules(t *testing.T) {
	in := baseClientInput()
	in.Haken = nil
	in.Client.BasicContractDateHaken = nil
	err := ValidateClientContract(in)
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Violations) < 2 {
		t.Fatalf("expected accumulated violations, got %+v", ve.Violations)
	}
}
