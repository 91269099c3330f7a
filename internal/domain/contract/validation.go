package contract

import (
	"fmt"
	"time"

	"haken/internal/domain/client"
	"haken/internal/domain/master"
	"haken/internal/domain/staff"
)

// Rule identifiers carried on violations.
const (
	RuleMinWage             = "MinWageViolation"
	RuleResidenceExpired    = "ResidenceExpired"
	RuleCategoryMismatch    = "CategoryMismatch"
	RuleWorkerEligibility   = "WorkerEligibility"
	RuleTtpPeriodExceeded   = "TtpPeriodExceeded"
	RulePeriodDisjoint      = "PeriodDisjoint"
	RuleBaseContractMissing = "BaseContractMissing"
	RulePeriodOrder         = "PeriodOrder"
	RulePaymentSite         = "PaymentSiteMismatch"
	RuleHakenRequired       = "HakenRequired"
	RuleHireDate            = "HireDateOrder"
	RuleResignation         = "ResignationOrder"
)

const hoursPerDay = 8

// workDaysPerMonth backs the monthly-to-hourly conversion for the minimum
// wage check.
const workDaysPerMonth = 20

// HourlyRate converts a contract amount to an hourly figure. Zero means the
// unit is not convertible and the minimum wage rule does not apply.
func HourlyRate(amount int64, payUnit string) int64 {
	switch payUnit {
	case PayUnitHourly:
		return amount
	case PayUnitDaily:
		return amount / hoursPerDay
	case PayUnitMonthly:
		return amount / (hoursPerDay * workDaysPerMonth)
	default:
		return 0
	}
}

// StaffContractInput carries everything the staff-side rules need, already
// loaded. MinimumWage is nil when no statutory rate could be resolved for
// the work location.
type StaffContractInput struct {
	Contract      StaffContract
	Staff         staff.Staff
	International *staff.International
	JobCategory   *master.JobCategory
	MinimumWage   *int
}

// ClientContractInput carries the client-side rule inputs.
type ClientContractInput struct {
	Contract    ClientContract
	Client      client.Client
	Haken       *Haken
	Ttp         *Ttp
	Exempt      *HakenExempt
	Assignments []AssignmentPeriod
}

// ValidateStaffContract evaluates every applicable staff-side rule and
// returns the accumulated violations, or nil.
func ValidateStaffContract(in StaffContractInput) error {
	ve := &ValidationError{}
	c := in.Contract

	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		ve.Add(RulePeriodOrder, "end_date", "契約終了日は契約開始日以降の日付を指定してください。")
	}
	if in.Staff.HireDate != nil && c.StartDate.Before(*in.Staff.HireDate) {
		ve.Add(RuleHireDate, "start_date", "契約開始日は入社日以降の日付を指定してください。")
	}
	if in.Staff.ResignationDate != nil {
		if c.EndDate == nil || c.EndDate.After(*in.Staff.ResignationDate) {
			ve.Add(RuleResignation, "end_date", "契約終了日は退職日以前の日付を指定してください。")
		}
	}

	if in.MinimumWage != nil && c.ContractAmount != nil {
		if hourly := HourlyRate(*c.ContractAmount, c.PayUnit); hourly > 0 && hourly < int64(*in.MinimumWage) {
			ve.Add(RuleMinWage, "contract_amount",
				fmt.Sprintf("時給換算額 %d円 が最低賃金 %d円 を下回っています。", hourly, *in.MinimumWage))
		}
	}

	if in.International != nil {
		if in.International.ResidencePeriodTo != nil {
			if c.EndDate == nil || c.EndDate.After(*in.International.ResidencePeriodTo) {
				ve.Add(RuleResidenceExpired, "end_date", "契約終了日が在留期間満了日を超えています。")
			}
		}
		if in.JobCategory != nil && !in.JobCategory.AcceptsForeignWorker {
			ve.Add(RuleCategoryMismatch, "job_category", "この職種は外国人労働者の在留資格に対応していません。")
		}
	}

	return ve.OrNil()
}

// ValidateClientContract evaluates every applicable client-side rule.
func ValidateClientContract(in ClientContractInput) error {
	ve := &ValidationError{}
	c := in.Contract

	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		ve.Add(RulePeriodOrder, "end_date", "契約終了日は契約開始日以降の日付を指定してください。")
	}

	if in.Client.DefaultPaymentSite != "" && c.PaymentSite != in.Client.DefaultPaymentSite {
		ve.Add(RulePaymentSite, "payment_site", "支払サイトはクライアントに設定された支払サイトと一致させてください。")
	}

	baseDate := in.Client.BasicContractDate
	dateLabel := "基本契約締結日"
	if c.IsDispatch() {
		baseDate = in.Client.BasicContractDateHaken
		dateLabel = "基本契約締結日（派遣）"
	}
	if baseDate == nil {
		ve.Add(RuleBaseContractMissing, "start_date", dateLabel+"が未登録のため契約を承認できません。")
	} else if c.StartDate.Before(*baseDate) {
		ve.Add(RuleBaseContractMissing, "start_date", "契約開始日は"+dateLabel+"以降の日付を指定してください。")
	}

	if c.IsDispatch() && in.Haken == nil {
		ve.Add(RuleHakenRequired, "haken_info", "派遣契約には派遣情報の登録が必要です。")
	}

	if in.Ttp != nil {
		if exceedsTtpCap(c.StartDate, c.EndDate) {
			ve.Add(RuleTtpPeriodExceeded, "end_date", "紹介予定派遣の契約期間は6ヶ月以内としてください。")
		}
	}

	for _, a := range in.Assignments {
		validateAssignmentAgainst(ve, c, in.Haken, a)
	}

	return ve.OrNil()
}

// ValidateAssignment checks a single assignment against its parent client
// contract; used both at assignment time and at approve time.
func ValidateAssignment(c ClientContract, h *Haken, a AssignmentPeriod) error {
	ve := &ValidationError{}
	validateAssignmentAgainst(ve, c, h, a)
	return ve.OrNil()
}

func validateAssignmentAgainst(ve *ValidationError, c ClientContract, h *Haken, a AssignmentPeriod) {
	if disjoint(c.StartDate, c.EndDate, a.StartDate, a.EndDate) {
		ve.Add(RulePeriodDisjoint, "assignment",
			fmt.Sprintf("スタッフ契約（%s）の期間がクライアント契約の期間と重なっていません。", a.StaffName))
	}

	if c.IsDispatch() && h != nil && h.LimitIndefiniteOrSenior == LimitLimited {
		start := a.StartDate
		if c.StartDate.After(start) {
			start = c.StartDate
		}
		age := ageAt(a.BirthDate, start)
		if a.EmploymentType != EmploymentIndefinite && age < 60 {
			ve.Add(RuleWorkerEligibility, "assignment",
				fmt.Sprintf("この契約は無期雇用または60歳以上に限定されています（%s）。", a.StaffName))
		}
	}
}

// exceedsTtpCap reports whether [start, end] exceeds six months inclusive.
// An open end always exceeds the cap.
func exceedsTtpCap(start time.Time, end *time.Time) bool {
	if end == nil {
		return true
	}
	return !end.Before(start.AddDate(0, 6, 0))
}

func disjoint(cStart time.Time, cEnd *time.Time, sStart time.Time, sEnd *time.Time) bool {
	if cEnd != nil && sStart.After(*cEnd) {
		return true
	}
	if sEnd != nil && cStart.After(*sEnd) {
		return true
	}
	return false
}

func ageAt(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	anniversary := time.Date(on.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if on.Before(anniversary) {
		age--
	}
	return age
}
