package contract

import "strconv"

// Contract status codes. String codes with numeric ordering; use StatusRank
// for ">= approved" checks.
const (
	StatusDraft     = "1"
	StatusPending   = "5"
	StatusApproved  = "10"
	StatusIssued    = "20"
	StatusConfirmed = "30"
)

// Client contract type codes.
const (
	TypeWork     = "10"
	TypeDispatch = "20"
)

// Staff employment type codes.
const (
	EmploymentFixedTerm  = "30"
	EmploymentIndefinite = "40"
)

// Pay unit codes (dropdown category "pay_unit").
const (
	PayUnitHourly  = "10"
	PayUnitDaily   = "20"
	PayUnitMonthly = "30"
)

// 限定の別 flag values on haken info.
const (
	LimitNotLimited = "0"
	LimitLimited    = "1"
)

// Print types recorded on issue-log rows.
const (
	PrintTypeContract             = "contract"
	PrintTypeQuotation            = "quotation"
	PrintTypeDispatchNotification = "dispatch_notification"
	PrintTypeDispatchLedger       = "dispatch_ledger"
	PrintTypeTeishokubiNotice     = "teishokubi_notice"
	PrintTypeEmploymentConditions = "employment_conditions"
)

// StatusRank maps a status code to its numeric order. Unknown codes rank
// below DRAFT.
func StatusRank(status string) int {
	n, err := strconv.Atoi(status)
	if err != nil {
		return 0
	}
	return n
}

func StatusAtLeast(status, floor string) bool {
	return StatusRank(status) >= StatusRank(floor)
}

// Editable reports whether contract fields may still be mutated.
func Editable(status string) bool {
	return status == StatusDraft || status == StatusPending
}

func StatusName(status string) string {
	switch status {
	case StatusDraft:
		return "作成中"
	case StatusPending:
		return "申請中"
	case StatusApproved:
		return "承認済"
	case StatusIssued:
		return "発行済"
	case StatusConfirmed:
		return "契約済"
	default:
		return ""
	}
}
