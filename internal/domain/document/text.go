package document

import (
	"fmt"
	"strings"
	"time"

	"haken/internal/domain/contract"
	"haken/internal/domain/staff"
)

func formatDate(t time.Time) string {
	return t.Format("2006年01月02日")
}

// periodText renders a contract window; an open end prints as 無期限.
func periodText(start time.Time, end *time.Time) string {
	if end == nil {
		return formatDate(start) + " ～ 無期限"
	}
	return formatDate(start) + " ～ " + formatDate(*end)
}

// groupDigits inserts thousands separators the way invoices print amounts.
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

func amountText(amount *int64, unitName string) string {
	if amount == nil {
		return "別途定める"
	}
	text := groupDigits(*amount) + "円"
	if unitName != "" {
		text += "（" + unitName + "）"
	}
	return text
}

// ageBand classifies a worker for ledgers and notifications. The statute
// cares about three boundaries: 18, 45 and 60.
func ageBand(age int) string {
	switch {
	case age >= 60:
		return "60歳以上"
	case age >= 45:
		return "45歳以上60歳未満"
	case age >= 18:
		return "18歳以上45歳未満"
	default:
		return "18歳未満"
	}
}

func workerKindText(employmentType string) string {
	if employmentType == contract.EmploymentIndefinite {
		return "無期雇用派遣労働者"
	}
	return "有期雇用派遣労働者"
}

// insuranceLines renders the three statutory enrollments. A missing join
// date prints 無, with the recorded non-enrollment reason appended once.
func insuranceLines(ins staff.InsuranceEnrollment) []string {
	mark := func(label string, joined *time.Time) string {
		if joined != nil {
			return label + "：有（" + formatDate(*joined) + "加入）"
		}
		return label + "：無"
	}
	lines := []string{
		mark("健康保険", ins.HealthInsuranceJoined),
		mark("厚生年金保険", ins.WelfarePensionJoined),
		mark("雇用保険", ins.EmploymentInsuranceJoined),
	}
	missing := ins.HealthInsuranceJoined == nil || ins.WelfarePensionJoined == nil || ins.EmploymentInsuranceJoined == nil
	if missing && ins.NonEnrollmentReason != "" {
		lines = append(lines, "未加入理由："+ins.NonEnrollmentReason)
	}
	return lines
}
