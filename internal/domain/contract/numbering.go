package contract

import (
	"context"
	"fmt"
	"time"
)

// FormatClientNumber renders {clientCode}-{YYYYMM}-{NNNN}.
func FormatClientNumber(clientCode string, startDate time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", clientCode, startDate.Format("200601"), seq)
}

// FormatStaffNumber renders {employeeNo}-{YYYYMM}-{NN}.
func FormatStaffNumber(employeeNo string, startDate time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%02d", employeeNo, startDate.Format("200601"), seq)
}

// NumberStore allocates the next sequence for a (group, yearMonth) pair.
// Allocation must be atomic: concurrent callers for the same pair see
// strictly consecutive values with no gaps.
type NumberStore interface {
	NextClientSeq(ctx context.Context, clientCode, yearMonth string) (int, error)
	NextStaffSeq(ctx context.Context, employeeNo, yearMonth string) (int, error)
}

// Issuer allocates contract numbers at approve time. Not idempotent: the
// caller invokes it exactly once per successful approval.
type Issuer struct {
	numbers NumberStore
}

func NewIssuer(numbers NumberStore) *Issuer {
	return &Issuer{numbers: numbers}
}

func (i *Issuer) IssueClientNumber(ctx context.Context, clientCode string, startDate time.Time) (string, error) {
	if clientCode == "" {
		return "", fmt.Errorf("%w: client has no corporate number on file", ErrNumbering)
	}
	yearMonth := startDate.Format("200601")
	seq, err := i.numbers.NextClientSeq(ctx, clientCode, yearMonth)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNumbering, err)
	}
	return FormatClientNumber(clientCode, startDate, seq), nil
}

func (i *Issuer) IssueStaffNumber(ctx context.Context, employeeNo string, startDate time.Time) (string, error) {
	if employeeNo == "" {
		return "", fmt.Errorf("%w: staff has no employee number", ErrNumbering)
	}
	yearMonth := startDate.Format("200601")
	seq, err := i.numbers.NextStaffSeq(ctx, employeeNo, yearMonth)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNumbering, err)
	}
	return FormatStaffNumber(employeeNo, startDate, seq), nil
}
