package contract

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memNumberStore struct {
	client map[string]int
	staff  map[string]int
}

func newMemNumberStore() *memNumberStore {
	return &memNumberStore{client: map[string]int{}, staff: map[string]int{}}
}

func (m *memNumberStore) NextClientSeq(_ context.Context, clientCode, yearMonth string) (int, error) {
	key := clientCode + "/" + yearMonth
	m.client[key]++
	return m.client[key], nil
}

func (m *memNumberStore) NextStaffSeq(_ context.Context, employeeNo, yearMonth string) (int, error) {
	key := employeeNo + "/" + yearMonth
	m.staff[key]++
	return m.staff[key], nil
}

func TestFormatClientNumber(t *testing.T) {
	start := time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC)
	if got := FormatClientNumber("ABCD1234", start, 1); got != "ABCD1234-202505-0001" {
		t.Fatalf("unexpected client number %q", got)
	}
	if got := FormatClientNumber("ABCD1234", start, 42); got != "ABCD1234-202505-0042" {
		t.Fatalf("unexpected client number %q", got)
	}
}

func TestFormatStaffNumber(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatStaffNumber("E001", start, 3); got != "E001-202505-03" {
		t.Fatalf("unexpected staff number %q", got)
	}
}

func TestIssuerSequencesPerGroupAndMonth(t *testing.T) {
	issuer := NewIssuer(newMemNumberStore())
	ctx := context.Background()
	may := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	june := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := issuer.IssueClientNumber(ctx, "K", may)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	second, err := issuer.IssueClientNumber(ctx, "K", may)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if first != "K-202505-0001" || second != "K-202505-0002" {
		t.Fatalf("expected consecutive numbers, got %q then %q", first, second)
	}

	// A new month restarts the sequence at 1.
	next, err := issuer.IssueClientNumber(ctx, "K", june)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if next != "K-202506-0001" {
		t.Fatalf("expected new-month sequence to restart, got %q", next)
	}
}

func TestIssuerRequiresGroupKeys(t *testing.T) {
	issuer := NewIssuer(newMemNumberStore())
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := issuer.IssueClientNumber(ctx, "", start); !errors.Is(err, ErrNumbering) {
		t.Fatalf("expected ErrNumbering for missing client code, got %v", err)
	}
	if _, err := issuer.IssueStaffNumber(ctx, "", start); !errors.Is(err, ErrNumbering) {
		t.Fatalf("expected ErrNumbering for missing employee number, got %v", err)
	}
}
