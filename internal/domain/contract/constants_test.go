package contract

import "testing"

func TestStatusOrdering(t *testing.T) {
	order := []string{StatusDraft, StatusPending, StatusApproved, StatusIssued, StatusConfirmed}
	for i := 1; i < len(order); i++ {
		if StatusRank(order[i-1]) >= StatusRank(order[i]) {
			t.Fatalf("status %q should rank below %q", order[i-1], order[i])
		}
	}
	if !StatusAtLeast(StatusIssued, StatusApproved) {
		t.Fatal("issued should satisfy >= approved")
	}
	if StatusAtLeast(StatusPending, StatusApproved) {
		t.Fatal("pending should not satisfy >= approved")
	}
}

func TestEditable(t *testing.T) {
	for _, status := range []string{StatusDraft, StatusPending} {
		if !Editable(status) {
			t.Fatalf("status %q should be editable", status)
		}
	}
	for _, status := range []string{StatusApproved, StatusIssued, StatusConfirmed} {
		if Editable(status) {
			t.Fatalf("status %q should be frozen", status)
		}
	}
}
