package assignment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"haken/internal/domain/client"
	"haken/internal/domain/contract"
	"haken/internal/domain/staff"
	"haken/internal/domain/teishokubi"
)

type memStore struct {
	rows   map[string]ContractAssignment
	nextID int
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]ContractAssignment{}}
}

func (m *memStore) Get(_ context.Context, id string) (ContractAssignment, error) {
	a, ok := m.rows[id]
	if !ok {
		return ContractAssignment{}, ErrNotFound
	}
	return a, nil
}

func (m *memStore) ListByClientContract(_ context.Context, id string) ([]ContractAssignment, error) {
	var out []ContractAssignment
	for _, a := range m.rows {
		if a.ClientContractID == id {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) ListByStaffContract(_ context.Context, id string) ([]ContractAssignment, error) {
	var out []ContractAssignment
	for _, a := range m.rows {
		if a.StaffContractID == id {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) Create(_ context.Context, a ContractAssignment) (ContractAssignment, error) {
	m.nextID++
	a.ID = fmt.Sprintf("a%d", m.nextID)
	m.rows[a.ID] = a
	return a, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type fakeContracts struct {
	client contract.ClientContract
	staff  contract.StaffContract
	haken  *contract.Haken
}

func (f *fakeContracts) GetClientContract(_ context.Context, _ string) (contract.ClientContract, error) {
	return f.client, nil
}

func (f *fakeContracts) GetStaffContract(_ context.Context, _ string) (contract.StaffContract, error) {
	return f.staff, nil
}

func (f *fakeContracts) GetHaken(_ context.Context, _ string) (*contract.Haken, error) {
	return f.haken, nil
}

type fakeClients struct{}

func (fakeClients) GetByID(_ context.Context, _ string) (client.Client, error) {
	return client.Client{ID: "cl-1", CorporateNumber: "1234567890123"}, nil
}

func (fakeClients) GetDepartment(_ context.Context, id string) (client.ClientDepartment, error) {
	return client.ClientDepartment{ID: id, Name: "Unit-A"}, nil
}

type fakeStaffDir struct{ staff staff.Staff }

func (f *fakeStaffDir) GetByID(_ context.Context, _ string) (staff.Staff, error) {
	return f.staff, nil
}

type recordingRecomputer struct {
	keys []teishokubi.Key
}

func (r *recordingRecomputer) Recompute(_ context.Context, key teishokubi.Key) error {
	r.keys = append(r.keys, key)
	return nil
}

func fixture() (*fakeContracts, staff.Staff) {
	contracts := &fakeContracts{
		client: contract.ClientContract{
			ID:        "cc-1",
			ClientID:  "cl-1",
			TypeCode:  contract.TypeDispatch,
			Status:    contract.StatusDraft,
			StartDate: d(2024, 4, 1),
			EndDate:   dp(2025, 3, 31),
		},
		staff: contract.StaffContract{
			ID:             "sc-1",
			StaffID:        "st-1",
			EmploymentType: contract.EmploymentFixedTerm,
			StartDate:      d(2024, 4, 1),
			EndDate:        dp(2025, 3, 31),
		},
		haken: &contract.Haken{
			ClientContractID:        "cc-1",
			UnitDepartmentID:        "dep-1",
			LimitByAgreement:        contract.LimitNotLimited,
			LimitIndefiniteOrSenior: contract.LimitNotLimited,
		},
	}
	st := staff.Staff{
		ID:        "st-1",
		NameLast:  "山田",
		NameFirst: "太郎",
		Email:     "s@x",
		BirthDate: d(1990, 5, 10),
	}
	return contracts, st
}

func TestAssignTriggersRecompute(t *testing.T) {
	contracts, st := fixture()
	rec := &recordingRecomputer{}
	svc := NewService(newMemStore(), contracts, fakeClients{}, &fakeStaffDir{staff: st}, rec)

	a, err := svc.Assign(context.Background(), "cc-1", "sc-1")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if a.StaffEmail != "s@x" || a.ClientCorporateNumber != "1234567890123" {
		t.Fatalf("snapshot keys not copied: %+v", a)
	}
	if len(rec.keys) != 1 {
		t.Fatalf("expected 1 recompute, got %d", len(rec.keys))
	}
	want := teishokubi.Key{StaffEmail: "s@x", ClientCorporateNumber: "1234567890123", OrganizationName: "Unit-A"}
	if rec.keys[0] != want {
		t.Fatalf("recomputed key %+v, want %+v", rec.keys[0], want)
	}
}

func TestAssignRejectsEmptyOverlap(t *testing.T) {
	contracts, st := fixture()
	contracts.staff.StartDate = d(2025, 4, 1)
	contracts.staff.EndDate = dp(2025, 12, 31)
	svc := NewService(newMemStore(), contracts, fakeClients{}, &fakeStaffDir{staff: st}, &recordingRecomputer{})

	if _, err := svc.Assign(context.Background(), "cc-1", "sc-1"); !errors.Is(err, ErrEmptyOverlap) {
		t.Fatalf("expected ErrEmptyOverlap, got %v", err)
	}
}

func TestAssignRejectsFrozenContract(t *testing.T) {
	contracts, st := fixture()
	contracts.client.Status = contract.StatusApproved
	svc := NewService(newMemStore(), contracts, fakeClients{}, &fakeStaffDir{staff: st}, &recordingRecomputer{})

	if _, err := svc.Assign(context.Background(), "cc-1", "sc-1"); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
}

func TestAssignChecksWorkerEligibility(t *testing.T) {
	contracts, st := fixture()
	contracts.haken.LimitIndefiniteOrSenior = contract.LimitLimited
	svc := NewService(newMemStore(), contracts, fakeClients{}, &fakeStaffDir{staff: st}, &recordingRecomputer{})

	// Fixed-term and 33 years old at start: not eligible for a limited slot.
	_, err := svc.Assign(context.Background(), "cc-1", "sc-1")
	ve, ok := contract.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Violations) != 1 || ve.Violations[0].Rule != contract.RuleWorkerEligibility {
		t.Fatalf("unexpected violations %+v", ve.Violations)
	}
}

func TestUnassignRecomputes(t *testing.T) {
	contracts, st := fixture()
	rec := &recordingRecomputer{}
	store := newMemStore()
	svc := NewService(store, contracts, fakeClients{}, &fakeStaffDir{staff: st}, rec)
	ctx := context.Background()

	a, err := svc.Assign(ctx, "cc-1", "sc-1")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := svc.Unassign(ctx, a.ID); err != nil {
		t.Fatalf("unassign failed: %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatal("assignment row not deleted")
	}
	if len(rec.keys) != 2 {
		t.Fatalf("expected recompute on unassign, got %d calls", len(rec.keys))
	}
}
