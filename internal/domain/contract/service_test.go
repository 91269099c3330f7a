package contract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"haken/internal/domain/client"
	"haken/internal/domain/company"
	"haken/internal/domain/master"
	"haken/internal/domain/staff"
	"haken/internal/platform/clock"
	"haken/internal/platform/pdf"
)

// fakeStore is an in-memory StoreAPI honouring the same transition
// semantics as the SQL store.
type fakeStore struct {
	clients      map[string]*ClientContract
	staffCts     map[string]*StaffContract
	hakens       map[string]*Haken
	ttps         map[string]*Ttp
	assignments  map[string][]AssignmentPeriod
	clientPrints []PrintRow
	staffPrints  []PrintRow
	numbers      *memNumberStore
	nextPrintID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clients:     map[string]*ClientContract{},
		staffCts:    map[string]*StaffContract{},
		hakens:      map[string]*Haken{},
		ttps:        map[string]*Ttp{},
		assignments: map[string][]AssignmentPeriod{},
		numbers:     newMemNumberStore(),
	}
}

func (f *fakeStore) GetClientContract(_ context.Context, id string) (ClientContract, error) {
	c, ok := f.clients[id]
	if !ok {
		return ClientContract{}, ErrNotFound
	}
	return *c, nil
}

func (f *fakeStore) GetStaffContract(_ context.Context, id string) (StaffContract, error) {
	c, ok := f.staffCts[id]
	if !ok {
		return StaffContract{}, ErrNotFound
	}
	return *c, nil
}

func (f *fakeStore) GetHaken(_ context.Context, id string) (*Haken, error) {
	return f.hakens[id], nil
}

func (f *fakeStore) GetTtp(_ context.Context, id string) (*Ttp, error) {
	return f.ttps[id], nil
}

func (f *fakeStore) GetExempt(_ context.Context, _ string) (*HakenExempt, error) {
	return nil, nil
}

func (f *fakeStore) ListAssignmentPeriods(_ context.Context, id string) ([]AssignmentPeriod, error) {
	return f.assignments[id], nil
}

func (f *fakeStore) SubmitClientContract(_ context.Context, id string) error {
	c, ok := f.clients[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != StatusDraft {
		return ErrIllegalTransition
	}
	c.Status = StatusPending
	return nil
}

func (f *fakeStore) ApproveClientContract(ctx context.Context, id, clientCode, by string, at time.Time) (string, error) {
	c, ok := f.clients[id]
	if !ok {
		return "", ErrNotFound
	}
	if c.Status != StatusPending {
		return "", ErrIllegalTransition
	}
	number, err := NewIssuer(f.numbers).IssueClientNumber(ctx, clientCode, c.StartDate)
	if err != nil {
		return "", err
	}
	c.Status = StatusApproved
	c.ContractNumber = number
	c.ApprovedAt, c.ApprovedBy = &at, by
	return number, nil
}

func (f *fakeStore) FinalizeClientIssue(_ context.Context, id string, at time.Time, by string, prints []PrintRow) error {
	c, ok := f.clients[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != StatusApproved {
		return ErrIllegalTransition
	}
	c.Status = StatusIssued
	c.IssuedAt, c.IssuedBy = &at, by
	for _, p := range prints {
		f.nextPrintID++
		p.ID = fmt.Sprintf("p%d", f.nextPrintID)
		f.clientPrints = append(f.clientPrints, p)
	}
	return nil
}

func (f *fakeStore) SetClientQuotationIssued(_ context.Context, id string, at time.Time, print PrintRow) error {
	c, ok := f.clients[id]
	if !ok {
		return ErrNotFound
	}
	c.QuotationIssuedAt = &at
	f.nextPrintID++
	print.ID = fmt.Sprintf("p%d", f.nextPrintID)
	f.clientPrints = append(f.clientPrints, print)
	return nil
}

func (f *fakeStore) ConfirmClientContract(_ context.Context, id string, at time.Time) error {
	c, ok := f.clients[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != StatusIssued {
		return ErrIllegalTransition
	}
	c.Status = StatusConfirmed
	c.ConfirmedAt = &at
	return nil
}

func (f *fakeStore) UnconfirmClientContract(_ context.Context, id string) error {
	c, ok := f.clients[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != StatusConfirmed {
		return ErrIllegalTransition
	}
	c.Status = StatusIssued
	c.ConfirmedAt = nil
	return nil
}

func (f *fakeStore) UnapproveClientContract(_ context.Context, id string) error {
	c, ok := f.clients[id]
	if !ok {
		return ErrNotFound
	}
	if !StatusAtLeast(c.Status, StatusApproved) {
		return ErrIllegalTransition
	}
	c.Status = StatusDraft
	c.ContractNumber = ""
	c.ApprovedAt, c.ApprovedBy = nil, ""
	c.IssuedAt, c.IssuedBy = nil, ""
	c.ConfirmedAt, c.QuotationIssuedAt = nil, nil
	return nil
}

func (f *fakeStore) SubmitStaffContract(_ context.Context, id string) error {
	c, ok := f.staffCts[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != StatusDraft {
		return ErrIllegalTransition
	}
	c.Status = StatusPending
	return nil
}

func (f *fakeStore) ApproveStaffContract(ctx context.Context, id, employeeNo, by string, at time.Time) (string, error) {
	c, ok := f.staffCts[id]
	if !ok {
		return "", ErrNotFound
	}
	if c.Status != StatusPending {
		return "", ErrIllegalTransition
	}
	number, err := NewIssuer(f.numbers).IssueStaffNumber(ctx, employeeNo, c.StartDate)
	if err != nil {
		return "", err
	}
	c.Status = StatusApproved
	c.ContractNumber = number
	c.ApprovedAt, c.ApprovedBy = &at, by
	return number, nil
}

func (f *fakeStore) FinalizeStaffIssue(_ context.Context, id string, at time.Time, by string, prints []PrintRow) error {
	c, ok := f.staffCts[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != StatusApproved {
		return ErrIllegalTransition
	}
	c.Status = StatusIssued
	c.IssuedAt, c.IssuedBy = &at, by
	for _, p := range prints {
		f.nextPrintID++
		p.ID = fmt.Sprintf("p%d", f.nextPrintID)
		f.staffPrints = append(f.staffPrints, p)
	}
	return nil
}

func (f *fakeStore) ConfirmStaffContract(_ context.Context, id string, at time.Time) error {
	c, ok := f.staffCts[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != StatusIssued {
		return ErrIllegalTransition
	}
	c.Status = StatusConfirmed
	c.ConfirmedAt = &at
	return nil
}

func (f *fakeStore) UnconfirmStaffContract(_ context.Context, id string) error {
	c, ok := f.staffCts[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != StatusConfirmed {
		return ErrIllegalTransition
	}
	c.Status = StatusIssued
	c.ConfirmedAt = nil
	return nil
}

func (f *fakeStore) UnapproveStaffContract(_ context.Context, id string) error {
	c, ok := f.staffCts[id]
	if !ok {
		return ErrNotFound
	}
	if !StatusAtLeast(c.Status, StatusApproved) {
		return ErrIllegalTransition
	}
	c.Status = StatusDraft
	c.ContractNumber = ""
	c.ApprovedAt, c.ApprovedBy = nil, ""
	c.IssuedAt, c.IssuedBy = nil, ""
	c.ConfirmedAt = nil
	return nil
}

func (f *fakeStore) ListClientPrints(_ context.Context, id string) ([]PrintRow, error) {
	var out []PrintRow
	for i := len(f.clientPrints) - 1; i >= 0; i-- {
		if f.clientPrints[i].ParentID == id {
			out = append(out, f.clientPrints[i])
		}
	}
	return out, nil
}

func (f *fakeStore) ListStaffPrints(_ context.Context, id string) ([]PrintRow, error) {
	var out []PrintRow
	for i := len(f.staffPrints) - 1; i >= 0; i-- {
		if f.staffPrints[i].ParentID == id {
			out = append(out, f.staffPrints[i])
		}
	}
	return out, nil
}

func (f *fakeStore) GetClientPrint(_ context.Context, printID string) (PrintRow, error) {
	for _, p := range f.clientPrints {
		if p.ID == printID {
			return p, nil
		}
	}
	return PrintRow{}, ErrNotFound
}

func (f *fakeStore) GetStaffPrint(_ context.Context, printID string) (PrintRow, error) {
	for _, p := range f.staffPrints {
		if p.ID == printID {
			return p, nil
		}
	}
	return PrintRow{}, ErrNotFound
}

// --- collaborator fakes ---

type fakeDirectory struct {
	client client.Client
	users  map[string]client.ClientUser
}

func (f *fakeDirectory) GetByID(_ context.Context, _ string) (client.Client, error) {
	return f.client, nil
}

func (f *fakeDirectory) GetDepartment(_ context.Context, _ string) (client.ClientDepartment, error) {
	return client.ClientDepartment{}, nil
}

func (f *fakeDirectory) GetUserByEmail(_ context.Context, email string) (client.ClientUser, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return client.ClientUser{}, client.ErrNotFound
}

type fakeStaffDir struct {
	staff staff.Staff
}

func (f *fakeStaffDir) GetByID(_ context.Context, _ string) (staff.Staff, error) {
	return f.staff, nil
}

func (f *fakeStaffDir) GetInternational(_ context.Context, _ string) (staff.International, error) {
	return staff.International{}, staff.ErrNotFound
}

type fakeMasters struct {
	accepted map[string]bool
}

func (f *fakeMasters) MinimumWageAt(_ context.Context, _ string, _ time.Time) (int, error) {
	return 0, master.ErrNoWageTable
}

func (f *fakeMasters) GetJobCategory(_ context.Context, _ string) (master.JobCategory, error) {
	return master.JobCategory{}, master.ErrNotFound
}

func (f *fakeMasters) Choices(_ context.Context, _ string) ([]master.Dropdown, error) {
	return nil, nil
}

func (f *fakeMasters) LatestActiveAgreement(_ context.Context) (master.StaffAgreement, error) {
	return master.StaffAgreement{ID: "agr-1", IsActive: true}, nil
}

func (f *fakeMasters) AgreementAccepted(_ context.Context, agreementID, corporateNumber, email string) (bool, error) {
	return f.accepted[agreementID+corporateNumber+email], nil
}

func (f *fakeMasters) RecordAgreementAccepted(_ context.Context, agreementID, corporateNumber, email string) error {
	if f.accepted == nil {
		f.accepted = map[string]bool{}
	}
	f.accepted[agreementID+corporateNumber+email] = true
	return nil
}

type fakeCompany struct{}

func (fakeCompany) Get(_ context.Context) (company.Company, error) {
	return company.Company{Name: "テスト派遣株式会社", CorporateNumber: "9999999999999"}, nil
}

type fakeComposer struct{}

func (fakeComposer) ClientContract(_ context.Context, _ string) (pdf.Document, string, error) {
	return pdf.Document{Title: "労働者派遣個別契約書"}, "労働者派遣個別契約書", nil
}

func (fakeComposer) ClientQuotation(_ context.Context, _ string) (pdf.Document, string, error) {
	return pdf.Document{Title: "見積書"}, "見積書", nil
}

func (fakeComposer) DispatchNotification(_ context.Context, _ string) (pdf.Document, string, error) {
	return pdf.Document{Title: "派遣先通知書"}, "派遣先通知書", nil
}

func (fakeComposer) StaffContract(_ context.Context, _ string) (pdf.Document, string, error) {
	return pdf.Document{Title: "雇用契約書兼労働条件通知書"}, "雇用契約書兼労働条件通知書", nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(doc pdf.Document) ([]byte, error) {
	return []byte("%PDF " + doc.Title + " " + doc.Watermark), nil
}

type memBlobs struct {
	data map[string][]byte
}

func (m *memBlobs) Put(_ context.Context, key string, data []byte) (string, error) {
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = data
	return key, nil
}

func (m *memBlobs) Get(_ context.Context, handle string) ([]byte, error) {
	d, ok := m.data[handle]
	if !ok {
		return nil, errors.New("missing blob")
	}
	return d, nil
}

func newTestService(store *fakeStore, cl client.Client, st staff.Staff) (*Service, *memBlobs) {
	blobs := &memBlobs{}
	dir := &fakeDirectory{client: cl, users: map[string]client.ClientUser{
		"c@x":     {ID: "cu-1", ClientID: cl.ID, Email: "c@x"},
		"other@x": {ID: "cu-2", ClientID: "cl-other", Email: "other@x"},
	}}
	svc := NewService(store,
		dir,
		&fakeStaffDir{staff: st},
		&fakeMasters{},
		fakeCompany{},
		fakeComposer{},
		fakeRenderer{},
		blobs,
		clock.Fixed{T: time.Date(2025, 5, 14, 10, 30, 0, 0, time.UTC)},
	)
	return svc, blobs
}

func dispatchFixture(store *fakeStore) (client.Client, string) {
	cl := client.Client{
		ID:                     "cl-1",
		Name:                   "テスト株式会社",
		CorporateNumber:        "1234567890123",
		BasicContractDateHaken: dp(2024, 1, 1),
	}
	store.clients["cc-1"] = &ClientContract{
		ID:           "cc-1",
		ClientID:     "cl-1",
		TypeCode:     TypeDispatch,
		ContractName: "派遣契約A",
		Status:       StatusDraft,
		StartDate:    d(2025, 5, 1),
		EndDate:      dp(2025, 10, 31),
	}
	store.hakens["cc-1"] = &Haken{
		ClientContractID:        "cc-1",
		LimitByAgreement:        LimitNotLimited,
		LimitIndefiniteOrSenior: LimitNotLimited,
	}
	return cl, "cc-1"
}

func TestClientContractLifecycle(t *testing.T) {
	store := newFakeStore()
	cl, id := dispatchFixture(store)
	svc, _ := newTestService(store, cl, staff.Staff{})
	ctx := context.Background()

	if _, err := svc.ApproveClient(ctx, id, "u1"); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("approve from draft should fail, got %v", err)
	}

	if err := svc.SubmitClient(ctx, id); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	number, err := svc.ApproveClient(ctx, id, "u1")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	wantCode := cl.Code()
	if number != wantCode+"-202505-0001" {
		t.Fatalf("unexpected number %q", number)
	}

	prints, err := svc.IssueClient(ctx, id, "u1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	// Dispatch issue renders the contract and the destination notification.
	if len(prints) != 2 {
		t.Fatalf("expected 2 print rows, got %d", len(prints))
	}
	types := map[string]bool{}
	for _, p := range prints {
		types[p.PrintType] = true
		if p.ContractNumber != number {
			t.Fatalf("print row carries number %q, want %q", p.ContractNumber, number)
		}
	}
	if !types[PrintTypeContract] || !types[PrintTypeDispatchNotification] {
		t.Fatalf("unexpected print types %v", types)
	}

	if err := svc.ConfirmClient(ctx, id, "c@x"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if store.clients[id].Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", store.clients[id].Status)
	}
}

func TestIssueRequiresApproved(t *testing.T) {
	store := newFakeStore()
	cl, id := dispatchFixture(store)
	svc, _ := newTestService(store, cl, staff.Staff{})
	ctx := context.Background()

	if _, err := svc.IssueClient(ctx, id, "u1"); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("issue from draft should fail, got %v", err)
	}
}

func TestApproveRunsValidation(t *testing.T) {
	store := newFakeStore()
	cl, id := dispatchFixture(store)
	delete(store.hakens, id) // dispatch without haken info
	svc, _ := newTestService(store, cl, staff.Staff{})
	ctx := context.Background()

	if err := svc.SubmitClient(ctx, id); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	_, err := svc.ApproveClient(ctx, id, "u1")
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.clients[id].Status != StatusPending {
		t.Fatalf("failed approve must leave contract pending, got %s", store.clients[id].Status)
	}
	if store.clients[id].ContractNumber != "" {
		t.Fatalf("failed approve must not consume a number")
	}
}

func TestUnapprovePreservesPrintHistory(t *testing.T) {
	store := newFakeStore()
	cl, id := dispatchFixture(store)
	svc, blobs := newTestService(store, cl, staff.Staff{})
	ctx := context.Background()

	_ = svc.SubmitClient(ctx, id)
	first, _ := svc.ApproveClient(ctx, id, "u1")
	if _, err := svc.IssueClient(ctx, id, "u1"); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if err := svc.UnapproveClient(ctx, id); err != nil {
		t.Fatalf("unapprove failed: %v", err)
	}
	c := store.clients[id]
	if c.Status != StatusDraft || c.ContractNumber != "" || c.ApprovedAt != nil || c.IssuedAt != nil || c.ConfirmedAt != nil {
		t.Fatalf("unapprove did not reset contract: %+v", c)
	}

	prints, _ := svc.ClientPrints(ctx, id)
	if len(prints) != 2 {
		t.Fatalf("print rows must survive unapprove, got %d", len(prints))
	}
	for _, p := range prints {
		data, err := blobs.Get(ctx, p.BlobHandle)
		if err != nil {
			t.Fatalf("blob missing after unapprove: %v", err)
		}
		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != p.SHA256 {
			t.Fatalf("stored hash does not match blob for %s", p.ID)
		}
	}

	// Re-approve in the same month: the sequence moves on, 0001 is not reused.
	_ = svc.SubmitClient(ctx, id)
	second, err := svc.ApproveClient(ctx, id, "u1")
	if err != nil {
		t.Fatalf("re-approve failed: %v", err)
	}
	if second == first {
		t.Fatalf("sequence must not reuse %q", first)
	}
	if second != cl.Code()+"-202505-0002" {
		t.Fatalf("expected second number, got %q", second)
	}

	// Second issue produces a second, distinct set of rows.
	if _, err := svc.IssueClient(ctx, id, "u1"); err != nil {
		t.Fatalf("re-issue failed: %v", err)
	}
	prints, _ = svc.ClientPrints(ctx, id)
	if len(prints) != 4 {
		t.Fatalf("expected 4 print rows after re-issue, got %d", len(prints))
	}
}

func TestQuotationDoesNotMoveStatus(t *testing.T) {
	store := newFakeStore()
	cl, id := dispatchFixture(store)
	svc, _ := newTestService(store, cl, staff.Staff{})
	ctx := context.Background()

	_ = svc.SubmitClient(ctx, id)
	if _, err := svc.ApproveClient(ctx, id, "u1"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	row, err := svc.IssueClientQuotation(ctx, id, "u1")
	if err != nil {
		t.Fatalf("quotation failed: %v", err)
	}
	if row.PrintType != PrintTypeQuotation {
		t.Fatalf("unexpected print type %q", row.PrintType)
	}
	c := store.clients[id]
	if c.Status != StatusApproved {
		t.Fatalf("quotation must not move status, got %s", c.Status)
	}
	if c.QuotationIssuedAt == nil {
		t.Fatal("quotation_issued_at not set")
	}
}

func TestStaffConfirmRequiresAgreement(t *testing.T) {
	store := newFakeStore()
	st := staff.Staff{ID: "st-1", EmployeeNo: "E001", Email: "s@x", HireDate: dp(2023, 1, 1)}
	store.staffCts["sc-1"] = &StaffContract{
		ID:             "sc-1",
		StaffID:        "st-1",
		EmploymentType: EmploymentFixedTerm,
		Status:         StatusDraft,
		StartDate:      d(2025, 5, 1),
		EndDate:        dp(2025, 10, 31),
	}
	svc, _ := newTestService(store, client.Client{}, st)
	ctx := context.Background()

	_ = svc.SubmitStaff(ctx, "sc-1")
	number, err := svc.ApproveStaff(ctx, "sc-1", "u1")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if number != "E001-202505-01" {
		t.Fatalf("unexpected staff number %q", number)
	}
	if _, err := svc.IssueStaff(ctx, "sc-1", "u1"); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if err := svc.ConfirmStaff(ctx, "sc-1", "s@x", false); !errors.Is(err, ErrAgreementRequired) {
		t.Fatalf("confirm without agreement should fail, got %v", err)
	}
	if err := svc.ConfirmStaff(ctx, "sc-1", "s@x", true); err != nil {
		t.Fatalf("confirm with agreement failed: %v", err)
	}
	if store.staffCts["sc-1"].Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", store.staffCts["sc-1"].Status)
	}

	if err := svc.UnconfirmStaff(ctx, "sc-1", "s@x"); err != nil {
		t.Fatalf("unconfirm failed: %v", err)
	}
	if store.staffCts["sc-1"].Status != StatusIssued {
		t.Fatalf("expected issued after unconfirm, got %s", store.staffCts["sc-1"].Status)
	}
}

func TestConfirmClientRequiresCounterparty(t *testing.T) {
	store := newFakeStore()
	cl, id := dispatchFixture(store)
	svc, _ := newTestService(store, cl, staff.Staff{})
	ctx := context.Background()

	_ = svc.SubmitClient(ctx, id)
	if _, err := svc.ApproveClient(ctx, id, "u1"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := svc.IssueClient(ctx, id, "u1"); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// No client-user account for this email.
	if err := svc.ConfirmClient(ctx, id, "stranger@x"); !errors.Is(err, ErrNotCounterparty) {
		t.Fatalf("unknown email should be rejected, got %v", err)
	}
	// A user of a different client.
	if err := svc.ConfirmClient(ctx, id, "other@x"); !errors.Is(err, ErrNotCounterparty) {
		t.Fatalf("foreign client user should be rejected, got %v", err)
	}
	if store.clients[id].Status != StatusIssued {
		t.Fatalf("rejected confirms must not move status, got %s", store.clients[id].Status)
	}

	if err := svc.ConfirmClient(ctx, id, "c@x"); err != nil {
		t.Fatalf("counterparty confirm failed: %v", err)
	}
	if err := svc.UnconfirmClient(ctx, id, "other@x"); !errors.Is(err, ErrNotCounterparty) {
		t.Fatalf("foreign unconfirm should be rejected, got %v", err)
	}
	if err := svc.UnconfirmClient(ctx, id, "c@x"); err != nil {
		t.Fatalf("counterparty unconfirm failed: %v", err)
	}
}

func TestConfirmStaffRequiresCounterparty(t *testing.T) {
	store := newFakeStore()
	st := staff.Staff{ID: "st-1", EmployeeNo: "E001", Email: "s@x", HireDate: dp(2023, 1, 1)}
	store.staffCts["sc-1"] = &StaffContract{
		ID:             "sc-1",
		StaffID:        "st-1",
		EmploymentType: EmploymentFixedTerm,
		Status:         StatusDraft,
		StartDate:      d(2025, 5, 1),
		EndDate:        dp(2025, 10, 31),
	}
	svc, _ := newTestService(store, client.Client{}, st)
	ctx := context.Background()

	_ = svc.SubmitStaff(ctx, "sc-1")
	if _, err := svc.ApproveStaff(ctx, "sc-1", "u1"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := svc.IssueStaff(ctx, "sc-1", "u1"); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if err := svc.ConfirmStaff(ctx, "sc-1", "someone-else@x", true); !errors.Is(err, ErrNotCounterparty) {
		t.Fatalf("foreign staff confirm should be rejected, got %v", err)
	}
	if store.staffCts["sc-1"].Status != StatusIssued {
		t.Fatalf("rejected confirm must not move status, got %s", store.staffCts["sc-1"].Status)
	}
	if err := svc.ConfirmStaff(ctx, "sc-1", "s@x", true); err != nil {
		t.Fatalf("own confirm failed: %v", err)
	}
	if err := svc.UnconfirmStaff(ctx, "sc-1", "someone-else@x"); !errors.Is(err, ErrNotCounterparty) {
		t.Fatalf("foreign staff unconfirm should be rejected, got %v", err)
	}
}
