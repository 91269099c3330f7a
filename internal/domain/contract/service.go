package contract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"haken/internal/domain/client"
	"haken/internal/domain/company"
	"haken/internal/domain/master"
	"haken/internal/domain/staff"
	"haken/internal/platform/blob"
	"haken/internal/platform/clock"
	"haken/internal/platform/pdf"
)

var ErrAgreementRequired = errors.New("staff agreement has not been accepted")

// ClientDirectory, StaffDirectory and MasterData are the narrow read
// surfaces the service needs from neighbouring domains.
type ClientDirectory interface {
	GetByID(ctx context.Context, id string) (client.Client, error)
	GetDepartment(ctx context.Context, id string) (client.ClientDepartment, error)
	GetUserByEmail(ctx context.Context, email string) (client.ClientUser, error)
}

type StaffDirectory interface {
	GetByID(ctx context.Context, id string) (staff.Staff, error)
	GetInternational(ctx context.Context, staffID string) (staff.International, error)
}

type MasterData interface {
	MinimumWageAt(ctx context.Context, prefectureCode string, effective time.Time) (int, error)
	GetJobCategory(ctx context.Context, id string) (master.JobCategory, error)
	Choices(ctx context.Context, category string) ([]master.Dropdown, error)
	LatestActiveAgreement(ctx context.Context) (master.StaffAgreement, error)
	AgreementAccepted(ctx context.Context, agreementID, corporateNumber, staffEmail string) (bool, error)
	RecordAgreementAccepted(ctx context.Context, agreementID, corporateNumber, staffEmail string) error
}

type CompanyProvider interface {
	Get(ctx context.Context) (company.Company, error)
}

// Composer builds the canonical document form for one document kind.
type Composer interface {
	ClientContract(ctx context.Context, id string) (pdf.Document, string, error)
	ClientQuotation(ctx context.Context, id string) (pdf.Document, string, error)
	DispatchNotification(ctx context.Context, id string) (pdf.Document, string, error)
	StaffContract(ctx context.Context, id string) (pdf.Document, string, error)
}

type Renderer interface {
	Render(doc pdf.Document) ([]byte, error)
}

type Service struct {
	store    StoreAPI
	clients  ClientDirectory
	staffDir StaffDirectory
	masters  MasterData
	comp     CompanyProvider
	composer Composer
	renderer Renderer
	blobs    blob.Store
	clock    clock.Clock
}

func NewService(store StoreAPI, clients ClientDirectory, staffDir StaffDirectory, masters MasterData, comp CompanyProvider, composer Composer, renderer Renderer, blobs blob.Store, clk clock.Clock) *Service {
	return &Service{
		store:    store,
		clients:  clients,
		staffDir: staffDir,
		masters:  masters,
		comp:     comp,
		composer: composer,
		renderer: renderer,
		blobs:    blobs,
		clock:    clk,
	}
}

// --- client contract transitions ---

func (s *Service) SubmitClient(ctx context.Context, id string) error {
	return s.store.SubmitClientContract(ctx, id)
}

// ApproveClient runs the full rule set, then allocates a number and moves
// PENDING to APPROVED. Validation failures leave the contract untouched.
func (s *Service) ApproveClient(ctx context.Context, id, userID string) (string, error) {
	c, err := s.store.GetClientContract(ctx, id)
	if err != nil {
		return "", err
	}
	if c.Status != StatusPending {
		return "", ErrIllegalTransition
	}

	in, err := s.loadClientInput(ctx, c)
	if err != nil {
		return "", err
	}
	if err := ValidateClientContract(in); err != nil {
		return "", err
	}

	number, err := s.store.ApproveClientContract(ctx, id, in.Client.Code(), userID, s.clock.Now())
	if err != nil {
		return "", err
	}
	slog.Info("client contract approved", "contractId", id, "number", number, "by", userID)
	return number, nil
}

// IssueClient renders the contract document, appends the print row and
// moves APPROVED to ISSUED. A dispatch contract additionally renders and
// logs the destination notification under the same number snapshot.
func (s *Service) IssueClient(ctx context.Context, id, userID string) ([]PrintRow, error) {
	c, err := s.store.GetClientContract(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusApproved {
		return nil, ErrIllegalTransition
	}

	in, err := s.loadClientInput(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := ValidateClientContract(in); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	prints := make([]PrintRow, 0, 2)

	row, err := s.renderAndStore(ctx, s.composer.ClientContract, c.ID, c.ContractNumber, PrintTypeContract, "client_contract", userID, now, "")
	if err != nil {
		return nil, err
	}
	prints = append(prints, row)

	if c.IsDispatch() {
		row, err := s.renderAndStore(ctx, s.composer.DispatchNotification, c.ID, c.ContractNumber, PrintTypeDispatchNotification, "haken_notification", userID, now, "")
		if err != nil {
			return nil, err
		}
		prints = append(prints, row)
	}

	if err := s.store.FinalizeClientIssue(ctx, id, now, userID, prints); err != nil {
		return nil, err
	}
	slog.Info("client contract issued", "contractId", id, "prints", len(prints), "by", userID)
	return prints, nil
}

// IssueClientQuotation renders a quotation for an approved contract. It
// appends a print row and stamps quotation_issued_at without moving the
// status axis.
func (s *Service) IssueClientQuotation(ctx context.Context, id, userID string) (PrintRow, error) {
	c, err := s.store.GetClientContract(ctx, id)
	if err != nil {
		return PrintRow{}, err
	}
	if !StatusAtLeast(c.Status, StatusApproved) {
		return PrintRow{}, ErrIllegalTransition
	}

	now := s.clock.Now()
	row, err := s.renderAndStore(ctx, s.composer.ClientQuotation, c.ID, c.ContractNumber, PrintTypeQuotation, "client_quotation", userID, now, "")
	if err != nil {
		return PrintRow{}, err
	}
	if err := s.store.SetClientQuotationIssued(ctx, id, now, row); err != nil {
		return PrintRow{}, err
	}
	return row, nil
}

// PreviewClient renders the contract document without logging; drafts and
// pending contracts carry a DRAFT watermark.
func (s *Service) PreviewClient(ctx context.Context, id string) ([]byte, string, error) {
	c, err := s.store.GetClientContract(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc, _, err := s.composer.ClientContract(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if Editable(c.Status) {
		doc.Watermark = "DRAFT"
	}
	data, err := s.renderer.Render(doc)
	if err != nil {
		return nil, "", err
	}
	return data, fileName("client_contract", c.ID, s.clock.Now()), nil
}

// ConfirmClient lands the counterparty's confirmation. Only a user of the
// contracted client may confirm; actorEmail is the authenticated client
// user's email.
func (s *Service) ConfirmClient(ctx context.Context, id, actorEmail string) error {
	if err := s.requireClientCounterparty(ctx, id, actorEmail); err != nil {
		return err
	}
	return s.store.ConfirmClientContract(ctx, id, s.clock.Now())
}

func (s *Service) UnconfirmClient(ctx context.Context, id, actorEmail string) error {
	if err := s.requireClientCounterparty(ctx, id, actorEmail); err != nil {
		return err
	}
	return s.store.UnconfirmClientContract(ctx, id)
}

func (s *Service) requireClientCounterparty(ctx context.Context, id, actorEmail string) error {
	c, err := s.store.GetClientContract(ctx, id)
	if err != nil {
		return err
	}
	user, err := s.clients.GetUserByEmail(ctx, actorEmail)
	if err != nil {
		return ErrNotCounterparty
	}
	if user.ClientID != c.ClientID {
		return ErrNotCounterparty
	}
	return nil
}

func (s *Service) UnapproveClient(ctx context.Context, id string) error {
	if err := s.store.UnapproveClientContract(ctx, id); err != nil {
		return err
	}
	slog.Info("client contract unapproved", "contractId", id)
	return nil
}

// --- staff contract transitions ---

func (s *Service) SubmitStaff(ctx context.Context, id string) error {
	return s.store.SubmitStaffContract(ctx, id)
}

func (s *Service) ApproveStaff(ctx context.Context, id, userID string) (string, error) {
	c, err := s.store.GetStaffContract(ctx, id)
	if err != nil {
		return "", err
	}
	if c.Status != StatusPending {
		return "", ErrIllegalTransition
	}

	in, err := s.loadStaffInput(ctx, c)
	if err != nil {
		return "", err
	}
	if err := ValidateStaffContract(in); err != nil {
		return "", err
	}

	number, err := s.store.ApproveStaffContract(ctx, id, in.Staff.EmployeeNo, userID, s.clock.Now())
	if err != nil {
		return "", err
	}
	slog.Info("staff contract approved", "contractId", id, "number", number, "by", userID)
	return number, nil
}

func (s *Service) IssueStaff(ctx context.Context, id, userID string) ([]PrintRow, error) {
	c, err := s.store.GetStaffContract(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusApproved {
		return nil, ErrIllegalTransition
	}

	in, err := s.loadStaffInput(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := ValidateStaffContract(in); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	row, err := s.renderAndStore(ctx, s.composer.StaffContract, c.ID, c.ContractNumber, PrintTypeEmploymentConditions, "staff_contract", userID, now, "")
	if err != nil {
		return nil, err
	}
	prints := []PrintRow{row}
	if err := s.store.FinalizeStaffIssue(ctx, id, now, userID, prints); err != nil {
		return nil, err
	}
	slog.Info("staff contract issued", "contractId", id, "by", userID)
	return prints, nil
}

func (s *Service) PreviewStaff(ctx context.Context, id string) ([]byte, string, error) {
	c, err := s.store.GetStaffContract(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc, _, err := s.composer.StaffContract(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if Editable(c.Status) {
		doc.Watermark = "DRAFT"
	}
	data, err := s.renderer.Render(doc)
	if err != nil {
		return nil, "", err
	}
	return data, fileName("staff_contract", c.ID, s.clock.Now()), nil
}

// ConfirmStaff lands the staff member's own confirmation: actorEmail must
// match the contracted staff, and the latest active staff agreement must be
// on record for that email before the confirmation lands.
func (s *Service) ConfirmStaff(ctx context.Context, id, actorEmail string, accept bool) error {
	c, err := s.store.GetStaffContract(ctx, id)
	if err != nil {
		return err
	}
	st, err := s.staffDir.GetByID(ctx, c.StaffID)
	if err != nil {
		return err
	}
	if st.Email != actorEmail {
		return ErrNotCounterparty
	}
	comp, err := s.comp.Get(ctx)
	if err != nil {
		return err
	}

	agreement, err := s.masters.LatestActiveAgreement(ctx)
	if err != nil && !errors.Is(err, master.ErrNotFound) {
		return err
	}
	if err == nil {
		if accept {
			if err := s.masters.RecordAgreementAccepted(ctx, agreement.ID, comp.CorporateNumber, st.Email); err != nil {
				return err
			}
		}
		accepted, err := s.masters.AgreementAccepted(ctx, agreement.ID, comp.CorporateNumber, st.Email)
		if err != nil {
			return err
		}
		if !accepted {
			return ErrAgreementRequired
		}
	}

	return s.store.ConfirmStaffContract(ctx, id, s.clock.Now())
}

func (s *Service) UnconfirmStaff(ctx context.Context, id, actorEmail string) error {
	c, err := s.store.GetStaffContract(ctx, id)
	if err != nil {
		return err
	}
	st, err := s.staffDir.GetByID(ctx, c.StaffID)
	if err != nil {
		return err
	}
	if st.Email != actorEmail {
		return ErrNotCounterparty
	}
	return s.store.UnconfirmStaffContract(ctx, id)
}

func (s *Service) UnapproveStaff(ctx context.Context, id string) error {
	if err := s.store.UnapproveStaffContract(ctx, id); err != nil {
		return err
	}
	slog.Info("staff contract unapproved", "contractId", id)
	return nil
}

// --- issue log reads ---

func (s *Service) ClientPrints(ctx context.Context, contractID string) ([]PrintRow, error) {
	return s.store.ListClientPrints(ctx, contractID)
}

func (s *Service) StaffPrints(ctx context.Context, contractID string) ([]PrintRow, error) {
	return s.store.ListStaffPrints(ctx, contractID)
}

func (s *Service) DownloadClientPrint(ctx context.Context, printID string) (PrintRow, []byte, error) {
	row, err := s.store.GetClientPrint(ctx, printID)
	if err != nil {
		return PrintRow{}, nil, err
	}
	data, err := s.blobs.Get(ctx, row.BlobHandle)
	if err != nil {
		return PrintRow{}, nil, err
	}
	return row, data, nil
}

func (s *Service) DownloadStaffPrint(ctx context.Context, printID string) (PrintRow, []byte, error) {
	row, err := s.store.GetStaffPrint(ctx, printID)
	if err != nil {
		return PrintRow{}, nil, err
	}
	data, err := s.blobs.Get(ctx, row.BlobHandle)
	if err != nil {
		return PrintRow{}, nil, err
	}
	return row, data, nil
}

// --- input assembly ---

func (s *Service) loadClientInput(ctx context.Context, c ClientContract) (ClientContractInput, error) {
	in := ClientContractInput{Contract: c}

	cl, err := s.clients.GetByID(ctx, c.ClientID)
	if err != nil {
		return in, err
	}
	in.Client = cl

	if in.Haken, err = s.store.GetHaken(ctx, c.ID); err != nil {
		return in, err
	}
	if in.Ttp, err = s.store.GetTtp(ctx, c.ID); err != nil {
		return in, err
	}
	if in.Exempt, err = s.store.GetExempt(ctx, c.ID); err != nil {
		return in, err
	}
	if in.Assignments, err = s.store.ListAssignmentPeriods(ctx, c.ID); err != nil {
		return in, err
	}
	return in, nil
}

func (s *Service) loadStaffInput(ctx context.Context, c StaffContract) (StaffContractInput, error) {
	in := StaffContractInput{Contract: c}

	st, err := s.staffDir.GetByID(ctx, c.StaffID)
	if err != nil {
		return in, err
	}
	in.Staff = st

	if st.HasInternational {
		intl, err := s.staffDir.GetInternational(ctx, st.ID)
		if err != nil && !errors.Is(err, staff.ErrNotFound) {
			return in, err
		}
		if err == nil {
			in.International = &intl
		}
	}

	if c.JobCategoryID != "" {
		jc, err := s.masters.GetJobCategory(ctx, c.JobCategoryID)
		if err != nil && !errors.Is(err, master.ErrNotFound) {
			return in, err
		}
		if err == nil {
			in.JobCategory = &jc
		}
	}

	if pref, ok := s.resolvePrefecture(ctx, c.WorkLocation); ok {
		wage, err := s.masters.MinimumWageAt(ctx, pref, c.StartDate)
		if err != nil && !errors.Is(err, master.ErrNoWageTable) {
			return in, err
		}
		if err == nil {
			in.MinimumWage = &wage
		}
	}
	return in, nil
}

// resolvePrefecture scans the prefecture dropdown for a name contained in
// the work location text.
func (s *Service) resolvePrefecture(ctx context.Context, workLocation string) (string, bool) {
	if workLocation == "" {
		return "", false
	}
	prefs, err := s.masters.Choices(ctx, "pref")
	if err != nil {
		slog.Warn("prefecture lookup failed", "err", err)
		return "", false
	}
	for _, p := range prefs {
		if strings.Contains(workLocation, p.Name) {
			return p.Value, true
		}
	}
	return "", false
}

type composeFn func(ctx context.Context, id string) (pdf.Document, string, error)

// renderAndStore runs one document through compose, render, blob upload.
// The blob is written before any row referencing it exists.
func (s *Service) renderAndStore(ctx context.Context, compose composeFn, parentID, number, printType, kind, userID string, now time.Time, watermark string) (PrintRow, error) {
	doc, title, err := compose(ctx, parentID)
	if err != nil {
		return PrintRow{}, err
	}
	doc.Watermark = watermark

	data, err := s.renderer.Render(doc)
	if err != nil {
		return PrintRow{}, err
	}

	name := fileName(kind, parentID, now)
	handle, err := s.blobs.Put(ctx, parentID+"/"+name, data)
	if err != nil {
		return PrintRow{}, err
	}

	sum := sha256.Sum256(data)
	return PrintRow{
		ParentID:       parentID,
		PrintType:      printType,
		DocumentTitle:  title,
		ContractNumber: number,
		FileName:       name,
		BlobHandle:     handle,
		SHA256:         hex.EncodeToString(sum[:]),
		IssuedAt:       now,
		IssuedBy:       userID,
	}, nil
}

func fileName(kind, parentID string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s.pdf", kind, parentID, at.Format("20060102150405"))
}
