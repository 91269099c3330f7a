package contract

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const clientContractColumns = `
    id, client_id, type_code, COALESCE(pattern_id::text, ''), contract_name,
    COALESCE(contract_number, ''), contract_status, start_date, end_date,
    contract_amount, COALESCE(bill_unit, ''), COALESCE(payment_site, ''),
    COALESCE(business_content, ''), COALESCE(job_category_id::text, ''),
    COALESCE(memo, ''), COALESCE(notes, ''),
    approved_at, COALESCE(approved_by, ''), issued_at, COALESCE(issued_by, ''),
    confirmed_at, quotation_issued_at, created_at, updated_at`

func (s *Store) GetClientContract(ctx context.Context, id string) (ClientContract, error) {
	var c ClientContract
	err := s.DB.QueryRow(ctx, "SELECT"+clientContractColumns+" FROM client_contracts WHERE id = $1", id).Scan(
		&c.ID, &c.ClientID, &c.TypeCode, &c.PatternID, &c.ContractName,
		&c.ContractNumber, &c.Status, &c.StartDate, &c.EndDate,
		&c.ContractAmount, &c.BillUnit, &c.PaymentSite,
		&c.BusinessContent, &c.JobCategoryID, &c.Memo, &c.Notes,
		&c.ApprovedAt, &c.ApprovedBy, &c.IssuedAt, &c.IssuedBy,
		&c.ConfirmedAt, &c.QuotationIssuedAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ClientContract{}, ErrNotFound
	}
	if err != nil {
		return ClientContract{}, err
	}
	return c, nil
}

const staffContractColumns = `
    id, staff_id, employment_type, COALESCE(pattern_id::text, ''), contract_name,
    COALESCE(contract_number, ''), contract_status, start_date, end_date,
    contract_amount, COALESCE(pay_unit, ''), COALESCE(work_location, ''),
    COALESCE(business_content, ''), COALESCE(job_category_id::text, ''),
    COALESCE(worktime_text, ''), COALESCE(notes, ''),
    approved_at, COALESCE(approved_by, ''), issued_at, COALESCE(issued_by, ''),
    confirmed_at, created_at, updated_at`

func (s *Store) GetStaffContract(ctx context.Context, id string) (StaffContract, error) {
	var c StaffContract
	err := s.DB.QueryRow(ctx, "SELECT"+staffContractColumns+" FROM staff_contracts WHERE id = $1", id).Scan(
		&c.ID, &c.StaffID, &c.EmploymentType, &c.PatternID, &c.ContractName,
		&c.ContractNumber, &c.Status, &c.StartDate, &c.EndDate,
		&c.ContractAmount, &c.PayUnit, &c.WorkLocation,
		&c.BusinessContent, &c.JobCategoryID, &c.WorktimeText, &c.Notes,
		&c.ApprovedAt, &c.ApprovedBy, &c.IssuedAt, &c.IssuedBy,
		&c.ConfirmedAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return StaffContract{}, ErrNotFound
	}
	if err != nil {
		return StaffContract{}, err
	}
	return c, nil
}

func (s *Store) GetHaken(ctx context.Context, clientContractID string) (*Haken, error) {
	var h Haken
	err := s.DB.QueryRow(ctx, `
    SELECT client_contract_id, workplace_department_id, unit_department_id,
           COALESCE(work_location, ''), COALESCE(commander, ''),
           COALESCE(complaint_officer_client, ''), COALESCE(complaint_officer_company, ''),
           COALESCE(responsible_person_client, ''), COALESCE(responsible_person_company, ''),
           COALESCE(responsibility_degree, ''), limit_by_agreement, limit_indefinite_or_senior
    FROM client_contract_hakens
    WHERE client_contract_id = $1
  `, clientContractID).Scan(
		&h.ClientContractID, &h.WorkplaceDepartmentID, &h.UnitDepartmentID,
		&h.WorkLocation, &h.Commander,
		&h.ComplaintOfficerClient, &h.ComplaintOfficerCompany,
		&h.ResponsiblePersonClient, &h.ResponsiblePersonCompany,
		&h.ResponsibilityDegree, &h.LimitByAgreement, &h.LimitIndefiniteOrSenior)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Store) GetTtp(ctx context.Context, clientContractID string) (*Ttp, error) {
	var t Ttp
	err := s.DB.QueryRow(ctx, `
    SELECT client_contract_id, COALESCE(employment_planned, ''), COALESCE(probation_period, ''),
           COALESCE(wage_on_hire, ''), COALESCE(insurance_on_hire, ''), COALESCE(holidays_on_hire, '')
    FROM client_contract_ttps
    WHERE client_contract_id = $1
  `, clientContractID).Scan(&t.ClientContractID, &t.EmploymentPlanned, &t.ProbationPeriod,
		&t.WageOnHire, &t.InsuranceOnHire, &t.HolidaysOnHire)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetExempt(ctx context.Context, clientContractID string) (*HakenExempt, error) {
	var e HakenExempt
	err := s.DB.QueryRow(ctx, `
    SELECT client_contract_id, reason, COALESCE(detail, '')
    FROM client_contract_haken_exempts
    WHERE client_contract_id = $1
  `, clientContractID).Scan(&e.ClientContractID, &e.Reason, &e.Detail)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) ListAssignmentPeriods(ctx context.Context, clientContractID string) ([]AssignmentPeriod, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.id, sc.id, st.id, st.name_last || ' ' || st.name_first,
           sc.employment_type, st.birth_date, sc.start_date, sc.end_date
    FROM contract_assignments a
    JOIN staff_contracts sc ON a.staff_contract_id = sc.id
    JOIN staff st ON sc.staff_id = st.id
    WHERE a.client_contract_id = $1
    ORDER BY sc.start_date
  `, clientContractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []AssignmentPeriod
	for rows.Next() {
		var p AssignmentPeriod
		if err := rows.Scan(&p.AssignmentID, &p.StaffContractID, &p.StaffID, &p.StaffName,
			&p.EmploymentType, &p.BirthDate, &p.StartDate, &p.EndDate); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// --- transitions ---

func (s *Store) SubmitClientContract(ctx context.Context, id string) error {
	return s.casStatus(ctx, "client_contracts", id, StatusDraft, StatusPending)
}

func (s *Store) SubmitStaffContract(ctx context.Context, id string) error {
	return s.casStatus(ctx, "staff_contracts", id, StatusDraft, StatusPending)
}

func (s *Store) casStatus(ctx context.Context, table, id, from, to string) error {
	tag, err := s.DB.Exec(ctx,
		"UPDATE "+table+" SET contract_status = $1, updated_at = now() WHERE id = $2 AND contract_status = $3",
		to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrIllegal(ctx, table, id)
	}
	return nil
}

func (s *Store) missingOrIllegal(ctx context.Context, table, id string) error {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM "+table+" WHERE id = $1", id).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrIllegalTransition
}

// txNumberStore binds sequence allocation to the approve transaction so a
// failed approve consumes no number.
type txNumberStore struct {
	tx pgx.Tx
}

func (n *txNumberStore) NextClientSeq(ctx context.Context, clientCode, yearMonth string) (int, error) {
	var seq int
	err := n.tx.QueryRow(ctx, `
    INSERT INTO client_contract_numbers (client_code, year_month, last_number)
    VALUES ($1, $2, 1)
    ON CONFLICT (client_code, year_month)
    DO UPDATE SET last_number = client_contract_numbers.last_number + 1
    RETURNING last_number
  `, clientCode, yearMonth).Scan(&seq)
	return seq, err
}

func (n *txNumberStore) NextStaffSeq(ctx context.Context, employeeNo, yearMonth string) (int, error) {
	var seq int
	err := n.tx.QueryRow(ctx, `
    INSERT INTO staff_contract_numbers (employee_no, year_month, last_number)
    VALUES ($1, $2, 1)
    ON CONFLICT (employee_no, year_month)
    DO UPDATE SET last_number = staff_contract_numbers.last_number + 1
    RETURNING last_number
  `, employeeNo, yearMonth).Scan(&seq)
	return seq, err
}

func (s *Store) ApproveClientContract(ctx context.Context, id, clientCode, by string, at time.Time) (string, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	var startDate time.Time
	err = tx.QueryRow(ctx, "SELECT contract_status, start_date FROM client_contracts WHERE id = $1 FOR UPDATE", id).
		Scan(&status, &startDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if status != StatusPending {
		return "", ErrIllegalTransition
	}

	issuer := NewIssuer(&txNumberStore{tx: tx})
	number, err := issuer.IssueClientNumber(ctx, clientCode, startDate)
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE client_contracts
    SET contract_status = $1, contract_number = $2, approved_at = $3, approved_by = $4, updated_at = now()
    WHERE id = $5
  `, StatusApproved, number, at, by, id); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return number, nil
}

func (s *Store) ApproveStaffContract(ctx context.Context, id, employeeNo, by string, at time.Time) (string, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	var startDate time.Time
	err = tx.QueryRow(ctx, "SELECT contract_status, start_date FROM staff_contracts WHERE id = $1 FOR UPDATE", id).
		Scan(&status, &startDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if status != StatusPending {
		return "", ErrIllegalTransition
	}

	issuer := NewIssuer(&txNumberStore{tx: tx})
	number, err := issuer.IssueStaffNumber(ctx, employeeNo, startDate)
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE staff_contracts
    SET contract_status = $1, contract_number = $2, approved_at = $3, approved_by = $4, updated_at = now()
    WHERE id = $5
  `, StatusApproved, number, at, by, id); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return number, nil
}

func (s *Store) FinalizeClientIssue(ctx context.Context, id string, at time.Time, by string, prints []PrintRow) error {
	return s.finalizeIssue(ctx, "client_contracts", "client_contract_prints", "client_contract_id", id, at, by, prints)
}

func (s *Store) FinalizeStaffIssue(ctx context.Context, id string, at time.Time, by string, prints []PrintRow) error {
	return s.finalizeIssue(ctx, "staff_contracts", "staff_contract_prints", "staff_contract_id", id, at, by, prints)
}

func (s *Store) finalizeIssue(ctx context.Context, table, printTable, fk, id string, at time.Time, by string, prints []PrintRow) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		"UPDATE "+table+" SET contract_status = $1, issued_at = $2, issued_by = $3, updated_at = now() WHERE id = $4 AND contract_status = $5",
		StatusIssued, at, by, id, StatusApproved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIllegalTransition
	}

	for _, p := range prints {
		if _, err := tx.Exec(ctx, `
      INSERT INTO `+printTable+` (`+fk+`, print_type, document_title, contract_number, file_name, blob_handle, sha256, issued_at, issued_by)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, p.ParentID, p.PrintType, p.DocumentTitle, p.ContractNumber, p.FileName, p.BlobHandle, p.SHA256, p.IssuedAt, p.IssuedBy); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) SetClientQuotationIssued(ctx context.Context, id string, at time.Time, print PrintRow) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		"UPDATE client_contracts SET quotation_issued_at = $1, updated_at = now() WHERE id = $2",
		at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO client_contract_prints (client_contract_id, print_type, document_title, contract_number, file_name, blob_handle, sha256, issued_at, issued_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, print.ParentID, print.PrintType, print.DocumentTitle, print.ContractNumber, print.FileName, print.BlobHandle, print.SHA256, print.IssuedAt, print.IssuedBy); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) ConfirmClientContract(ctx context.Context, id string, at time.Time) error {
	return s.confirm(ctx, "client_contracts", id, at)
}

func (s *Store) ConfirmStaffContract(ctx context.Context, id string, at time.Time) error {
	return s.confirm(ctx, "staff_contracts", id, at)
}

func (s *Store) confirm(ctx context.Context, table, id string, at time.Time) error {
	tag, err := s.DB.Exec(ctx,
		"UPDATE "+table+" SET contract_status = $1, confirmed_at = $2, updated_at = now() WHERE id = $3 AND contract_status = $4",
		StatusConfirmed, at, id, StatusIssued)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrIllegal(ctx, table, id)
	}
	return nil
}

func (s *Store) UnconfirmClientContract(ctx context.Context, id string) error {
	return s.unconfirm(ctx, "client_contracts", id)
}

func (s *Store) UnconfirmStaffContract(ctx context.Context, id string) error {
	return s.unconfirm(ctx, "staff_contracts", id)
}

func (s *Store) unconfirm(ctx context.Context, table, id string) error {
	tag, err := s.DB.Exec(ctx,
		"UPDATE "+table+" SET contract_status = $1, confirmed_at = NULL, updated_at = now() WHERE id = $2 AND contract_status = $3",
		StatusIssued, id, StatusConfirmed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrIllegal(ctx, table, id)
	}
	return nil
}

// UnapproveClientContract is the only backwards transition. Print rows are
// deliberately left alone; they are the historical record.
func (s *Store) UnapproveClientContract(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE client_contracts
    SET contract_status = $1, contract_number = NULL,
        approved_at = NULL, approved_by = NULL,
        issued_at = NULL, issued_by = NULL,
        confirmed_at = NULL, quotation_issued_at = NULL,
        updated_at = now()
    WHERE id = $2 AND contract_status IN ($3, $4, $5)
  `, StatusDraft, id, StatusApproved, StatusIssued, StatusConfirmed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return s.missingOrIllegal(ctx, "client_contracts", id)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE contract_assignments SET issued_at = NULL, confirmed_at = NULL WHERE client_contract_id = $1", id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) UnapproveStaffContract(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE staff_contracts
    SET contract_status = $1, contract_number = NULL,
        approved_at = NULL, approved_by = NULL,
        issued_at = NULL, issued_by = NULL,
        confirmed_at = NULL,
        updated_at = now()
    WHERE id = $2 AND contract_status IN ($3, $4, $5)
  `, StatusDraft, id, StatusApproved, StatusIssued, StatusConfirmed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return s.missingOrIllegal(ctx, "staff_contracts", id)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE contract_assignments SET issued_at = NULL, confirmed_at = NULL WHERE staff_contract_id = $1", id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// --- issue log ---

func (s *Store) ListClientPrints(ctx context.Context, clientContractID string) ([]PrintRow, error) {
	return s.listPrints(ctx, "client_contract_prints", "client_contract_id", clientContractID)
}

func (s *Store) ListStaffPrints(ctx context.Context, staffContractID string) ([]PrintRow, error) {
	return s.listPrints(ctx, "staff_contract_prints", "staff_contract_id", staffContractID)
}

func (s *Store) listPrints(ctx context.Context, table, fk, parentID string) ([]PrintRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, `+fk+`, print_type, document_title, COALESCE(contract_number, ''), file_name, blob_handle, sha256, issued_at, COALESCE(issued_by, '')
    FROM `+table+`
    WHERE `+fk+` = $1
    ORDER BY issued_at DESC, id DESC
  `, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prints []PrintRow
	for rows.Next() {
		var p PrintRow
		if err := rows.Scan(&p.ID, &p.ParentID, &p.PrintType, &p.DocumentTitle, &p.ContractNumber,
			&p.FileName, &p.BlobHandle, &p.SHA256, &p.IssuedAt, &p.IssuedBy); err != nil {
			return nil, err
		}
		prints = append(prints, p)
	}
	return prints, rows.Err()
}

func (s *Store) GetClientPrint(ctx context.Context, printID string) (PrintRow, error) {
	return s.getPrint(ctx, "client_contract_prints", "client_contract_id", printID)
}

func (s *Store) GetStaffPrint(ctx context.Context, printID string) (PrintRow, error) {
	return s.getPrint(ctx, "staff_contract_prints", "staff_contract_id", printID)
}

func (s *Store) getPrint(ctx context.Context, table, fk, printID string) (PrintRow, error) {
	var p PrintRow
	err := s.DB.QueryRow(ctx, `
    SELECT id, `+fk+`, print_type, document_title, COALESCE(contract_number, ''), file_name, blob_handle, sha256, issued_at, COALESCE(issued_by, '')
    FROM `+table+`
    WHERE id = $1
  `, printID).Scan(&p.ID, &p.ParentID, &p.PrintType, &p.DocumentTitle, &p.ContractNumber,
		&p.FileName, &p.BlobHandle, &p.SHA256, &p.IssuedAt, &p.IssuedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return PrintRow{}, ErrNotFound
	}
	if err != nil {
		return PrintRow{}, err
	}
	return p, nil
}
