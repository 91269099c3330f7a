package master

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound    = errors.New("master record not found")
	ErrNoWageTable = errors.New("no minimum wage recorded for prefecture")
)

type StoreAPI interface {
	GetPattern(ctx context.Context, id string) (ContractPattern, error)
	Lookup(ctx context.Context, category, value string) (Dropdown, error)
	Choices(ctx context.Context, category string) ([]Dropdown, error)
	MinimumWageAt(ctx context.Context, prefectureCode string, effective time.Time) (int, error)
	GetJobCategory(ctx context.Context, id string) (JobCategory, error)
	LatestActiveAgreement(ctx context.Context) (StaffAgreement, error)
	RecordAgreementAccepted(ctx context.Context, agreementID, corporateNumber, staffEmail string) error
	AgreementAccepted(ctx context.Context, agreementID, corporateNumber, staffEmail string) (bool, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetPattern(ctx context.Context, id string) (ContractPattern, error) {
	var p ContractPattern
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, domain, COALESCE(contract_type_code, '')
    FROM contract_patterns
    WHERE id = $1
  `, id).Scan(&p.ID, &p.Name, &p.Domain, &p.ContractTypeCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return ContractPattern{}, ErrNotFound
	}
	if err != nil {
		return ContractPattern{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, position, ordinal, label, body
    FROM contract_clauses
    WHERE pattern_id = $1
    ORDER BY position, ordinal
  `, id)
	if err != nil {
		return ContractPattern{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var c Clause
		if err := rows.Scan(&c.ID, &c.Position, &c.Ordinal, &c.Label, &c.Body); err != nil {
			return ContractPattern{}, err
		}
		p.Clauses = append(p.Clauses, c)
	}
	return p, rows.Err()
}

func (s *Store) Lookup(ctx context.Context, category, value string) (Dropdown, error) {
	var d Dropdown
	err := s.DB.QueryRow(ctx, `
    SELECT category, value, name, seq
    FROM dropdowns
    WHERE category = $1 AND value = $2
  `, category, value).Scan(&d.Category, &d.Value, &d.Name, &d.Seq)
	if errors.Is(err, pgx.ErrNoRows) {
		return Dropdown{}, ErrNotFound
	}
	if err != nil {
		return Dropdown{}, err
	}
	return d, nil
}

func (s *Store) Choices(ctx context.Context, category string) ([]Dropdown, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT category, value, name, seq
    FROM dropdowns
    WHERE category = $1
    ORDER BY seq
  `, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var choices []Dropdown
	for rows.Next() {
		var d Dropdown
		if err := rows.Scan(&d.Category, &d.Value, &d.Name, &d.Seq); err != nil {
			return nil, err
		}
		choices = append(choices, d)
	}
	return choices, rows.Err()
}

func (s *Store) MinimumWageAt(ctx context.Context, prefectureCode string, effective time.Time) (int, error) {
	var wage int
	err := s.DB.QueryRow(ctx, `
    SELECT hourly_wage
    FROM minimum_wages
    WHERE prefecture_code = $1 AND effective_from <= $2
    ORDER BY effective_from DESC
    LIMIT 1
  `, prefectureCode, effective).Scan(&wage)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNoWageTable
	}
	if err != nil {
		return 0, err
	}
	return wage, nil
}

func (s *Store) GetJobCategory(ctx context.Context, id string) (JobCategory, error) {
	var jc JobCategory
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, is_manufacturing_dispatch, accepts_foreign_worker
    FROM job_categories
    WHERE id = $1
  `, id).Scan(&jc.ID, &jc.Name, &jc.IsManufacturingDispatch, &jc.AcceptsForeignWorker)
	if errors.Is(err, pgx.ErrNoRows) {
		return JobCategory{}, ErrNotFound
	}
	if err != nil {
		return JobCategory{}, err
	}
	return jc, nil
}

func (s *Store) LatestActiveAgreement(ctx context.Context) (StaffAgreement, error) {
	var a StaffAgreement
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, body, is_active, created_at
    FROM staff_agreements
    WHERE is_active
    ORDER BY created_at DESC
    LIMIT 1
  `).Scan(&a.ID, &a.Name, &a.Body, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return StaffAgreement{}, ErrNotFound
	}
	if err != nil {
		return StaffAgreement{}, err
	}
	return a, nil
}

func (s *Store) RecordAgreementAccepted(ctx context.Context, agreementID, corporateNumber, staffEmail string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO staff_agreement_accepts (agreement_id, corporate_number, staff_email)
    VALUES ($1,$2,$3)
    ON CONFLICT (agreement_id, corporate_number, staff_email) DO NOTHING
  `, agreementID, corporateNumber, staffEmail)
	return err
}

func (s *Store) AgreementAccepted(ctx context.Context, agreementID, corporateNumber, staffEmail string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM staff_agreement_accepts
    WHERE agreement_id = $1 AND corporate_number = $2 AND staff_email = $3
  `, agreementID, corporateNumber, staffEmail).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
