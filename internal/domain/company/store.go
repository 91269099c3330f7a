package company

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotConfigured = errors.New("company record not configured")

type StoreAPI interface {
	Get(ctx context.Context) (Company, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context) (Company, error) {
	var c Company
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, corporate_number, address, phone_number, haken_permit_number, dispatch_treatment_method
    FROM companies
    ORDER BY created_at
    LIMIT 1
  `).Scan(&c.ID, &c.Name, &c.CorporateNumber, &c.Address, &c.PhoneNumber, &c.HakenPermitNumber, &c.DispatchTreatmentMethod)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotConfigured
	}
	if err != nil {
		return Company{}, err
	}
	return c, nil
}

func (s *Store) Seed(ctx context.Context, c Company) error {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM companies").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO companies (name, corporate_number, address, phone_number, haken_permit_number, dispatch_treatment_method)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, c.Name, c.CorporateNumber, c.Address, c.PhoneNumber, c.HakenPermitNumber, c.DispatchTreatmentMethod)
	return err
}
