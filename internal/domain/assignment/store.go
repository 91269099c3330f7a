package assignment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const assignmentColumns = `
    id, client_contract_id, staff_contract_id, staff_email,
    client_corporate_number, issued_at, confirmed_at, created_at`

func (s *Store) Get(ctx context.Context, id string) (ContractAssignment, error) {
	var a ContractAssignment
	err := s.DB.QueryRow(ctx,
		"SELECT"+assignmentColumns+" FROM contract_assignments WHERE id = $1", id).Scan(
		&a.ID, &a.ClientContractID, &a.StaffContractID, &a.StaffEmail,
		&a.ClientCorporateNumber, &a.IssuedAt, &a.ConfirmedAt, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ContractAssignment{}, ErrNotFound
	}
	if err != nil {
		return ContractAssignment{}, err
	}
	return a, nil
}

func (s *Store) ListByClientContract(ctx context.Context, clientContractID string) ([]ContractAssignment, error) {
	return s.list(ctx,
		"SELECT"+assignmentColumns+" FROM contract_assignments WHERE client_contract_id = $1 ORDER BY created_at",
		clientContractID)
}

func (s *Store) ListByStaffContract(ctx context.Context, staffContractID string) ([]ContractAssignment, error) {
	return s.list(ctx,
		"SELECT"+assignmentColumns+" FROM contract_assignments WHERE staff_contract_id = $1 ORDER BY created_at",
		staffContractID)
}

func (s *Store) list(ctx context.Context, query, arg string) ([]ContractAssignment, error) {
	rows, err := s.DB.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContractAssignment
	for rows.Next() {
		var a ContractAssignment
		if err := rows.Scan(&a.ID, &a.ClientContractID, &a.StaffContractID, &a.StaffEmail,
			&a.ClientCorporateNumber, &a.IssuedAt, &a.ConfirmedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, a ContractAssignment) (ContractAssignment, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO contract_assignments
      (client_contract_id, staff_contract_id, staff_email, client_corporate_number)
    VALUES ($1, $2, $3, $4)
    RETURNING id, created_at
  `, a.ClientContractID, a.StaffContractID, a.StaffEmail, a.ClientCorporateNumber).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return ContractAssignment{}, err
	}
	return a, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM contract_assignments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
