package client

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("client not found")

type StoreAPI interface {
	GetByID(ctx context.Context, id string) (Client, error)
	GetByCorporateNumber(ctx context.Context, corporateNumber string) (Client, error)
	List(ctx context.Context) ([]Client, error)
	Create(ctx context.Context, c Client) (string, error)
	GetDepartment(ctx context.Context, id string) (ClientDepartment, error)
	ListDepartments(ctx context.Context, clientID string) ([]ClientDepartment, error)
	GetUserByEmail(ctx context.Context, email string) (ClientUser, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const clientColumns = `
    id, name, name_furigana, COALESCE(corporate_number, ''),
    basic_contract_date, basic_contract_date_haken,
    COALESCE(default_payment_site, ''), created_at, updated_at`

func (s *Store) GetByID(ctx context.Context, id string) (Client, error) {
	return s.scanOne(s.DB.QueryRow(ctx, "SELECT"+clientColumns+" FROM clients WHERE id = $1", id))
}

func (s *Store) GetByCorporateNumber(ctx context.Context, corporateNumber string) (Client, error) {
	return s.scanOne(s.DB.QueryRow(ctx, "SELECT"+clientColumns+" FROM clients WHERE corporate_number = $1", corporateNumber))
}

func (s *Store) scanOne(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.NameFurigana, &c.CorporateNumber,
		&c.BasicContractDate, &c.BasicContractDateHaken, &c.DefaultPaymentSite,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	if err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Store) List(ctx context.Context) ([]Client, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+clientColumns+" FROM clients ORDER BY name_furigana, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.NameFurigana, &c.CorporateNumber,
			&c.BasicContractDate, &c.BasicContractDateHaken, &c.DefaultPaymentSite,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) Create(ctx context.Context, c Client) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO clients (name, name_furigana, corporate_number, basic_contract_date, basic_contract_date_haken, default_payment_site)
    VALUES ($1,$2,NULLIF($3,''),$4,$5,NULLIF($6,''))
    RETURNING id
  `, c.Name, c.NameFurigana, c.CorporateNumber, c.BasicContractDate, c.BasicContractDateHaken, c.DefaultPaymentSite).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetDepartment(ctx context.Context, id string) (ClientDepartment, error) {
	var d ClientDepartment
	err := s.DB.QueryRow(ctx, `
    SELECT id, client_id, name, COALESCE(address, ''), COALESCE(manager_title, ''), is_haken_office, is_haken_unit
    FROM client_departments
    WHERE id = $1
  `, id).Scan(&d.ID, &d.ClientID, &d.Name, &d.Address, &d.ManagerTitle, &d.IsHakenOffice, &d.IsHakenUnit)
	if errors.Is(err, pgx.ErrNoRows) {
		return ClientDepartment{}, ErrNotFound
	}
	if err != nil {
		return ClientDepartment{}, err
	}
	return d, nil
}

func (s *Store) ListDepartments(ctx context.Context, clientID string) ([]ClientDepartment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, client_id, name, COALESCE(address, ''), COALESCE(manager_title, ''), is_haken_office, is_haken_unit
    FROM client_departments
    WHERE client_id = $1
    ORDER BY name
  `, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []ClientDepartment
	for rows.Next() {
		var d ClientDepartment
		if err := rows.Scan(&d.ID, &d.ClientID, &d.Name, &d.Address, &d.ManagerTitle, &d.IsHakenOffice, &d.IsHakenUnit); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (ClientUser, error) {
	var u ClientUser
	err := s.DB.QueryRow(ctx, `
    SELECT id, client_id, name, email, password_hash
    FROM client_users
    WHERE email = $1
  `, email).Scan(&u.ID, &u.ClientID, &u.Name, &u.Email, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return ClientUser{}, ErrNotFound
	}
	if err != nil {
		return ClientUser{}, err
	}
	return u, nil
}
