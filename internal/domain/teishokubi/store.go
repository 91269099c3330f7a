package teishokubi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"haken/internal/domain/contract"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// lockKey serializes recomputes per triple via a transaction-scoped
// advisory lock.
func lockKey(ctx context.Context, tx pgx.Tx, key Key) error {
	k := key.StaffEmail + "|" + key.ClientCorporateNumber + "|" + key.OrganizationName
	_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", k)
	return err
}

func (s *Store) CollectAssignmentPeriods(ctx context.Context, key Key) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT GREATEST(cc.start_date, sc.start_date),
           CASE
             WHEN cc.end_date IS NULL THEN sc.end_date
             WHEN sc.end_date IS NULL THEN cc.end_date
             ELSE LEAST(cc.end_date, sc.end_date)
           END
    FROM contract_assignments a
    JOIN client_contracts cc ON cc.id = a.client_contract_id
    JOIN staff_contracts sc ON sc.id = a.staff_contract_id
    JOIN client_contract_hakens h ON h.client_contract_id = cc.id
    JOIN client_departments d ON d.id = h.unit_department_id
    WHERE a.staff_email = $1
      AND a.client_corporate_number = $2
      AND d.name = $3
      AND cc.type_code = $4
      AND sc.employment_type = $5
  `, key.StaffEmail, key.ClientCorporateNumber, key.OrganizationName,
		contract.TypeDispatch, contract.EmploymentFixedTerm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.Start, &p.End); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListManualPeriods(ctx context.Context, key Key) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT d.id, d.assignment_start_date, d.assignment_end_date
    FROM staff_contract_teishokubi_details d
    JOIN staff_contract_teishokubis t ON t.id = d.teishokubi_id
    WHERE t.staff_email = $1 AND t.client_corporate_number = $2 AND t.organization_name = $3
      AND d.is_manual
    ORDER BY d.assignment_start_date
  `, key.StaffEmail, key.ClientCorporateNumber, key.OrganizationName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Period
	for rows.Next() {
		p := Period{IsManual: true}
		if err := rows.Scan(&p.DetailID, &p.Start, &p.End); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Replace rewrites the derived state for one key in a single transaction:
// header upserted, auto details deleted and reinserted, manual details
// relabeled in place.
func (s *Store) Replace(ctx context.Context, key Key, res Result) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockKey(ctx, tx, key); err != nil {
		return err
	}

	var headerID string
	err = tx.QueryRow(ctx, `
    INSERT INTO staff_contract_teishokubis
      (staff_email, client_corporate_number, organization_name, dispatch_start_date, conflict_date, updated_at)
    VALUES ($1, $2, $3, $4, $5, now())
    ON CONFLICT (staff_email, client_corporate_number, organization_name)
    DO UPDATE SET dispatch_start_date = EXCLUDED.dispatch_start_date,
                  conflict_date = EXCLUDED.conflict_date,
                  updated_at = now()
    RETURNING id
  `, key.StaffEmail, key.ClientCorporateNumber, key.OrganizationName,
		res.DispatchStartDate, res.ConflictDate).Scan(&headerID)
	if err != nil {
		return fmt.Errorf("upsert teishokubi header: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM staff_contract_teishokubi_details WHERE teishokubi_id = $1 AND NOT is_manual",
		headerID); err != nil {
		return err
	}

	for _, d := range res.Details {
		if d.IsManual {
			if _, err := tx.Exec(ctx,
				"UPDATE staff_contract_teishokubi_details SET is_calculated = $1 WHERE id = $2",
				d.IsCalculated, d.DetailID); err != nil {
				return err
			}
			continue
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO staff_contract_teishokubi_details
        (teishokubi_id, assignment_start_date, assignment_end_date, is_calculated, is_manual)
      VALUES ($1, $2, $3, $4, false)
    `, headerID, d.Start, d.End, d.IsCalculated); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) DeleteRecord(ctx context.Context, key Key) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockKey(ctx, tx, key); err != nil {
		return err
	}

	var headerID string
	err = tx.QueryRow(ctx, `
    SELECT id FROM staff_contract_teishokubis
    WHERE staff_email = $1 AND client_corporate_number = $2 AND organization_name = $3
  `, key.StaffEmail, key.ClientCorporateNumber, key.OrganizationName).Scan(&headerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var manual int
	if err := tx.QueryRow(ctx,
		"SELECT count(*) FROM staff_contract_teishokubi_details WHERE teishokubi_id = $1 AND is_manual",
		headerID).Scan(&manual); err != nil {
		return err
	}
	if manual > 0 {
		return fmt.Errorf("teishokubi %s still holds %d manual details", headerID, manual)
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM staff_contract_teishokubi_details WHERE teishokubi_id = $1", headerID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		"DELETE FROM staff_contract_teishokubis WHERE id = $1", headerID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// InsertManualDetail creates the header on demand so a manual period can
// predate any assignment.
func (s *Store) InsertManualDetail(ctx context.Context, key Key, start time.Time, end *time.Time) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockKey(ctx, tx, key); err != nil {
		return err
	}

	var headerID string
	err = tx.QueryRow(ctx, `
    INSERT INTO staff_contract_teishokubis
      (staff_email, client_corporate_number, organization_name, dispatch_start_date, conflict_date, updated_at)
    VALUES ($1, $2, $3, $4, $5, now())
    ON CONFLICT (staff_email, client_corporate_number, organization_name)
    DO UPDATE SET updated_at = now()
    RETURNING id
  `, key.StaffEmail, key.ClientCorporateNumber, key.OrganizationName,
		start, addMonthsClamped(start, 36)).Scan(&headerID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO staff_contract_teishokubi_details
      (teishokubi_id, assignment_start_date, assignment_end_date, is_calculated, is_manual)
    VALUES ($1, $2, $3, false, true)
  `, headerID, start, end); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) GetManualDetail(ctx context.Context, detailID string) (Key, error) {
	var key Key
	err := s.DB.QueryRow(ctx, `
    SELECT t.staff_email, t.client_corporate_number, t.organization_name
    FROM staff_contract_teishokubi_details d
    JOIN staff_contract_teishokubis t ON t.id = d.teishokubi_id
    WHERE d.id = $1 AND d.is_manual
  `, detailID).Scan(&key.StaffEmail, &key.ClientCorporateNumber, &key.OrganizationName)
	if errors.Is(err, pgx.ErrNoRows) {
		return Key{}, ErrNotFound
	}
	if err != nil {
		return Key{}, err
	}
	return key, nil
}

func (s *Store) DeleteManualDetail(ctx context.Context, detailID string) error {
	tag, err := s.DB.Exec(ctx,
		"DELETE FROM staff_contract_teishokubi_details WHERE id = $1 AND is_manual", detailID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const recordColumns = `
    id, staff_email, client_corporate_number, organization_name,
    dispatch_start_date, conflict_date, updated_at`

func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+recordColumns+`
    FROM staff_contract_teishokubis
    ORDER BY conflict_date, staff_email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Key.StaffEmail, &r.Key.ClientCorporateNumber,
			&r.Key.OrganizationName, &r.DispatchStartDate, &r.ConflictDate, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Record, []Detail, error) {
	var r Record
	err := s.DB.QueryRow(ctx, "SELECT"+recordColumns+" FROM staff_contract_teishokubis WHERE id = $1", id).
		Scan(&r.ID, &r.Key.StaffEmail, &r.Key.ClientCorporateNumber,
			&r.Key.OrganizationName, &r.DispatchStartDate, &r.ConflictDate, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, nil, ErrNotFound
	}
	if err != nil {
		return Record{}, nil, err
	}

	details, err := s.listDetails(ctx, r.ID)
	if err != nil {
		return Record{}, nil, err
	}
	return r, details, nil
}

func (s *Store) GetByKey(ctx context.Context, key Key) (Record, []Detail, error) {
	var r Record
	err := s.DB.QueryRow(ctx, "SELECT"+recordColumns+`
    FROM staff_contract_teishokubis
    WHERE staff_email = $1 AND client_corporate_number = $2 AND organization_name = $3
  `, key.StaffEmail, key.ClientCorporateNumber, key.OrganizationName).
		Scan(&r.ID, &r.Key.StaffEmail, &r.Key.ClientCorporateNumber,
			&r.Key.OrganizationName, &r.DispatchStartDate, &r.ConflictDate, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, nil, ErrNotFound
	}
	if err != nil {
		return Record{}, nil, err
	}

	details, err := s.listDetails(ctx, r.ID)
	if err != nil {
		return Record{}, nil, err
	}
	return r, details, nil
}

func (s *Store) listDetails(ctx context.Context, teishokubiID string) ([]Detail, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, teishokubi_id, assignment_start_date, assignment_end_date, is_calculated, is_manual
    FROM staff_contract_teishokubi_details
    WHERE teishokubi_id = $1
    ORDER BY assignment_start_date
  `, teishokubiID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.TeishokubiID, &d.StartDate, &d.EndDate,
			&d.IsCalculated, &d.IsManual); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
