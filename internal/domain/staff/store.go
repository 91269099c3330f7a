package staff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("staff not found")

type StoreAPI interface {
	GetByID(ctx context.Context, id string) (Staff, error)
	GetByEmail(ctx context.Context, email string) (Staff, error)
	List(ctx context.Context) ([]Staff, error)
	GetInternational(ctx context.Context, staffID string) (International, error)
	GetInsurance(ctx context.Context, staffID string) (InsuranceEnrollment, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const staffColumns = `
    s.id, COALESCE(s.employee_no, ''), s.name_last, s.name_first,
    COALESCE(s.name_last_kana, ''), COALESCE(s.name_first_kana, ''),
    s.email, COALESCE(s.sex, ''), s.birth_date, s.hire_date, s.resignation_date,
    COALESCE(s.department_code, ''),
    EXISTS (SELECT 1 FROM staff_internationals i WHERE i.staff_id = s.id),
    EXISTS (SELECT 1 FROM staff_disabilities d WHERE d.staff_id = s.id)`

func (s *Store) GetByID(ctx context.Context, id string) (Staff, error) {
	return s.scanOne(s.DB.QueryRow(ctx, "SELECT"+staffColumns+" FROM staff s WHERE s.id = $1", id))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (Staff, error) {
	return s.scanOne(s.DB.QueryRow(ctx, "SELECT"+staffColumns+" FROM staff s WHERE s.email = $1", email))
}

func (s *Store) scanOne(row pgx.Row) (Staff, error) {
	var st Staff
	err := row.Scan(&st.ID, &st.EmployeeNo, &st.NameLast, &st.NameFirst,
		&st.NameLastKana, &st.NameFirstKana, &st.Email, &st.Sex,
		&st.BirthDate, &st.HireDate, &st.ResignationDate, &st.DepartmentCode,
		&st.HasInternational, &st.HasDisability)
	if errors.Is(err, pgx.ErrNoRows) {
		return Staff{}, ErrNotFound
	}
	if err != nil {
		return Staff{}, err
	}
	return st, nil
}

func (s *Store) List(ctx context.Context) ([]Staff, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+staffColumns+" FROM staff s ORDER BY s.name_last_kana, s.name_first_kana")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Staff
	for rows.Next() {
		var st Staff
		if err := rows.Scan(&st.ID, &st.EmployeeNo, &st.NameLast, &st.NameFirst,
			&st.NameLastKana, &st.NameFirstKana, &st.Email, &st.Sex,
			&st.BirthDate, &st.HireDate, &st.ResignationDate, &st.DepartmentCode,
			&st.HasInternational, &st.HasDisability); err != nil {
			return nil, err
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

func (s *Store) GetInternational(ctx context.Context, staffID string) (International, error) {
	var intl International
	err := s.DB.QueryRow(ctx, `
    SELECT staff_id, COALESCE(residence_status, ''), residence_period_to, COALESCE(residence_card_no, '')
    FROM staff_internationals
    WHERE staff_id = $1
  `, staffID).Scan(&intl.StaffID, &intl.ResidenceStatus, &intl.ResidencePeriodTo, &intl.ResidenceCardNo)
	if errors.Is(err, pgx.ErrNoRows) {
		return International{}, ErrNotFound
	}
	if err != nil {
		return International{}, err
	}
	return intl, nil
}

func (s *Store) GetInsurance(ctx context.Context, staffID string) (InsuranceEnrollment, error) {
	var ins InsuranceEnrollment
	err := s.DB.QueryRow(ctx, `
    SELECT staff_id, health_insurance_joined, welfare_pension_joined, employment_insurance_joined, COALESCE(non_enrollment_reason, '')
    FROM staff_insurance_enrollments
    WHERE staff_id = $1
  `, staffID).Scan(&ins.StaffID, &ins.HealthInsuranceJoined, &ins.WelfarePensionJoined, &ins.EmploymentInsuranceJoined, &ins.NonEnrollmentReason)
	if errors.Is(err, pgx.ErrNoRows) {
		// No row is simply "not enrolled anywhere".
		return InsuranceEnrollment{StaffID: staffID}, nil
	}
	if err != nil {
		return InsuranceEnrollment{}, err
	}
	return ins, nil
}
