package teishokubi

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var (
	ErrNotFound    = errors.New("teishokubi record not found")
	ErrEmptyPeriod = errors.New("manual period is empty")
)

// StoreAPI is the persistence surface of the calculator. Replace and
// DeleteRecord run under a key-scoped lock so concurrent recomputes for the
// same triple serialize instead of interleaving.
type StoreAPI interface {
	// CollectAssignmentPeriods projects the effective interval of every
	// dispatch assignment matching the key, restricted to fixed-term staff
	// contracts.
	CollectAssignmentPeriods(ctx context.Context, key Key) ([]Period, error)
	ListManualPeriods(ctx context.Context, key Key) ([]Period, error)

	// Replace upserts the header and rewrites the detail rows: auto rows
	// are deleted and reinserted, manual rows are relabeled in place.
	Replace(ctx context.Context, key Key, res Result) error
	// DeleteRecord removes the header and its auto details. It fails when
	// manual details remain.
	DeleteRecord(ctx context.Context, key Key) error

	InsertManualDetail(ctx context.Context, key Key, start time.Time, end *time.Time) error
	GetManualDetail(ctx context.Context, detailID string) (Key, error)
	DeleteManualDetail(ctx context.Context, detailID string) error

	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id string) (Record, []Detail, error)
	GetByKey(ctx context.Context, key Key) (Record, []Detail, error)
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Recompute rebuilds the derived state for one key from the current
// assignments and manual rows. Called on every assignment, contract-period
// or manual-detail change touching the key.
func (s *Service) Recompute(ctx context.Context, key Key) error {
	periods, err := s.loadPeriods(ctx, key)
	if err != nil {
		return err
	}

	res, ok := Compute(periods)
	if !ok {
		if err := s.store.DeleteRecord(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		slog.Info("teishokubi record cleared", "staffEmail", key.StaffEmail, "unit", key.OrganizationName)
		return nil
	}

	if err := s.store.Replace(ctx, key, res); err != nil {
		return err
	}
	slog.Info("teishokubi recomputed",
		"staffEmail", key.StaffEmail,
		"unit", key.OrganizationName,
		"dispatchStart", res.DispatchStartDate.Format("2006-01-02"),
		"conflictDate", res.ConflictDate.Format("2006-01-02"))
	return nil
}

// ComputeConflictDate previews the conflict date with a hypothetical extra
// assignment, writing nothing.
func (s *Service) ComputeConflictDate(ctx context.Context, key Key, start time.Time, end *time.Time) (time.Time, error) {
	periods, err := s.loadPeriods(ctx, key)
	if err != nil {
		return time.Time{}, err
	}
	periods = append(periods, Period{Start: start, End: end})
	res, _ := Compute(periods)
	return res.ConflictDate, nil
}

// AddManualDetail inserts a human-entered period and recomputes the key.
func (s *Service) AddManualDetail(ctx context.Context, key Key, start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return ErrEmptyPeriod
	}
	if err := s.store.InsertManualDetail(ctx, key, start, end); err != nil {
		return err
	}
	return s.Recompute(ctx, key)
}

// RemoveManualDetail deletes a human-entered period. The remaining
// composite may now satisfy the gap rule differently, so the key is
// recomputed afterwards.
func (s *Service) RemoveManualDetail(ctx context.Context, detailID string) error {
	key, err := s.store.GetManualDetail(ctx, detailID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteManualDetail(ctx, detailID); err != nil {
		return err
	}
	return s.Recompute(ctx, key)
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Record, []Detail, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetByKey(ctx context.Context, key Key) (Record, []Detail, error) {
	return s.store.GetByKey(ctx, key)
}

func (s *Service) loadPeriods(ctx context.Context, key Key) ([]Period, error) {
	auto, err := s.store.CollectAssignmentPeriods(ctx, key)
	if err != nil {
		return nil, err
	}
	manual, err := s.store.ListManualPeriods(ctx, key)
	if err != nil {
		return nil, err
	}
	return append(auto, manual...), nil
}
