package applog

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Actions recorded on the audit trail.
const (
	ActionSubmit    = "submit"
	ActionApprove   = "approve"
	ActionUnapprove = "unapprove"
	ActionIssue     = "issue"
	ActionConfirm   = "confirm"
	ActionUnconfirm = "unconfirm"
	ActionAssign    = "assign"
	ActionUnassign  = "unassign"
)

type Entry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	TargetType string    `json:"targetType"`
	TargetID   string    `json:"targetId"`
	Actor      string    `json:"actor"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Record appends one audit row. Audit failures are logged but never abort
// the business action that triggered them.
func (s *Store) Record(ctx context.Context, action, targetType, targetID, actor, detail string) {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO app_logs (action, target_type, target_id, actor, detail)
    VALUES ($1, $2, $3, $4, $5)
  `, action, targetType, targetID, actor, detail)
	if err != nil {
		slog.Error("audit log write failed", "action", action, "targetId", targetID, "err", err)
		return
	}
	slog.Info("audit", "action", action, "targetType", targetType, "targetId", targetID, "actor", actor)
}

func (s *Store) ListByTarget(ctx context.Context, targetType, targetID string) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, action, target_type, target_id, actor, COALESCE(detail, ''), created_at
    FROM app_logs
    WHERE target_type = $1 AND target_id = $2
    ORDER BY created_at DESC, id DESC
  `, targetType, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Action, &e.TargetType, &e.TargetID, &e.Actor, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
