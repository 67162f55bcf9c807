package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"vet-connect/internal/domain/alerts"
)

type AlertsRepo struct {
	db *sql.DB
}

func NewAlertsRepo(db *sql.DB) *AlertsRepo {
	return &AlertsRepo{db: db}
}

func (r *AlertsRepo) Create(ctx context.Context, a alerts.Alert) error {
	failed, err := json.Marshal(failedOrEmpty(a.Failed))
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO alerts (
			id, message,
			recipients, sent_by, type, status,
			success_count, failure_count, failed,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		a.Message,
		textArray(a.Recipients),
		a.SentBy,
		string(a.Type),
		string(a.Status),
		a.SuccessCount,
		a.FailureCount,
		failed,
		a.CreatedAt,
	)
	return err
}

func (r *AlertsRepo) List(ctx context.Context, f alerts.ListFilter) ([]alerts.Alert, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, message,
			recipients, sent_by, type, status,
			success_count, failure_count, failed,
			created_at
		FROM alerts
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]alerts.Alert, 0)
	for rows.Next() {
		var a alerts.Alert
		var typ, status string
		var recipients textArray
		var failed []byte

		if err := rows.Scan(
			&a.ID,
			&a.Message,
			&recipients,
			&a.SentBy,
			&typ,
			&status,
			&a.SuccessCount,
			&a.FailureCount,
			&failed,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}

		a.Type = alerts.AlertType(typ)
		a.Status = alerts.AlertStatus(status)
		a.Recipients = recipients
		if len(failed) > 0 {
			if err := json.Unmarshal(failed, &a.Failed); err != nil {
				return nil, err
			}
		}

		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *AlertsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts`).Scan(&n)
	return n, err
}

func failedOrEmpty(in []alerts.FailedRecipient) []alerts.FailedRecipient {
	if len(in) == 0 {
		return []alerts.FailedRecipient{}
	}
	return in
}
