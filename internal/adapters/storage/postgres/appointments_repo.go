package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-connect/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const appointmentColumns = `
	id,
	farmer_id, farmer_name, farmer_phone,
	vet_id, vet_name, vet_specialty, vet_phone, vet_email,
	livestock_id, livestock_name, livestock_type,
	date, time, reason, notes, status, location,
	diagnosis, treatment, medications, follow_up_date,
	created_at, updated_at
`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES (
			$1,
			$2,$3,$4,
			$5,$6,$7,$8,$9,
			$10,$11,$12,
			$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22,
			$23,$24
		)
	`,
		a.ID,
		a.FarmerID,
		a.FarmerName,
		a.FarmerPhone,
		a.VetID,
		a.VetName,
		a.VetSpecialty,
		a.VetPhone,
		a.VetEmail,
		a.LivestockID,
		a.LivestockName,
		a.LivestockType,
		a.Date,
		a.Time,
		string(a.Reason),
		a.Notes,
		string(a.Status),
		a.Location,
		a.Diagnosis,
		a.Treatment,
		textArray(a.Medications),
		toNullTime(a.FollowUpDate),
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET
			date = $2,
			time = $3,
			reason = $4,
			notes = $5,
			status = $6,
			location = $7,
			diagnosis = $8,
			treatment = $9,
			medications = $10,
			follow_up_date = $11,
			updated_at = $12
		WHERE id = $1
	`,
		a.ID,
		a.Date,
		a.Time,
		string(a.Reason),
		a.Notes,
		string(a.Status),
		a.Location,
		a.Diagnosis,
		a.Treatment,
		textArray(a.Medications),
		toNullTime(a.FollowUpDate),
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)

	a, err := scanAppointment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) ListByFarmer(ctx context.Context, farmerID string) ([]appointments.Appointment, error) {
	return r.listByField(ctx, "farmer_id", farmerID)
}

func (r *AppointmentsRepo) ListByVet(ctx context.Context, vetID string) ([]appointments.Appointment, error) {
	return r.listByField(ctx, "vet_id", vetID)
}

func (r *AppointmentsRepo) listByField(ctx context.Context, field, value string) ([]appointments.Appointment, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE `+field+` = $1
		ORDER BY date DESC, time ASC
	`, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var reason, status string
	var medications textArray
	var followUp sql.NullTime

	if err := row.Scan(
		&a.ID,
		&a.FarmerID,
		&a.FarmerName,
		&a.FarmerPhone,
		&a.VetID,
		&a.VetName,
		&a.VetSpecialty,
		&a.VetPhone,
		&a.VetEmail,
		&a.LivestockID,
		&a.LivestockName,
		&a.LivestockType,
		&a.Date,
		&a.Time,
		&reason,
		&a.Notes,
		&status,
		&a.Location,
		&a.Diagnosis,
		&a.Treatment,
		&medications,
		&followUp,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return appointments.Appointment{}, err
	}

	a.Reason = appointments.Reason(reason)
	a.Status = appointments.Status(status)
	a.Medications = medications
	if followUp.Valid {
		t := followUp.Time
		a.FollowUpDate = &t
	}

	return a, nil
}
