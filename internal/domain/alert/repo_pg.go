package alert

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const alertCols = `id, patient_id, alert_type, severity, title, description, source,
	trigger_value, status, created_at, acknowledged_at, acknowledged_by, dismissed_at, dismiss_reason`

func scanAlert(row pgx.Row) (*ClinicalAlert, error) {
	var a ClinicalAlert
	err := row.Scan(&a.ID, &a.PatientID, &a.Type, &a.Severity, &a.Title, &a.Description, &a.Source,
		&a.TriggerValue, &a.Status, &a.CreatedAt, &a.AcknowledgedAt, &a.AcknowledgedBy, &a.DismissedAt, &a.DismissReason)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *ClinicalAlert) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinical_alert (id, patient_id, alert_type, severity, title, description, source, trigger_value, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		a.ID, a.PatientID, a.Type, a.Severity, a.Title, a.Description, a.Source, a.TriggerValue, a.Status,
	).Scan(&a.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ClinicalAlert, error) {
	a, err := scanAlert(r.conn(ctx).QueryRow(ctx, `SELECT `+alertCols+` FROM clinical_alert WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *repoPG) UpdateStatus(ctx context.Context, a *ClinicalAlert) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE clinical_alert
		SET status=$2, acknowledged_at=$3, acknowledged_by=$4, dismissed_at=$5, dismiss_reason=$6
		WHERE id = $1`,
		a.ID, a.Status, a.AcknowledgedAt, a.AcknowledgedBy, a.DismissedAt, a.DismissReason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) FindActiveByPatientAndType(ctx context.Context, patientID, alertType string) (*ClinicalAlert, error) {
	a, err := scanAlert(r.conn(ctx).QueryRow(ctx, `
		SELECT `+alertCols+` FROM clinical_alert
		WHERE patient_id = $1 AND alert_type = $2 AND status = $3
		ORDER BY created_at DESC LIMIT 1
		FOR UPDATE`,
		patientID, alertType, StatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, f ListFilter, limit, offset int) ([]*ClinicalAlert, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM clinical_alert
		WHERE patient_id = $1
		  AND ($2::text IS NULL OR status = $2)
		  AND ($3::text IS NULL OR severity = $3)`,
		patientID, f.Status, f.Severity).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+alertCols+` FROM clinical_alert
		WHERE patient_id = $1
		  AND ($2::text IS NULL OR status = $2)
		  AND ($3::text IS NULL OR severity = $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		patientID, f.Status, f.Severity, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectAlerts(rows)
	return items, total, err
}

func (r *repoPG) ListGlobal(ctx context.Context, f ListFilter, limit, offset int) ([]*ClinicalAlert, int, error) {
	const scopeClause = `
		  ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR severity = $2)
		  AND ($3::text IS NULL OR patient_id IN (
		      SELECT DISTINCT patient_id FROM visit WHERE practitioner_id = $3))`
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM clinical_alert WHERE`+scopeClause,
		f.Status, f.Severity, f.PractitionerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+alertCols+` FROM clinical_alert WHERE`+scopeClause+`
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		f.Status, f.Severity, f.PractitionerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectAlerts(rows)
	return items, total, err
}

func (r *repoPG) CountsByPatient(ctx context.Context, practitionerID *string) (map[string]Counts, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT patient_id,
		       SUM(CASE WHEN severity = 'CRITICAL' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN severity = 'WARNING' THEN 1 ELSE 0 END)
		FROM clinical_alert
		WHERE status = 'ACTIVE'
		  AND ($1::text IS NULL OR patient_id IN (
		      SELECT DISTINCT patient_id FROM visit WHERE practitioner_id = $1))
		GROUP BY patient_id`,
		practitionerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]Counts)
	for rows.Next() {
		var pid string
		var c Counts
		if err := rows.Scan(&pid, &c.Critical, &c.Warning); err != nil {
			return nil, err
		}
		out[pid] = c
	}
	return out, rows.Err()
}

func (r *repoPG) Stats(ctx context.Context) (*Stats, error) {
	s := &Stats{ActiveByType: make(map[string]int)}
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE severity = 'CRITICAL'),
		       COUNT(*) FILTER (WHERE severity = 'WARNING'),
		       COUNT(DISTINCT patient_id) FILTER (WHERE severity = 'CRITICAL'),
		       COUNT(DISTINCT patient_id) FILTER (WHERE alert_type = 'NEWS2_CRITICAL')
		FROM clinical_alert WHERE status = 'ACTIVE'`,
	).Scan(&s.ActiveTotal, &s.ActiveCritical, &s.ActiveWarning, &s.PatientsWithCritical, &s.PatientsWithActiveNews2)
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT alert_type, COUNT(*) FROM clinical_alert
		WHERE status = 'ACTIVE' GROUP BY alert_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		s.ActiveByType[typ] = n
	}
	return s, rows.Err()
}

func collectAlerts(rows pgx.Rows) ([]*ClinicalAlert, error) {
	var items []*ClinicalAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
