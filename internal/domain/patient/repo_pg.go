package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/db"
)

// ErrNotFound is returned when a patient id does not exist.
var ErrNotFound = errors.New("patient not found")

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const patientCols = `id, patient_id, first_name, last_name, date_of_birth, gender, blood_group, phone, status, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.PatientID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender,
		&p.BloodGroup, &p.Phone, &p.Status, &p.CreatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patient (id, patient_id, first_name, last_name, date_of_birth, gender, blood_group, phone, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		p.ID, p.PatientID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.BloodGroup, p.Phone, p.Status,
	).Scan(&p.CreatedAt)
}

func (r *repoPG) GetByPatientID(ctx context.Context, patientID string) (*Patient, error) {
	p, err := scanPatient(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE patient_id = $1`, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+patientCols+` FROM patient ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ActivePatientIDs(ctx context.Context) ([]string, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT patient_id FROM patient WHERE status = 'ACTIVE' ORDER BY patient_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

func (r *repoPG) PatientIDsForPractitioner(ctx context.Context, practitionerID string) ([]string, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT DISTINCT v.patient_id FROM visit v
		JOIN patient p ON p.patient_id = v.patient_id
		WHERE v.practitioner_id = $1 AND p.status = 'ACTIVE'
		ORDER BY v.patient_id`,
		practitionerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

func (r *repoPG) DisplayByIDs(ctx context.Context, patientIDs []string) (map[string]Display, error) {
	if len(patientIDs) == 0 {
		return map[string]Display{}, nil
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT patient_id, first_name, last_name, blood_group FROM patient WHERE patient_id = ANY($1)`, patientIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]Display, len(patientIDs))
	for rows.Next() {
		var id, first, last, bloodGroup string
		if err := rows.Scan(&id, &first, &last, &bloodGroup); err != nil {
			return nil, err
		}
		out[id] = Display{Name: first + " " + last, BloodGroup: bloodGroup}
	}
	return out, rows.Err()
}

func collectIDs(rows pgx.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// =========== Visit Repository ===========

type visitRepoPG struct{ pool *pgxpool.Pool }

func NewVisitRepoPG(pool *pgxpool.Pool) VisitRepository { return &visitRepoPG{pool: pool} }

const visitCols = `id, patient_id, practitioner_id, visit_date, status, reason, created_at`

func scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	err := row.Scan(&v.ID, &v.PatientID, &v.PractitionerID, &v.VisitDate, &v.Status, &v.Reason, &v.CreatedAt)
	return &v, err
}

func (r *visitRepoPG) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO visit (id, patient_id, practitioner_id, visit_date, status, reason)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		v.ID, v.PatientID, v.PractitionerID, v.VisitDate, v.Status, v.Reason,
	).Scan(&v.CreatedAt)
}

func (r *visitRepoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Visit, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM visit WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+visitCols+` FROM visit
		WHERE patient_id = $1 ORDER BY visit_date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

func (r *visitRepoPG) Summary(ctx context.Context, patientID string) (VisitSummary, error) {
	var s VisitSummary
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT MAX(visit_date) FILTER (WHERE status = 'COMPLETED'), COUNT(*)
		FROM visit WHERE patient_id = $1`,
		patientID).Scan(&s.LastCompletedAt, &s.TotalVisits)
	return s, err
}
