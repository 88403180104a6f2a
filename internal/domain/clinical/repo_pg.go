package clinical

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

// =========== Vitals Repository ===========

type vitalsRepoPG struct{ pool *pgxpool.Pool }

func NewVitalsRepoPG(pool *pgxpool.Pool) VitalsRepository { return &vitalsRepoPG{pool: pool} }

const vitalsCols = `id, patient_id, systolic_bp, diastolic_bp, heart_rate, temperature,
	oxygen_saturation, respiratory_rate, recorded_by, recorded_at`

func scanVitals(row pgx.Row) (*Vitals, error) {
	var v Vitals
	err := row.Scan(&v.ID, &v.PatientID, &v.SystolicBP, &v.DiastolicBP, &v.HeartRate, &v.Temperature,
		&v.OxygenSaturation, &v.RespiratoryRate, &v.RecordedBy, &v.RecordedAt)
	return &v, err
}

func (r *vitalsRepoPG) Create(ctx context.Context, v *Vitals) error {
	v.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patient_vitals (id, patient_id, systolic_bp, diastolic_bp, heart_rate,
			temperature, oxygen_saturation, respiratory_rate, recorded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING recorded_at`,
		v.ID, v.PatientID, v.SystolicBP, v.DiastolicBP, v.HeartRate,
		v.Temperature, v.OxygenSaturation, v.RespiratoryRate, v.RecordedBy,
	).Scan(&v.RecordedAt)
}

func (r *vitalsRepoPG) LatestByPatient(ctx context.Context, patientID string) (*Vitals, error) {
	v, err := scanVitals(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+vitalsCols+` FROM patient_vitals
		WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT 1`, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

func (r *vitalsRepoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Vitals, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_vitals WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+vitalsCols+` FROM patient_vitals
		WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Vitals
	for rows.Next() {
		v, err := scanVitals(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

// =========== Medication Repository ===========

type medicationRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationRepoPG(pool *pgxpool.Pool) MedicationRepository { return &medicationRepoPG{pool: pool} }

const medCols = `id, patient_id, medication_name, generic_name, dosage, frequency,
	prescribed_by, status, start_date, end_date, created_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.PatientID, &m.Name, &m.GenericName, &m.Dosage, &m.Frequency,
		&m.PrescribedBy, &m.Status, &m.StartDate, &m.EndDate, &m.CreatedAt)
	return &m, err
}

func (r *medicationRepoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patient_medication (id, patient_id, medication_name, generic_name,
			dosage, frequency, prescribed_by, status, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		m.ID, m.PatientID, m.Name, m.GenericName,
		m.Dosage, m.Frequency, m.PrescribedBy, m.Status, m.StartDate, m.EndDate,
	).Scan(&m.CreatedAt)
}

func (r *medicationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMedication(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+medCols+` FROM patient_medication WHERE id = $1`, id))
}

func (r *medicationRepoPG) UpdateStatus(ctx context.Context, m *Medication) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE patient_medication SET status=$2, end_date=$3 WHERE id = $1`,
		m.ID, m.Status, m.EndDate)
	return err
}

func (r *medicationRepoPG) ListActiveByPatient(ctx context.Context, patientID string) ([]*Medication, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+medCols+` FROM patient_medication
		WHERE patient_id = $1 AND status = 'ACTIVE' ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *medicationRepoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_medication WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+medCols+` FROM patient_medication
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

// =========== Allergy Repository ===========

type allergyRepoPG struct{ pool *pgxpool.Pool }

func NewAllergyRepoPG(pool *pgxpool.Pool) AllergyRepository { return &allergyRepoPG{pool: pool} }

const allergyCols = `id, patient_id, substance, severity, reaction, active, created_by, created_at`

func scanAllergy(row pgx.Row) (*Allergy, error) {
	var a Allergy
	err := row.Scan(&a.ID, &a.PatientID, &a.Substance, &a.Severity, &a.Reaction, &a.Active, &a.CreatedBy, &a.CreatedAt)
	return &a, err
}

func (r *allergyRepoPG) Create(ctx context.Context, a *Allergy) error {
	a.ID = uuid.New()
	a.Active = true
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patient_allergy (id, patient_id, substance, severity, reaction, active, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		a.ID, a.PatientID, a.Substance, a.Severity, a.Reaction, a.Active, a.CreatedBy,
	).Scan(&a.CreatedAt)
}

func (r *allergyRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Allergy, error) {
	return scanAllergy(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+allergyCols+` FROM patient_allergy WHERE id = $1`, id))
}

func (r *allergyRepoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE patient_allergy SET active = FALSE WHERE id = $1`, id)
	return err
}

func (r *allergyRepoPG) ListActiveByPatient(ctx context.Context, patientID string) ([]*Allergy, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+allergyCols+` FROM patient_allergy
		WHERE patient_id = $1 AND active ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Allergy
	for rows.Next() {
		a, err := scanAllergy(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// =========== Problem Repository ===========

type problemRepoPG struct{ pool *pgxpool.Pool }

func NewProblemRepoPG(pool *pgxpool.Pool) ProblemRepository { return &problemRepoPG{pool: pool} }

const problemCols = `id, patient_id, description, severity, status, created_at`

func scanProblem(row pgx.Row) (*Problem, error) {
	var p Problem
	err := row.Scan(&p.ID, &p.PatientID, &p.Description, &p.Severity, &p.Status, &p.CreatedAt)
	return &p, err
}

func (r *problemRepoPG) Create(ctx context.Context, p *Problem) error {
	p.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patient_problem (id, patient_id, description, severity, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		p.ID, p.PatientID, p.Description, p.Severity, p.Status,
	).Scan(&p.CreatedAt)
}

func (r *problemRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Problem, error) {
	return scanProblem(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+problemCols+` FROM patient_problem WHERE id = $1`, id))
}

func (r *problemRepoPG) UpdateStatus(ctx context.Context, p *Problem) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE patient_problem SET status=$2 WHERE id = $1`, p.ID, p.Status)
	return err
}

func (r *problemRepoPG) ListActiveByPatient(ctx context.Context, patientID string) ([]*Problem, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+problemCols+` FROM patient_problem
		WHERE patient_id = $1 AND status IN ('ACTIVE','CHRONIC') ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Problem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// =========== Chart Counts ===========

type chartCountsRepoPG struct{ pool *pgxpool.Pool }

func NewChartCountsRepoPG(pool *pgxpool.Pool) ChartCountsRepository { return &chartCountsRepoPG{pool: pool} }

func (r *chartCountsRepoPG) ActiveCounts(ctx context.Context, patientID string) (ChartCounts, error) {
	var c ChartCounts
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM patient_medication WHERE patient_id = $1 AND status = 'ACTIVE'),
		  (SELECT COUNT(*) FROM patient_problem WHERE patient_id = $1 AND status IN ('ACTIVE','CHRONIC')),
		  (SELECT COUNT(*) FROM patient_allergy WHERE patient_id = $1 AND active)`,
		patientID).Scan(&c.Medications, &c.Problems, &c.Allergies)
	return c, err
}
