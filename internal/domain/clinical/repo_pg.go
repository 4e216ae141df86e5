package clinical

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/renalward/internal/platform/db"
)

// =========== Progress Note Repository ===========

type noteRepoPG struct{ pool *pgxpool.Pool }

func NewNoteRepoPG(pool *pgxpool.Pool) NoteRepository { return &noteRepoPG{pool: pool} }

func (r *noteRepoPG) conn(ctx context.Context) db.Querier { return db.Conn(ctx, r.pool) }

const noteCols = `id, admission_id, created_at, temp_c, weight_kg, bp_high, bp_low,
	heart_rate, input_ml, urine_output_ml, pd_balance, total_balance`

func (r *noteRepoPG) Create(ctx context.Context, n *ProgressNote) error {
	n.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `INSERT INTO progress_note (`+noteCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		n.ID, n.AdmissionID, n.CreatedAt, n.TempC, n.WeightKg, n.BPHigh, n.BPLow,
		n.HeartRate, n.InputMl, n.UrineOutputMl, n.PDBalance, n.TotalBalance)
	if err != nil {
		return fmt.Errorf("insert progress note: %w", err)
	}
	return nil
}

func (r *noteRepoPG) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*ProgressNote, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+noteCols+` FROM progress_note
		WHERE admission_id = $1 ORDER BY created_at DESC, id`, admissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ProgressNote
	for rows.Next() {
		var n ProgressNote
		if err := rows.Scan(&n.ID, &n.AdmissionID, &n.CreatedAt, &n.TempC, &n.WeightKg, &n.BPHigh, &n.BPLow,
			&n.HeartRate, &n.InputMl, &n.UrineOutputMl, &n.PDBalance, &n.TotalBalance); err != nil {
			return nil, err
		}
		items = append(items, &n)
	}
	return items, rows.Err()
}

// =========== Discharge Summary Repository ===========

type summaryRepoPG struct{ pool *pgxpool.Pool }

func NewSummaryRepoPG(pool *pgxpool.Pool) SummaryRepository { return &summaryRepoPG{pool: pool} }

func (r *summaryRepoPG) conn(ctx context.Context) db.Querier { return db.Conn(ctx, r.pool) }

const summaryCols = `id, admission_id, patient_id, discharge_date, diagnosis, icd10,
	progress_summary, management, discharge_plan, drugs_free_hand, created_at`

func (r *summaryRepoPG) scanSummary(row pgx.Row) (*DischargeSummary, error) {
	var s DischargeSummary
	err := row.Scan(&s.ID, &s.AdmissionID, &s.PatientID, &s.DischargeDate, &s.Diagnosis, &s.ICD10,
		&s.ProgressSummary, &s.Management, &s.DischargePlan, &s.DrugsFreeHand, &s.CreatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrSummaryNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *summaryRepoPG) Create(ctx context.Context, s *DischargeSummary) error {
	s.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO discharge_summary (
			id, admission_id, patient_id, discharge_date, diagnosis, icd10,
			progress_summary, management, discharge_plan, drugs_free_hand
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		s.ID, s.AdmissionID, s.PatientID, s.DischargeDate, s.Diagnosis, s.ICD10,
		s.ProgressSummary, s.Management, s.DischargePlan, s.DrugsFreeHand,
	).Scan(&s.CreatedAt)
	if err != nil {
		if _, dup := db.IsUniqueViolation(err); dup {
			return ErrSummaryExists
		}
		return fmt.Errorf("insert discharge summary: %w", err)
	}
	return nil
}

func (r *summaryRepoPG) GetByAdmission(ctx context.Context, admissionID uuid.UUID) (*DischargeSummary, error) {
	return r.scanSummary(r.conn(ctx).QueryRow(ctx,
		`SELECT `+summaryCols+` FROM discharge_summary WHERE admission_id = $1`, admissionID))
}
