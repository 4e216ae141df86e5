package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/renalward/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const patientCols = `id, phn, name, dob, sex, address, phone, nic, moh_area,
	ethnic_group, religion, occupation, marital_status, status, created_at, updated_at`

func (r *repoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.PHN, &p.Name, &p.DOB, &p.Sex, &p.Address, &p.Phone, &p.NIC, &p.MOHArea,
		&p.EthnicGroup, &p.Religion, &p.Occupation, &p.MaritalStatus, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient (
			id, phn, name, dob, sex, address, phone, nic, moh_area,
			ethnic_group, religion, occupation, marital_status, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at`,
		p.ID, p.PHN, p.Name, p.DOB, p.Sex, p.Address, p.Phone, p.NIC, p.MOHArea,
		p.EthnicGroup, p.Religion, p.Occupation, p.MaritalStatus, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if _, dup := db.IsUniqueViolation(err); dup {
			return ErrDuplicatePHN
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) GetByPHN(ctx context.Context, phn string) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE phn = $1`, phn))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE patient SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update patient status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) AddProblem(ctx context.Context, mp *MedicalProblem) error {
	mp.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO medical_problem (id, patient_id, problem) VALUES ($1, $2, $3)`,
		mp.ID, mp.PatientID, mp.Problem)
	return err
}

func (r *repoPG) ListProblems(ctx context.Context, patientID uuid.UUID) ([]*MedicalProblem, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, patient_id, problem FROM medical_problem WHERE patient_id = $1 ORDER BY problem`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*MedicalProblem
	for rows.Next() {
		var mp MedicalProblem
		if err := rows.Scan(&mp.ID, &mp.PatientID, &mp.Problem); err != nil {
			return nil, err
		}
		items = append(items, &mp)
	}
	return items, rows.Err()
}

func (r *repoPG) AddAllergy(ctx context.Context, a *Allergy) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO allergy (id, patient_id, allergy) VALUES ($1, $2, $3)`,
		a.ID, a.PatientID, a.Allergy)
	return err
}

func (r *repoPG) ListAllergies(ctx context.Context, patientID uuid.UUID) ([]*Allergy, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, patient_id, allergy FROM allergy WHERE patient_id = $1 ORDER BY allergy`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Allergy
	for rows.Next() {
		var a Allergy
		if err := rows.Scan(&a.ID, &a.PatientID, &a.Allergy); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}
