package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("patient not found")
	ErrDuplicatePHN = errors.New("patient with this phn already exists")
)

// Repository persists patients and their problem lists. GetByPHN and GetByID
// return ErrNotFound when absent; Create returns ErrDuplicatePHN when the
// unique constraint on phn rejects the insert.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByPHN(ctx context.Context, phn string) (*Patient, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	// Delete removes the patient and, by cascade, everything it owns.
	Delete(ctx context.Context, id uuid.UUID) error

	AddProblem(ctx context.Context, mp *MedicalProblem) error
	ListProblems(ctx context.Context, patientID uuid.UUID) ([]*MedicalProblem, error)
	AddAllergy(ctx context.Context, a *Allergy) error
	ListAllergies(ctx context.Context, patientID uuid.UUID) ([]*Allergy, error)
}
