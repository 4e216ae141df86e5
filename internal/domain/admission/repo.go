package admission

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("admission not found")
	// ErrActiveExists is returned by Create when the patient already has an
	// active admission.
	ErrActiveExists = errors.New("patient already has an active admission")
	// ErrNotActive is returned by Close when the admission is already closed.
	ErrNotActive = errors.New("admission is not active")
)

type Repository interface {
	Create(ctx context.Context, a *Admission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admission, error)
	// GetActive returns ErrNotFound when the patient has no active admission.
	GetActive(ctx context.Context, patientID uuid.UUID) (*Admission, error)
	// ListByPatient orders by admitted_on then admission_time, newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Admission, error)
	CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error)
	// Close clears active and sets discharge_summary_available in one write.
	Close(ctx context.Context, id uuid.UUID) error
}
