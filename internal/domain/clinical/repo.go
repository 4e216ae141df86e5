package clinical

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrSummaryNotFound = errors.New("discharge summary not found")
	ErrSummaryExists   = errors.New("discharge summary already exists for admission")
)

// NoteRepository is append-only.
type NoteRepository interface {
	Create(ctx context.Context, n *ProgressNote) error
	// ListByAdmission returns notes newest first.
	ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*ProgressNote, error)
}

type SummaryRepository interface {
	// Create returns ErrSummaryExists when the admission already has one.
	Create(ctx context.Context, s *DischargeSummary) error
	GetByAdmission(ctx context.Context, admissionID uuid.UUID) (*DischargeSummary, error)
}
