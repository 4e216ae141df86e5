package clinical

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/renalward/internal/domain/admission"
	"github.com/ehr/renalward/internal/platform/apperr"
	"github.com/ehr/renalward/pkg/clock"
)

// Service holds the records attached to one admission: progress notes and
// the discharge summary. Callers verify admission ownership first.
type Service struct {
	notes     NoteRepository
	summaries SummaryRepository
	clock     clock.Clock
}

func NewService(notes NoteRepository, summaries SummaryRepository, clk clock.Clock) *Service {
	return &Service{notes: notes, summaries: summaries, clock: clk}
}

// AppendNote records a new progress note stamped with the current time.
func (s *Service) AppendNote(ctx context.Context, a *admission.Admission, m Measurements) (*ProgressNote, error) {
	n := &ProgressNote{
		AdmissionID:   a.ID,
		CreatedAt:     s.clock.Now(),
		TempC:         m.TempC,
		WeightKg:      m.WeightKg,
		BPHigh:        m.BPHigh,
		BPLow:         m.BPLow,
		HeartRate:     m.HeartRate,
		InputMl:       m.InputMl,
		UrineOutputMl: m.UrineOutputMl,
		PDBalance:     m.PDBalance,
		TotalBalance:  m.TotalBalance,
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotes returns the admission's notes, newest first.
func (s *Service) ListNotes(ctx context.Context, admissionID uuid.UUID) ([]*ProgressNote, error) {
	items, err := s.notes.ListByAdmission(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*ProgressNote{}
	}
	return items, nil
}

// CreateSummary writes the admission's single discharge summary. It does not
// close the admission; the discharge workflow does both in one transaction.
func (s *Service) CreateSummary(ctx context.Context, a *admission.Admission, in SummaryInput) (*DischargeSummary, error) {
	if _, err := s.summaries.GetByAdmission(ctx, a.ID); err == nil {
		return nil, apperr.Conflict("discharge summary already exists for admission %s", a.ID)
	} else if !errors.Is(err, ErrSummaryNotFound) {
		return nil, err
	}

	ds := &DischargeSummary{
		AdmissionID:     a.ID,
		PatientID:       a.PatientID,
		DischargeDate:   ParseDischargeDate(in.DischargeDate, clock.Today(s.clock)),
		Diagnosis:       in.Diagnosis,
		ICD10:           in.ICD10,
		ProgressSummary: in.ProgressSummary,
		Management:      in.Management,
		DischargePlan:   in.DischargePlan,
		DrugsFreeHand:   in.DrugsFreeHand,
	}
	if err := s.summaries.Create(ctx, ds); err != nil {
		if errors.Is(err, ErrSummaryExists) {
			return nil, apperr.Conflict("discharge summary already exists for admission %s", a.ID)
		}
		return nil, err
	}
	return ds, nil
}

func (s *Service) GetSummary(ctx context.Context, admissionID uuid.UUID) (*DischargeSummary, error) {
	ds, err := s.summaries.GetByAdmission(ctx, admissionID)
	if err != nil {
		if errors.Is(err, ErrSummaryNotFound) {
			return nil, apperr.NotFound("discharge summary not found for admission %s", admissionID)
		}
		return nil, err
	}
	return ds, nil
}

// ParseDischargeDate reads a "YYYY-MM-DD" date, returning today when raw is
// empty or unparsable.
func ParseDischargeDate(raw string, today time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return today
	}
	d, err := time.ParseInLocation("2006-01-02", raw, today.Location())
	if err != nil {
		return today
	}
	return d
}
