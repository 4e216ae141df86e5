package admission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/renalward/internal/domain/patient"
	"github.com/ehr/renalward/internal/platform/apperr"
	"github.com/ehr/renalward/pkg/clock"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// Ledger owns admissions: creation, lookup, the active-admission invariant
// and the ownership check every admission-scoped operation goes through.
type Ledger struct {
	repo  Repository
	clock clock.Clock
}

func NewLedger(repo Repository, clk clock.Clock) *Ledger {
	return &Ledger{repo: repo, clock: clk}
}

// CreateFirstAdmission opens an active admission for p from the intake
// fields. It must run in the same transaction as the patient insert.
func (l *Ledger) CreateFirstAdmission(ctx context.Context, p *patient.Patient, in Intake) (*Admission, error) {
	now := l.clock.Now()

	admittedOn, hasDate, err := parseAdmissionDate(in.AdmissionDate, now.Location())
	if err != nil {
		return nil, err
	}
	if !hasDate {
		admittedOn = clock.Today(l.clock)
	}

	if _, err := l.repo.GetActive(ctx, p.ID); err == nil {
		return nil, apperr.Conflict("patient %s already has an active admission", p.PHN)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	existing, err := l.repo.CountByPatient(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	a := &Admission{
		PatientID:                 p.ID,
		BHTNumber:                 NewBHTNumber(p.PHN, now),
		Number:                    existing + 1,
		Active:                    true,
		DischargeSummaryAvailable: false,
		AdmittedOn:                admittedOn,
		AdmissionTime:             ResolveAdmissionTime(in.AdmissionTime, admittedOn, hasDate, now),
		Ward:                      in.Ward,
		WardNumber:                in.WardNumber,
		BedID:                     in.BedID,
		ConsultantName:            in.ConsultantName,
		ReferredBy:                in.ReferredBy,
		PrimaryDiagnosis:          in.PrimaryDiagnosis,
		AdmissionType:             in.AdmissionType,
		AdmittingOfficer:          in.AdmittingOfficer,
		PresentingComplaints:      in.PresentingComplaints,
		ExamTempC:                 in.TempC,
		ExamHeightCm:              in.HeightCm,
		ExamWeightKg:              in.WeightKg,
		ExamBMI:                   in.BMI,
		ExamBloodPressure:         in.BloodPressure,
		ExamHeartRate:             in.HeartRate,
	}
	if err := l.repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrActiveExists) {
			return nil, apperr.Conflict("patient %s already has an active admission", p.PHN)
		}
		return nil, err
	}
	return a, nil
}

func (l *Ledger) GetByID(ctx context.Context, id uuid.UUID) (*Admission, error) {
	a, err := l.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("admission not found with id: %s", id)
		}
		return nil, err
	}
	return a, nil
}

// GetActive returns the patient's active admission; false means discharged
// or never admitted, which is not an error.
func (l *Ledger) GetActive(ctx context.Context, patientID uuid.UUID) (*Admission, bool, error) {
	a, err := l.repo.GetActive(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return a, true, nil
}

func (l *Ledger) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*Admission, error) {
	items, err := l.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Admission{}
	}
	return items, nil
}

// CloseAndMarkDischarged flips an active admission to closed with a summary
// available. It does not create the summary itself.
func (l *Ledger) CloseAndMarkDischarged(ctx context.Context, a *Admission) error {
	if err := l.repo.Close(ctx, a.ID); err != nil {
		if errors.Is(err, ErrNotActive) {
			return apperr.Conflict("admission %s is already closed", a.ID)
		}
		return err
	}
	a.Active = false
	a.DischargeSummaryAvailable = true
	return nil
}

// CheckOwnership resolves admissionID and reports whether it belongs to
// patientID. The admission is returned for Owned and NotOwned.
func (l *Ledger) CheckOwnership(ctx context.Context, patientID, admissionID uuid.UUID) (*Admission, Ownership, error) {
	a, err := l.repo.GetByID(ctx, admissionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFound, nil
		}
		return nil, NotFound, err
	}
	if a.PatientID != patientID {
		return a, NotOwned, nil
	}
	return a, Owned, nil
}

// RequireOwned is CheckOwnership with NotFound and NotOwned turned into
// errors.
func (l *Ledger) RequireOwned(ctx context.Context, p *patient.Patient, admissionID uuid.UUID) (*Admission, error) {
	a, own, err := l.CheckOwnership(ctx, p.ID, admissionID)
	if err != nil {
		return nil, err
	}
	switch own {
	case NotFound:
		return nil, apperr.NotFound("admission not found with id: %s", admissionID)
	case NotOwned:
		return nil, apperr.Forbidden("admission %s does not belong to patient %s", admissionID, p.PHN)
	}
	return a, nil
}

// NewBHTNumber builds the human-facing admission id from the PHN and the
// creation instant in milliseconds.
func NewBHTNumber(phn string, at time.Time) string {
	return fmt.Sprintf("BHT-%s-%d", phn, at.UnixMilli())
}

func parseAdmissionDate(raw string, loc *time.Location) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}
	d, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false, apperr.Invalid("invalid admission_date %q: expected YYYY-MM-DD", raw)
	}
	return d, true, nil
}

// ResolveAdmissionTime combines the admission date with the requested time.
// A missing time, a missing date or an unparsable value yields now.
func ResolveAdmissionTime(raw string, date time.Time, hasDate bool, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || !hasDate {
		return now
	}
	loc := now.Location()

	if strings.Contains(raw, "T") {
		for _, layout := range []string{dateTimeLayout, "2006-01-02T15:04"} {
			if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
				return t
			}
		}
		return now
	}

	if len(raw) <= 5 {
		if len(raw) == 5 {
			raw += ":00"
		}
		tod, err := time.Parse("15:04:05", raw)
		if err != nil {
			return now
		}
		y, m, d := date.Date()
		return time.Date(y, m, d, tod.Hour(), tod.Minute(), tod.Second(), 0, loc)
	}

	if t, err := time.ParseInLocation(dateTimeLayout, date.Format(dateLayout)+"T"+raw, loc); err == nil {
		return t
	}
	return now
}
