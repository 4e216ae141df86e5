// Package ward runs the workflows that span more than one record store:
// registering a patient with their first admission, discharging an
// admission, and building the patient views and documents that combine
// patient, admission and clinical data.
package ward

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/renalward/internal/domain/admission"
	"github.com/ehr/renalward/internal/domain/clinical"
	"github.com/ehr/renalward/internal/domain/patient"
	"github.com/ehr/renalward/internal/platform/apperr"
	"github.com/ehr/renalward/internal/platform/blobstore"
	"github.com/ehr/renalward/internal/platform/db"
	"github.com/ehr/renalward/internal/platform/events"
	"github.com/ehr/renalward/internal/platform/lock"
	"github.com/ehr/renalward/internal/platform/pdf"
	"github.com/ehr/renalward/pkg/clock"
	"github.com/ehr/renalward/pkg/phn"
)

// Deps are the collaborators of Service. Locker, Events and Archive may be
// left nil; they default to a process-local lock, a no-op publisher and an
// in-memory archive.
type Deps struct {
	Registry *patient.Registry
	Ledger   *admission.Ledger
	Clinical *clinical.Service
	Tx       db.Transactor
	Locker   lock.Locker
	Events   events.Publisher
	Archive  blobstore.Store
	Clock    clock.Clock
}

type Service struct {
	registry *patient.Registry
	ledger   *admission.Ledger
	clinical *clinical.Service
	tx       db.Transactor
	locker   lock.Locker
	events   events.Publisher
	archive  blobstore.Store
	clock    clock.Clock
}

func NewService(d Deps) *Service {
	s := &Service{
		registry: d.Registry,
		ledger:   d.Ledger,
		clinical: d.Clinical,
		tx:       d.Tx,
		locker:   d.Locker,
		events:   d.Events,
		archive:  d.Archive,
		clock:    d.Clock,
	}
	if s.locker == nil {
		s.locker = lock.NewLocal()
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.archive == nil {
		s.archive = blobstore.NewInMemoryStore()
	}
	if s.clock == nil {
		s.clock = clock.System{}
	}
	return s
}

// Register creates the patient and their first admission in one transaction
// and returns the assembled view. Concurrent registrations of the same PHN
// are refused with a Conflict while the intake lock is held.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*PatientView, error) {
	canonical := phn.Normalize(req.PHN)
	if canonical == "" {
		return nil, apperr.Invalid("phn is required and must contain digits")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Invalid("name is required")
	}

	p := &patient.Patient{
		PHN:             canonical,
		Name:            req.Name,
		Sex:             req.Sex,
		Address:         req.Address,
		Phone:           req.Phone,
		NIC:             req.NIC,
		MOHArea:         req.MOHArea,
		EthnicGroup:     req.EthnicGroup,
		Religion:        req.Religion,
		Occupation:      req.Occupation,
		MaritalStatus:   req.MaritalStatus,
		MedicalProblems: req.MedicalProblems,
		Allergies:       req.Allergies,
	}
	if dob := strings.TrimSpace(req.DOB); dob != "" {
		d, err := time.Parse(dateLayout, dob)
		if err != nil {
			return nil, apperr.Invalid("invalid dob %q: expected YYYY-MM-DD", req.DOB)
		}
		p.DOB = &d
	}

	release, err := s.locker.Acquire(ctx, "intake:"+canonical)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			return nil, apperr.Conflict("registration for PHN %s is already in progress", canonical)
		}
		return nil, fmt.Errorf("acquire intake lock: %w", err)
	}
	defer release()

	var a *admission.Admission
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.registry.Create(ctx, p); err != nil {
			return err
		}
		var err error
		a, err = s.ledger.CreateFirstAdmission(ctx, p, req.intake())
		return err
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("phn", p.PHN).
		Str("admission_id", a.ID.String()).
		Str("bht_number", a.BHTNumber).
		Msg("patient registered")

	s.publish(ctx, events.New(events.TypePatientRegistered, p.PHN, s.clock.Now(), map[string]interface{}{
		"patient_id":   p.ID.String(),
		"phn":          p.PHN,
		"admission_id": a.ID.String(),
		"bht_number":   a.BHTNumber,
		"admitted_on":  a.AdmittedOn.Format(dateLayout),
	}))

	v := Assemble(p, a)
	return &v, nil
}

// View returns the patient with their active admission and problem lists.
func (s *Service) View(ctx context.Context, rawPHN string) (*PatientView, error) {
	p, err := s.registry.GetByPHN(ctx, rawPHN)
	if err != nil {
		return nil, err
	}
	if err := s.registry.LoadProblemLists(ctx, p); err != nil {
		return nil, err
	}
	a, _, err := s.ledger.GetActive(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	v := Assemble(p, a)
	return &v, nil
}

func (s *Service) Debug(ctx context.Context, rawPHN string) (*DebugView, error) {
	p, err := s.registry.GetByPHN(ctx, rawPHN)
	if err != nil {
		return nil, err
	}
	a, found, err := s.ledger.GetActive(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := &DebugView{Patient: p}
	if found {
		id := a.ID
		out.ActiveAdmissionID = &id
		out.ActiveAdmission = admissionView(a)
	}
	return out, nil
}

// ListAdmissions returns every admission of the patient, newest first.
func (s *Service) ListAdmissions(ctx context.Context, rawPHN string) ([]*admission.Admission, error) {
	p, err := s.registry.GetByPHN(ctx, rawPHN)
	if err != nil {
		return nil, err
	}
	return s.ledger.ListForPatient(ctx, p.ID)
}

// UpdateStatus sets the patient's status when it agrees with their
// admissions: Admitted needs an active admission, Discharged needs none.
// It repairs a status that drifted from the admission ledger.
func (s *Service) UpdateStatus(ctx context.Context, rawPHN, status string) (*patient.Patient, error) {
	st, err := patient.ParseStatus(status)
	if err != nil {
		return nil, apperr.Invalid("%s", err.Error())
	}

	var out *patient.Patient
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.registry.GetByPHN(ctx, rawPHN)
		if err != nil {
			return err
		}
		_, active, err := s.ledger.GetActive(ctx, p.ID)
		if err != nil {
			return err
		}
		if want := patient.StatusFor(active); st != want {
			if active {
				return apperr.Conflict("patient %s has an active admission and cannot be %s", p.PHN, st)
			}
			return apperr.Conflict("patient %s has no active admission and cannot be %s", p.PHN, st)
		}
		if err := s.registry.SetStatus(ctx, p, st); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// resolve loads the patient and the admission, which must belong to them.
func (s *Service) resolve(ctx context.Context, rawPHN string, admissionID uuid.UUID) (*patient.Patient, *admission.Admission, error) {
	p, err := s.registry.GetByPHN(ctx, rawPHN)
	if err != nil {
		return nil, nil, err
	}
	a, err := s.ledger.RequireOwned(ctx, p, admissionID)
	if err != nil {
		return nil, nil, err
	}
	return p, a, nil
}

func (s *Service) AddProgressNote(ctx context.Context, rawPHN string, admissionID uuid.UUID, m clinical.Measurements) (*clinical.ProgressNote, error) {
	_, a, err := s.resolve(ctx, rawPHN, admissionID)
	if err != nil {
		return nil, err
	}
	return s.clinical.AppendNote(ctx, a, m)
}

func (s *Service) ListProgressNotes(ctx context.Context, rawPHN string, admissionID uuid.UUID) ([]*clinical.ProgressNote, error) {
	_, a, err := s.resolve(ctx, rawPHN, admissionID)
	if err != nil {
		return nil, err
	}
	return s.clinical.ListNotes(ctx, a.ID)
}

// Discharge writes the summary, closes the admission and marks the patient
// Discharged. Either all three writes commit or none do.
func (s *Service) Discharge(ctx context.Context, rawPHN string, admissionID uuid.UUID, in clinical.SummaryInput) (*clinical.DischargeSummary, error) {
	p, a, err := s.resolve(ctx, rawPHN, admissionID)
	if err != nil {
		return nil, err
	}

	var ds *clinical.DischargeSummary
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ds, err = s.clinical.CreateSummary(ctx, a, in)
		if err != nil {
			return err
		}
		if err := s.ledger.CloseAndMarkDischarged(ctx, a); err != nil {
			return err
		}
		return s.registry.SetStatus(ctx, p, patient.StatusDischarged)
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("phn", p.PHN).
		Str("admission_id", a.ID.String()).
		Msg("admission discharged")

	s.publish(ctx, events.New(events.TypeAdmissionDischarged, p.PHN, s.clock.Now(), map[string]interface{}{
		"patient_id":     p.ID.String(),
		"phn":            p.PHN,
		"admission_id":   a.ID.String(),
		"bht_number":     a.BHTNumber,
		"summary_id":     ds.ID.String(),
		"discharge_date": ds.DischargeDate.Format(dateLayout),
	}))

	return ds, nil
}

func (s *Service) GetSummary(ctx context.Context, rawPHN string, admissionID uuid.UUID) (*clinical.DischargeSummary, error) {
	_, a, err := s.resolve(ctx, rawPHN, admissionID)
	if err != nil {
		return nil, err
	}
	return s.clinical.GetSummary(ctx, a.ID)
}

// SummaryPDF renders the admission's discharge summary.
func (s *Service) SummaryPDF(ctx context.Context, rawPHN string, admissionID uuid.UUID) ([]byte, error) {
	p, a, ds, err := s.summaryParts(ctx, rawPHN, admissionID)
	if err != nil {
		return nil, err
	}
	return s.renderSummary(p, a, ds)
}

// ArchiveSummary renders the discharge summary and stores it under a stable
// per-admission key, replacing any earlier copy.
func (s *Service) ArchiveSummary(ctx context.Context, rawPHN string, admissionID uuid.UUID) (*blobstore.Metadata, error) {
	p, a, ds, err := s.summaryParts(ctx, rawPHN, admissionID)
	if err != nil {
		return nil, err
	}
	doc, err := s.renderSummary(p, a, ds)
	if err != nil {
		return nil, err
	}

	meta, err := s.archive.Put(ctx, blobstore.Metadata{
		Key:         blobstore.DischargeSummaryKey(p.PHN, a.ID.String()),
		ContentType: "application/pdf",
		PatientID:   p.ID.String(),
		AdmissionID: a.ID.String(),
	}, bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("archive discharge summary: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("phn", p.PHN).
		Str("key", meta.Key).
		Int64("size", meta.Size).
		Msg("discharge summary archived")
	return meta, nil
}

func (s *Service) summaryParts(ctx context.Context, rawPHN string, admissionID uuid.UUID) (*patient.Patient, *admission.Admission, *clinical.DischargeSummary, error) {
	p, a, err := s.resolve(ctx, rawPHN, admissionID)
	if err != nil {
		return nil, nil, nil, err
	}
	ds, err := s.clinical.GetSummary(ctx, a.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return p, a, ds, nil
}

func (s *Service) renderSummary(p *patient.Patient, a *admission.Admission, ds *clinical.DischargeSummary) ([]byte, error) {
	doc, err := pdf.RenderDischargeSummary(SummaryView(p, a, ds, s.clock.Now()))
	if err != nil {
		return nil, fmt.Errorf("render discharge summary for admission %s: %w", a.ID, err)
	}
	return doc, nil
}

// SummaryView collects what the discharge document prints.
func SummaryView(p *patient.Patient, a *admission.Admission, ds *clinical.DischargeSummary, now time.Time) pdf.SummaryView {
	admitted := a.AdmittedOn
	discharged := ds.DischargeDate
	v := pdf.SummaryView{
		PatientName:     p.Name,
		PHN:             p.PHN,
		BHTNumber:       a.BHTNumber,
		Sex:             p.Sex,
		Address:         p.Address,
		AdmissionDate:   &admitted,
		DischargeDate:   &discharged,
		Diagnosis:       ds.Diagnosis,
		ICD10:           ds.ICD10,
		ProgressSummary: ds.ProgressSummary,
		Management:      ds.Management,
		DischargePlan:   ds.DischargePlan,
		Medications:     ds.DrugsFreeHand,
		GeneratedOn:     now,
	}
	if age, ok := p.AgeAt(now); ok {
		v.Age = &age
	}
	return v
}

// publish sends e after the owning transaction has committed. A failure is
// logged and otherwise ignored; the change it describes is already durable.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("event_type", e.Type).
			Str("event_id", e.ID).
			Msg("publish lifecycle event")
	}
}
