package ward

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/renalward/internal/domain/admission"
	"github.com/ehr/renalward/internal/domain/clinical"
	"github.com/ehr/renalward/internal/domain/patient"
	"github.com/ehr/renalward/internal/platform/events"
	"github.com/ehr/renalward/internal/platform/lock"
	"github.com/ehr/renalward/pkg/clock"
)

var testNow = time.Date(2024, 3, 5, 9, 15, 42, 0, time.UTC)

// memDB backs every repository the ward touches. Values are copied on the
// way in and out so callers cannot mutate stored rows.
type memDB struct {
	patients   map[uuid.UUID]patient.Patient
	problems   map[uuid.UUID]patient.MedicalProblem
	allergies  map[uuid.UUID]patient.Allergy
	admissions map[uuid.UUID]admission.Admission
	notes      map[uuid.UUID]clinical.ProgressNote
	summaries  map[uuid.UUID]clinical.DischargeSummary

	failAdmissionCreate error
	failAdmissionClose  error
	failStatusUpdate    error
}

func newMemDB() *memDB {
	return &memDB{
		patients:   make(map[uuid.UUID]patient.Patient),
		problems:   make(map[uuid.UUID]patient.MedicalProblem),
		allergies:  make(map[uuid.UUID]patient.Allergy),
		admissions: make(map[uuid.UUID]admission.Admission),
		notes:      make(map[uuid.UUID]clinical.ProgressNote),
		summaries:  make(map[uuid.UUID]clinical.DischargeSummary),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m *memDB) snapshot() *memDB {
	return &memDB{
		patients:   cloneMap(m.patients),
		problems:   cloneMap(m.problems),
		allergies:  cloneMap(m.allergies),
		admissions: cloneMap(m.admissions),
		notes:      cloneMap(m.notes),
		summaries:  cloneMap(m.summaries),
	}
}

func (m *memDB) restore(s *memDB) {
	m.patients = s.patients
	m.problems = s.problems
	m.allergies = s.allergies
	m.admissions = s.admissions
	m.notes = s.notes
	m.summaries = s.summaries
}

// memTx gives WithinTx all-or-nothing semantics over a memDB.
type memTx struct {
	db      *memDB
	commits int
}

type inTxKey struct{}

func (t *memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}
	snap := t.db.snapshot()
	if err := fn(context.WithValue(ctx, inTxKey{}, true)); err != nil {
		t.db.restore(snap)
		return err
	}
	t.commits++
	return nil
}

// =========== Patient Repository ===========

type patientRepo struct{ db *memDB }

func (r patientRepo) Create(_ context.Context, p *patient.Patient) error {
	for _, existing := range r.db.patients {
		if existing.PHN == p.PHN {
			return patient.ErrDuplicatePHN
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = testNow
	p.UpdatedAt = testNow
	cp := *p
	cp.MedicalProblems, cp.Allergies = nil, nil
	r.db.patients[p.ID] = cp
	return nil
}

func (r patientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := r.db.patients[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return &p, nil
}

func (r patientRepo) GetByPHN(_ context.Context, phn string) (*patient.Patient, error) {
	for _, p := range r.db.patients {
		if p.PHN == phn {
			cp := p
			return &cp, nil
		}
	}
	return nil, patient.ErrNotFound
}

func (r patientRepo) UpdateStatus(_ context.Context, id uuid.UUID, st patient.Status) error {
	if r.db.failStatusUpdate != nil {
		return r.db.failStatusUpdate
	}
	p, ok := r.db.patients[id]
	if !ok {
		return patient.ErrNotFound
	}
	p.Status = st
	r.db.patients[id] = p
	return nil
}

func (r patientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.db.patients[id]; !ok {
		return patient.ErrNotFound
	}
	delete(r.db.patients, id)
	for k, mp := range r.db.problems {
		if mp.PatientID == id {
			delete(r.db.problems, k)
		}
	}
	for k, a := range r.db.allergies {
		if a.PatientID == id {
			delete(r.db.allergies, k)
		}
	}
	for aid, a := range r.db.admissions {
		if a.PatientID != id {
			continue
		}
		delete(r.db.admissions, aid)
		for nid, n := range r.db.notes {
			if n.AdmissionID == aid {
				delete(r.db.notes, nid)
			}
		}
		for sid, s := range r.db.summaries {
			if s.AdmissionID == aid {
				delete(r.db.summaries, sid)
			}
		}
	}
	return nil
}

func (r patientRepo) AddProblem(_ context.Context, mp *patient.MedicalProblem) error {
	mp.ID = uuid.New()
	r.db.problems[mp.ID] = *mp
	return nil
}

func (r patientRepo) ListProblems(_ context.Context, patientID uuid.UUID) ([]*patient.MedicalProblem, error) {
	var out []*patient.MedicalProblem
	for _, mp := range r.db.problems {
		if mp.PatientID == patientID {
			cp := mp
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Problem < out[j].Problem })
	return out, nil
}

func (r patientRepo) AddAllergy(_ context.Context, a *patient.Allergy) error {
	a.ID = uuid.New()
	r.db.allergies[a.ID] = *a
	return nil
}

func (r patientRepo) ListAllergies(_ context.Context, patientID uuid.UUID) ([]*patient.Allergy, error) {
	var out []*patient.Allergy
	for _, a := range r.db.allergies {
		if a.PatientID == patientID {
			cp := a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Allergy < out[j].Allergy })
	return out, nil
}

// =========== Admission Repository ===========

type admissionRepo struct{ db *memDB }

func (r admissionRepo) Create(_ context.Context, a *admission.Admission) error {
	if r.db.failAdmissionCreate != nil {
		return r.db.failAdmissionCreate
	}
	if a.Active {
		for _, existing := range r.db.admissions {
			if existing.PatientID == a.PatientID && existing.Active {
				return admission.ErrActiveExists
			}
		}
	}
	a.ID = uuid.New()
	r.db.admissions[a.ID] = *a
	return nil
}

func (r admissionRepo) GetByID(_ context.Context, id uuid.UUID) (*admission.Admission, error) {
	a, ok := r.db.admissions[id]
	if !ok {
		return nil, admission.ErrNotFound
	}
	return &a, nil
}

func (r admissionRepo) GetActive(_ context.Context, patientID uuid.UUID) (*admission.Admission, error) {
	for _, a := range r.db.admissions {
		if a.PatientID == patientID && a.Active {
			cp := a
			return &cp, nil
		}
	}
	return nil, admission.ErrNotFound
}

func (r admissionRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*admission.Admission, error) {
	var out []*admission.Admission
	for _, a := range r.db.admissions {
		if a.PatientID == patientID {
			cp := a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AdmittedOn.Equal(out[j].AdmittedOn) {
			return out[i].AdmittedOn.After(out[j].AdmittedOn)
		}
		return out[i].AdmissionTime.After(out[j].AdmissionTime)
	})
	return out, nil
}

func (r admissionRepo) CountByPatient(_ context.Context, patientID uuid.UUID) (int, error) {
	n := 0
	for _, a := range r.db.admissions {
		if a.PatientID == patientID {
			n++
		}
	}
	return n, nil
}

func (r admissionRepo) Close(_ context.Context, id uuid.UUID) error {
	if r.db.failAdmissionClose != nil {
		return r.db.failAdmissionClose
	}
	a, ok := r.db.admissions[id]
	if !ok || !a.Active {
		return admission.ErrNotActive
	}
	a.Active = false
	a.DischargeSummaryAvailable = true
	r.db.admissions[id] = a
	return nil
}

// =========== Clinical Repositories ===========

type noteRepo struct{ db *memDB }

func (r noteRepo) Create(_ context.Context, n *clinical.ProgressNote) error {
	n.ID = uuid.New()
	r.db.notes[n.ID] = *n
	return nil
}

func (r noteRepo) ListByAdmission(_ context.Context, admissionID uuid.UUID) ([]*clinical.ProgressNote, error) {
	var out []*clinical.ProgressNote
	for _, n := range r.db.notes {
		if n.AdmissionID == admissionID {
			cp := n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type summaryRepo struct{ db *memDB }

func (r summaryRepo) Create(_ context.Context, s *clinical.DischargeSummary) error {
	for _, existing := range r.db.summaries {
		if existing.AdmissionID == s.AdmissionID {
			return clinical.ErrSummaryExists
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = testNow
	r.db.summaries[s.ID] = *s
	return nil
}

func (r summaryRepo) GetByAdmission(_ context.Context, admissionID uuid.UUID) (*clinical.DischargeSummary, error) {
	for _, s := range r.db.summaries {
		if s.AdmissionID == admissionID {
			cp := s
			return &cp, nil
		}
	}
	return nil, clinical.ErrSummaryNotFound
}

// stepClock advances a minute on every read so notes get distinct stamps.
type stepClock struct{ at time.Time }

func (c *stepClock) Now() time.Time {
	now := c.at
	c.at = c.at.Add(time.Minute)
	return now
}

type fixture struct {
	db     *memDB
	tx     *memTx
	events *events.Recorder
	locker *lock.Local
	svc    *Service
}

func newFixture() *fixture {
	return newFixtureWithClock(clock.Fixed(testNow))
}

func newFixtureWithClock(clk clock.Clock) *fixture {
	mdb := newMemDB()
	f := &fixture{
		db:     mdb,
		tx:     &memTx{db: mdb},
		events: &events.Recorder{},
		locker: lock.NewLocal(),
	}
	f.svc = NewService(Deps{
		Registry: patient.NewRegistry(patientRepo{mdb}),
		Ledger:   admission.NewLedger(admissionRepo{mdb}, clk),
		Clinical: clinical.NewService(noteRepo{mdb}, summaryRepo{mdb}, clk),
		Tx:       f.tx,
		Locker:   f.locker,
		Events:   f.events,
		Clock:    clk,
	})
	return f
}

var errBoom = errors.New("boom")
