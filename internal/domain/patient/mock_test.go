package patient

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	store     map[uuid.UUID]*Patient
	problems  map[uuid.UUID][]*MedicalProblem
	allergies map[uuid.UUID][]*Allergy
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		store:     make(map[uuid.UUID]*Patient),
		problems:  make(map[uuid.UUID][]*MedicalProblem),
		allergies: make(map[uuid.UUID][]*Allergy),
	}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	for _, existing := range m.store {
		if existing.PHN == p.PHN {
			return ErrDuplicatePHN
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) GetByPHN(_ context.Context, phn string) (*Patient, error) {
	for _, p := range m.store {
		if p.PHN == phn {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	p, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	delete(m.problems, id)
	delete(m.allergies, id)
	return nil
}

func (m *mockRepo) AddProblem(_ context.Context, mp *MedicalProblem) error {
	mp.ID = uuid.New()
	m.problems[mp.PatientID] = append(m.problems[mp.PatientID], mp)
	return nil
}

func (m *mockRepo) ListProblems(_ context.Context, patientID uuid.UUID) ([]*MedicalProblem, error) {
	items := append([]*MedicalProblem(nil), m.problems[patientID]...)
	sort.Slice(items, func(i, j int) bool { return items[i].Problem < items[j].Problem })
	return items, nil
}

func (m *mockRepo) AddAllergy(_ context.Context, a *Allergy) error {
	a.ID = uuid.New()
	m.allergies[a.PatientID] = append(m.allergies[a.PatientID], a)
	return nil
}

func (m *mockRepo) ListAllergies(_ context.Context, patientID uuid.UUID) ([]*Allergy, error) {
	items := append([]*Allergy(nil), m.allergies[patientID]...)
	sort.Slice(items, func(i, j int) bool { return items[i].Allergy < items[j].Allergy })
	return items, nil
}
