package admission

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

type mockRepo struct {
	store map[uuid.UUID]*Admission
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*Admission)}
}

func (m *mockRepo) Create(_ context.Context, a *Admission) error {
	if a.Active {
		for _, existing := range m.store {
			if existing.PatientID == a.PatientID && existing.Active {
				return ErrActiveExists
			}
		}
	}
	a.ID = uuid.New()
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Admission, error) {
	a, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) GetActive(_ context.Context, patientID uuid.UUID) (*Admission, error) {
	for _, a := range m.store {
		if a.PatientID == patientID && a.Active {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Admission, error) {
	var items []*Admission
	for _, a := range m.store {
		if a.PatientID == patientID {
			cp := *a
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].AdmittedOn.Equal(items[j].AdmittedOn) {
			return items[i].AdmittedOn.After(items[j].AdmittedOn)
		}
		return items[i].AdmissionTime.After(items[j].AdmissionTime)
	})
	return items, nil
}

func (m *mockRepo) CountByPatient(_ context.Context, patientID uuid.UUID) (int, error) {
	n := 0
	for _, a := range m.store {
		if a.PatientID == patientID {
			n++
		}
	}
	return n, nil
}

func (m *mockRepo) Close(_ context.Context, id uuid.UUID) error {
	a, ok := m.store[id]
	if !ok || !a.Active {
		return ErrNotActive
	}
	a.Active = false
	a.DischargeSummaryAvailable = true
	return nil
}

// insert stores a pre-built admission, bypassing the ledger.
func (m *mockRepo) insert(a *Admission) *Admission {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.store[a.ID] = a
	return a
}
