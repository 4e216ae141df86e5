package clinical

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type mockNoteRepo struct {
	store map[uuid.UUID]*ProgressNote
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{store: make(map[uuid.UUID]*ProgressNote)}
}

func (m *mockNoteRepo) Create(_ context.Context, n *ProgressNote) error {
	n.ID = uuid.New()
	cp := *n
	m.store[n.ID] = &cp
	return nil
}

func (m *mockNoteRepo) ListByAdmission(_ context.Context, admissionID uuid.UUID) ([]*ProgressNote, error) {
	var items []*ProgressNote
	for _, n := range m.store {
		if n.AdmissionID == admissionID {
			cp := *n
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

type mockSummaryRepo struct {
	store map[uuid.UUID]*DischargeSummary
}

func newMockSummaryRepo() *mockSummaryRepo {
	return &mockSummaryRepo{store: make(map[uuid.UUID]*DischargeSummary)}
}

func (m *mockSummaryRepo) Create(_ context.Context, s *DischargeSummary) error {
	for _, existing := range m.store {
		if existing.AdmissionID == s.AdmissionID {
			return ErrSummaryExists
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *mockSummaryRepo) GetByAdmission(_ context.Context, admissionID uuid.UUID) (*DischargeSummary, error) {
	for _, s := range m.store {
		if s.AdmissionID == admissionID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrSummaryNotFound
}

// stepClock advances by one minute on every call.
type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}
