package clinical

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/renalward/internal/domain/admission"
	"github.com/ehr/renalward/internal/platform/apperr"
	"github.com/ehr/renalward/pkg/clock"
)

var testNow = time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC)

func newTestService(clk clock.Clock) (*Service, *mockNoteRepo, *mockSummaryRepo) {
	notes := newMockNoteRepo()
	summaries := newMockSummaryRepo()
	return NewService(notes, summaries, clk), notes, summaries
}

func testAdmission() *admission.Admission {
	return &admission.Admission{ID: uuid.New(), PatientID: uuid.New(), Active: true}
}

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func TestAppendNote(t *testing.T) {
	svc, notes, _ := newTestService(clock.Fixed(testNow))
	a := testAdmission()
	n, err := svc.AppendNote(context.Background(), a, Measurements{
		TempC:  floatPtr(37.8),
		BPHigh: intPtr(140),
		BPLow:  intPtr(90),
	})
	if err != nil {
		t.Fatalf("AppendNote: %v", err)
	}
	if n.AdmissionID != a.ID {
		t.Error("expected note linked to admission")
	}
	if !n.CreatedAt.Equal(testNow) {
		t.Errorf("expected created_at %v, got %v", testNow, n.CreatedAt)
	}
	if n.UrineOutputMl != nil {
		t.Error("omitted measurements must stay nil")
	}
	if len(notes.store) != 1 {
		t.Errorf("expected 1 note, got %d", len(notes.store))
	}
}

func TestListNotes_NewestFirstAndImmutable(t *testing.T) {
	svc, _, _ := newTestService(&stepClock{t: testNow})
	ctx := context.Background()
	a := testAdmission()

	first, err := svc.AppendNote(ctx, a, Measurements{WeightKg: floatPtr(70.5)})
	if err != nil {
		t.Fatalf("AppendNote: %v", err)
	}
	second, err := svc.AppendNote(ctx, a, Measurements{WeightKg: floatPtr(69.9)})
	if err != nil {
		t.Fatalf("AppendNote: %v", err)
	}
	if _, err := svc.AppendNote(ctx, testAdmission(), Measurements{}); err != nil {
		t.Fatalf("AppendNote other admission: %v", err)
	}

	items, err := svc.ListNotes(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Error("expected newest note first")
	}
	if *items[1].WeightKg != 70.5 || !items[1].CreatedAt.Equal(first.CreatedAt) {
		t.Error("appending a note must not change earlier notes")
	}
}

func TestListNotes_EmptyIsNotNil(t *testing.T) {
	svc, _, _ := newTestService(clock.Fixed(testNow))
	items, err := svc.ListNotes(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if items == nil {
		t.Error("expected empty slice")
	}
}

func TestCreateSummary(t *testing.T) {
	svc, _, summaries := newTestService(clock.Fixed(testNow))
	a := testAdmission()
	ds, err := svc.CreateSummary(context.Background(), a, SummaryInput{
		DischargeDate: "2024-03-01",
		Diagnosis:     strPtr("CKD stage 5"),
		ICD10:         strPtr("N18.5"),
	})
	if err != nil {
		t.Fatalf("CreateSummary: %v", err)
	}
	if ds.AdmissionID != a.ID || ds.PatientID != a.PatientID {
		t.Error("expected summary linked to admission and patient")
	}
	if ds.DischargeDate.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("unexpected discharge date %v", ds.DischargeDate)
	}
	if len(summaries.store) != 1 {
		t.Errorf("expected 1 summary, got %d", len(summaries.store))
	}
}

func TestCreateSummary_UnparsableDateIsToday(t *testing.T) {
	svc, _, _ := newTestService(clock.Fixed(testNow))
	ds, err := svc.CreateSummary(context.Background(), testAdmission(), SummaryInput{DischargeDate: "next tuesday"})
	if err != nil {
		t.Fatalf("CreateSummary: %v", err)
	}
	if ds.DischargeDate.Format("2006-01-02") != "2024-03-05" {
		t.Errorf("expected today, got %v", ds.DischargeDate)
	}
}

func TestCreateSummary_DuplicateConflict(t *testing.T) {
	svc, _, summaries := newTestService(clock.Fixed(testNow))
	ctx := context.Background()
	a := testAdmission()
	if _, err := svc.CreateSummary(ctx, a, SummaryInput{Diagnosis: strPtr("first")}); err != nil {
		t.Fatalf("first: %v", err)
	}
	_, err := svc.CreateSummary(ctx, a, SummaryInput{Diagnosis: strPtr("second")})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}
	for _, s := range summaries.store {
		if *s.Diagnosis != "first" {
			t.Error("the first summary must be unchanged")
		}
	}
}

func TestGetSummary(t *testing.T) {
	svc, _, _ := newTestService(clock.Fixed(testNow))
	ctx := context.Background()
	a := testAdmission()
	if _, err := svc.GetSummary(ctx, a.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	created, _ := svc.CreateSummary(ctx, a, SummaryInput{})
	got, err := svc.GetSummary(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if got.ID != created.ID {
		t.Error("expected the created summary")
	}
}

func TestParseDischargeDate(t *testing.T) {
	today := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-02-29", "2024-02-29"},
		{" 2024-01-01 ", "2024-01-01"},
		{"", "2024-03-05"},
		{"2024-02-30", "2024-03-05"},
		{"01/02/2024", "2024-03-05"},
	}
	for _, tt := range tests {
		if got := ParseDischargeDate(tt.raw, today).Format("2006-01-02"); got != tt.want {
			t.Errorf("ParseDischargeDate(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}
