package pdf

import (
	"bytes"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func fullView() SummaryView {
	age := 54
	admitted := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	discharged := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	return SummaryView{
		PatientName:     "Kamal Perera",
		PHN:             "1234567890",
		BHTNumber:       "BHT-1234567890-1704880000000",
		Age:             &age,
		Sex:             strPtr("Male"),
		Address:         strPtr("Kandy"),
		AdmissionDate:   &admitted,
		DischargeDate:   &discharged,
		Diagnosis:       strPtr("CKD stage 5"),
		ICD10:           strPtr("N18.5"),
		ProgressSummary: strPtr("Stable on PD."),
		Management:      strPtr("CAPD 4 exchanges daily."),
		DischargePlan:   strPtr("Clinic review in 2 weeks."),
		Medications:     strPtr("Erythropoietin 4000 IU weekly."),
		GeneratedOn:     time.Date(2024, 1, 20, 11, 0, 0, 0, time.UTC),
	}
}

func titles(sections []Section) []string {
	var out []string
	for _, s := range sections {
		out = append(out, s.Title)
	}
	return out
}

func TestSections_Order(t *testing.T) {
	got := titles(Sections(fullView()))
	want := []string{
		"1. PATIENT DETAILS",
		"2. DIAGNOSIS",
		"3. PROGRESS SUMMARY",
		"4. MANAGEMENT",
		"5. DISCHARGE PLAN",
		"6. DISCHARGE MEDICATIONS",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d sections, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSections_OmitsBlankProse(t *testing.T) {
	v := fullView()
	v.ProgressSummary = nil
	v.DischargePlan = strPtr("   ")

	got := titles(Sections(v))
	want := []string{"1. PATIENT DETAILS", "2. DIAGNOSIS", "4. MANAGEMENT", "6. DISCHARGE MEDICATIONS"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSections_NotSpecified(t *testing.T) {
	s := Sections(SummaryView{PatientName: "A"})
	details := s[0].Lines
	want := map[int]string{
		0: "Name: A",
		3: "Age: Not specified",
		4: "Sex: Not specified",
		6: "Admission Date: Not specified",
		7: "Discharge Date: Not specified",
	}
	for i, line := range want {
		if details[i] != line {
			t.Errorf("line %d: want %q, got %q", i, line, details[i])
		}
	}
	if s[1].Lines[0] != "Final Diagnosis: Not specified" {
		t.Errorf("unexpected diagnosis line %q", s[1].Lines[0])
	}
	if len(s) != 2 {
		t.Errorf("expected only the two fixed sections, got %d", len(s))
	}
}

func TestSections_Details(t *testing.T) {
	lines := Sections(fullView())[0].Lines
	if lines[3] != "Age: 54 years" {
		t.Errorf("unexpected age line %q", lines[3])
	}
	if lines[6] != "Admission Date: 2024-01-10" || lines[7] != "Discharge Date: 2024-01-20" {
		t.Errorf("unexpected date lines %q / %q", lines[6], lines[7])
	}
}

func TestRenderDischargeSummary(t *testing.T) {
	out, err := RenderDischargeSummary(fullView())
	if err != nil {
		t.Fatalf("RenderDischargeSummary: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("expected PDF header")
	}
}

func TestRender_ContainsTextInOrder(t *testing.T) {
	v := fullView()
	v.Management = nil
	out, err := render(v, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	ordered := []string{
		"DISCHARGE SUMMARY",
		"TEACHING HOSPITAL PERADENIYA",
		"RENAL CARE UNIT",
		"1. PATIENT DETAILS",
		"2. DIAGNOSIS",
		"3. PROGRESS SUMMARY",
		"5. DISCHARGE PLAN",
		"6. DISCHARGE MEDICATIONS",
		"Generated on: 2024-01-20",
	}
	last := -1
	for _, s := range ordered {
		idx := bytes.Index(out, []byte(s))
		if idx < 0 {
			t.Fatalf("expected %q in output", s)
		}
		if idx < last {
			t.Errorf("%q printed out of order", s)
		}
		last = idx
	}
	if bytes.Contains(out, []byte("4. MANAGEMENT")) {
		t.Error("empty management section must be omitted")
	}
}
