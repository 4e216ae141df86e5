// Package pdf renders the printable discharge summary.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	notSpecified = "Not specified"
	dateLayout   = "2006-01-02"
)

// SummaryView is everything printed on a discharge summary. Nil fields print
// as "Not specified"; nil or blank free-text sections are left out.
type SummaryView struct {
	PatientName   string
	PHN           string
	BHTNumber     string
	Age           *int
	Sex           *string
	Address       *string
	AdmissionDate *time.Time
	DischargeDate *time.Time

	Diagnosis *string
	ICD10     *string

	ProgressSummary *string
	Management      *string
	DischargePlan   *string
	Medications     *string

	GeneratedOn time.Time
}

// Section is one numbered block of the document. Prose sections are
// justified; detail sections print one "Label: value" line per entry.
type Section struct {
	Title string
	Lines []string
	Prose bool
}

// Sections lists the document body in print order, omitting empty prose.
func Sections(v SummaryView) []Section {
	age := notSpecified
	if v.Age != nil {
		age = fmt.Sprintf("%d years", *v.Age)
	}

	out := []Section{
		{
			Title: "1. PATIENT DETAILS",
			Lines: []string{
				"Name: " + orNotSpecified(v.PatientName),
				"PHN: " + orNotSpecified(v.PHN),
				"BHT Number: " + orNotSpecified(v.BHTNumber),
				"Age: " + age,
				"Sex: " + deref(v.Sex),
				"Address: " + deref(v.Address),
				"Admission Date: " + formatDate(v.AdmissionDate),
				"Discharge Date: " + formatDate(v.DischargeDate),
			},
		},
		{
			Title: "2. DIAGNOSIS",
			Lines: []string{
				"Final Diagnosis: " + deref(v.Diagnosis),
				"ICD-10 Code: " + deref(v.ICD10),
			},
		},
	}

	prose := []struct {
		title string
		text  *string
	}{
		{"3. PROGRESS SUMMARY", v.ProgressSummary},
		{"4. MANAGEMENT", v.Management},
		{"5. DISCHARGE PLAN", v.DischargePlan},
		{"6. DISCHARGE MEDICATIONS", v.Medications},
	}
	for _, p := range prose {
		if p.text == nil || strings.TrimSpace(*p.text) == "" {
			continue
		}
		out = append(out, Section{Title: p.title, Lines: []string{*p.text}, Prose: true})
	}
	return out
}

// RenderDischargeSummary produces the A4 document for v.
func RenderDischargeSummary(v SummaryView) ([]byte, error) {
	return render(v, true)
}

func render(v SummaryView, compress bool) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(compress)
	doc.SetTitle("Discharge Summary", true)
	doc.SetCreator("renalward", true)
	if !v.GeneratedOn.IsZero() {
		doc.SetCreationDate(v.GeneratedOn)
	}
	doc.SetMargins(20, 20, 20)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, "DISCHARGE SUMMARY", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, "TEACHING HOSPITAL PERADENIYA", "", 1, "C", false, 0, "")
	doc.CellFormat(0, 8, "RENAL CARE UNIT", "", 1, "C", false, 0, "")
	doc.Ln(10)

	for _, s := range Sections(v) {
		doc.SetFont("Helvetica", "B", 14)
		doc.CellFormat(0, 8, s.Title, "", 1, "L", false, 0, "")
		doc.Ln(3)
		doc.SetFont("Helvetica", "", 12)
		for _, line := range s.Lines {
			if s.Prose {
				doc.MultiCell(0, 6, tr(line), "", "J", false)
				continue
			}
			doc.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
		}
		doc.Ln(8)
	}

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, "Generated on: "+v.GeneratedOn.Format(dateLayout), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render discharge summary: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return notSpecified
	}
	return *s
}

func orNotSpecified(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return notSpecified
	}
	return t.Format(dateLayout)
}
