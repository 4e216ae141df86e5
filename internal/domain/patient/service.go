package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/ehr/renalward/internal/platform/apperr"
	"github.com/ehr/renalward/pkg/phn"
)

// MaxPHNLength matches the width of patient.phn.
const MaxPHNLength = 32

// Registry owns patient records. Every PHN argument may be in any format;
// it is normalised before use.
type Registry struct {
	repo Repository
}

func NewRegistry(repo Repository) *Registry {
	return &Registry{repo: repo}
}

// Create validates p, rejects a PHN that is already registered and persists
// the patient as Admitted together with its problem and allergy lists.
// Callers needing atomicity with other writes run it inside a transaction.
func (r *Registry) Create(ctx context.Context, p *Patient) error {
	p.PHN = phn.Normalize(p.PHN)
	p.Name = strings.TrimSpace(p.Name)
	if p.PHN == "" {
		return apperr.Invalid("phn is required and must contain digits")
	}
	if len(p.PHN) > MaxPHNLength {
		return apperr.Invalid("phn must be at most %d digits", MaxPHNLength)
	}
	if p.Name == "" {
		return apperr.Invalid("name is required")
	}

	_, found, err := r.FindByPHN(ctx, p.PHN)
	if err != nil {
		return err
	}
	if found {
		return apperr.Conflict("patient with PHN %s already exists", p.PHN)
	}

	p.Status = StatusAdmitted
	if err := r.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicatePHN) {
			return apperr.Conflict("patient with PHN %s already exists", p.PHN)
		}
		return err
	}

	for _, problem := range cleanList(p.MedicalProblems) {
		if err := r.repo.AddProblem(ctx, &MedicalProblem{PatientID: p.ID, Problem: problem}); err != nil {
			return err
		}
	}
	for _, allergy := range cleanList(p.Allergies) {
		if err := r.repo.AddAllergy(ctx, &Allergy{PatientID: p.ID, Allergy: allergy}); err != nil {
			return err
		}
	}
	p.MedicalProblems = cleanList(p.MedicalProblems)
	p.Allergies = cleanList(p.Allergies)
	return nil
}

// FindByPHN is the optional lookup: absence is reported through the bool.
func (r *Registry) FindByPHN(ctx context.Context, rawPHN string) (*Patient, bool, error) {
	p, err := r.repo.GetByPHN(ctx, phn.Normalize(rawPHN))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return p, true, nil
}

// GetByPHN fails with a NotFound error when no patient matches.
func (r *Registry) GetByPHN(ctx context.Context, rawPHN string) (*Patient, error) {
	p, found, err := r.FindByPHN(ctx, rawPHN)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("patient not found with PHN: %s", phn.Normalize(rawPHN))
	}
	return p, nil
}

// SetStatus persists st on an already resolved patient.
func (r *Registry) SetStatus(ctx context.Context, p *Patient, st Status) error {
	if err := r.repo.UpdateStatus(ctx, p.ID, st); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("patient not found with PHN: %s", p.PHN)
		}
		return err
	}
	p.Status = st
	return nil
}

// Delete removes the patient with its admissions, notes and summaries.
func (r *Registry) Delete(ctx context.Context, rawPHN string) error {
	p, err := r.GetByPHN(ctx, rawPHN)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("patient not found with PHN: %s", p.PHN)
		}
		return err
	}
	return nil
}

// LoadProblemLists fills MedicalProblems and Allergies from storage.
func (r *Registry) LoadProblemLists(ctx context.Context, p *Patient) error {
	problems, err := r.repo.ListProblems(ctx, p.ID)
	if err != nil {
		return err
	}
	allergies, err := r.repo.ListAllergies(ctx, p.ID)
	if err != nil {
		return err
	}
	p.MedicalProblems = make([]string, 0, len(problems))
	for _, mp := range problems {
		p.MedicalProblems = append(p.MedicalProblems, mp.Problem)
	}
	p.Allergies = make([]string, 0, len(allergies))
	for _, a := range allergies {
		p.Allergies = append(p.Allergies, a.Allergy)
	}
	return nil
}

func cleanList(items []string) []string {
	var out []string
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}
