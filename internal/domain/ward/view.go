package ward

import (
	"github.com/ehr/renalward/internal/domain/admission"
	"github.com/ehr/renalward/internal/domain/patient"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Assemble merges p with its active admission. a may be nil.
func Assemble(p *patient.Patient, a *admission.Admission) PatientView {
	v := PatientView{
		ID:              p.ID,
		PHN:             p.PHN,
		Name:            p.Name,
		Sex:             p.Sex,
		Status:          p.Status,
		Address:         p.Address,
		Phone:           p.Phone,
		NIC:             p.NIC,
		MOHArea:         p.MOHArea,
		EthnicGroup:     p.EthnicGroup,
		Religion:        p.Religion,
		Occupation:      p.Occupation,
		MaritalStatus:   p.MaritalStatus,
		MedicalProblems: p.MedicalProblems,
		Allergies:       p.Allergies,
	}
	if p.DOB != nil {
		dob := p.DOB.Format(dateLayout)
		v.DOB = &dob
	}
	if a != nil {
		id := a.ID
		v.HasActiveAdmission = true
		v.ActiveAdmissionID = &id
		v.ActiveAdmission = admissionView(a)
	}
	return v
}

func admissionView(a *admission.Admission) *AdmissionView {
	if a == nil {
		return nil
	}
	return &AdmissionView{
		ID:                        a.ID,
		BHTNumber:                 a.BHTNumber,
		Number:                    a.Number,
		Active:                    a.Active,
		DischargeSummaryAvailable: a.DischargeSummaryAvailable,
		AdmittedOn:                a.AdmittedOn.Format(dateLayout),
		AdmissionTime:             a.AdmissionTime.Format(timeLayout),
		Ward:                      a.Ward,
		WardNumber:                a.WardNumber,
		BedID:                     a.BedID,
		ConsultantName:            a.ConsultantName,
		ReferredBy:                a.ReferredBy,
		PrimaryDiagnosis:          a.PrimaryDiagnosis,
		AdmissionType:             a.AdmissionType,
		AdmittingOfficer:          a.AdmittingOfficer,
		PresentingComplaints:      a.PresentingComplaints,
		ExamTempC:                 a.ExamTempC,
		ExamHeightCm:              a.ExamHeightCm,
		ExamWeightKg:              a.ExamWeightKg,
		ExamBMI:                   a.ExamBMI,
		ExamBloodPressure:         a.ExamBloodPressure,
		ExamHeartRate:             a.ExamHeartRate,
	}
}
