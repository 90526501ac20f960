package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/swasthyasathi/internal/records"
)

const (
	msgPatientNotFound   = "❌ Patient not found."
	msgDischargeNotFound = "❌ Patient not found for discharge."
	dischargeDateLayout  = "2006-01-02"
)

func patientStatus(patients *records.Table, name string) string {
	idx := findPatient(patients, strings.ToLower(name))
	if idx < 0 {
		return msgPatientNotFound
	}
	p := records.PatientAt(patients, idx)
	return fmt.Sprintf("👤 %s is in Ward %s, Bed %s, Disease: %s, Admitted on: %s, Condition: %s",
		p.Name, p.Ward, p.BedNo, p.Status, p.AdmittedOn, p.Critical)
}

// discharge moves a patient from the active table into the discharged
// table. The discharged table is written first; a failure on the second
// write leaves the patient in both tables and is returned to the caller.
func (s *Service) discharge(ctx context.Context, snap *records.Snapshot, name string) (string, error) {
	target := strings.ToLower(name)
	idx := findPatient(snap.Patients, target)
	if idx < 0 {
		return msgDischargeNotFound, nil
	}

	rec := snap.Patients.Record(idx)
	patientName := rec.Get(records.ColName)
	rec.Set(records.ColDischargeDate, s.now().In(s.loc).Format(dischargeDateLayout))
	snap.Discharged.Append(rec)
	removed := snap.Patients.RemoveWhere(func(i int) bool {
		return matchesPatient(snap.Patients.Value(i, records.ColName), target)
	})

	if err := s.store.SaveTable(ctx, s.names.Discharged, snap.Discharged); err != nil {
		return "", fmt.Errorf("assistant: save %s: %w", s.names.Discharged, err)
	}
	if err := s.store.SaveTable(ctx, s.names.Patients, snap.Patients); err != nil {
		return "", fmt.Errorf("assistant: save %s after archiving discharge: %w", s.names.Patients, err)
	}
	s.logger.Info("patient discharged", "removed_rows", removed)
	return fmt.Sprintf("✅ %s has been discharged.", patientName), nil
}

// findPatient returns the first row whose name equals target exactly after
// lowercasing, or -1.
func findPatient(patients *records.Table, target string) int {
	for i := 0; i < patients.Len(); i++ {
		if matchesPatient(patients.Value(i, records.ColName), target) {
			return i
		}
	}
	return -1
}

func matchesPatient(name, target string) bool {
	return name != "" && strings.ToLower(name) == target
}
