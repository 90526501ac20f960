package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/wolfman30/swasthyasathi/internal/records"
)

const (
	msgNoDoctors        = "❌ No doctors available."
	msgDoctorMissing    = "❌ Doctor name missing."
	msgDoctorFileLocked = "🚫 Could not update doctor availability – file is locked."
	doctorsHeading      = "👨‍⚕️ Available Doctors:\n"
)

func doctorInfo(doctors *records.Table, doctor string) string {
	var available []records.Doctor
	for i := 0; i < doctors.Len(); i++ {
		d := records.DoctorAt(doctors, i)
		if normalize(d.IsAvailable) == "yes" {
			available = append(available, d)
		}
	}

	name := normalize(doctor)
	if name != "" {
		for _, d := range available {
			if d.Name != "" && strings.Contains(strings.ToLower(d.Name), name) {
				return fmt.Sprintf("✅ Yes, %s is available in %s.", d.Name, d.Ward)
			}
		}
		return fmt.Sprintf("❌ %s is not currently available.", doctor)
	}

	if len(available) == 0 {
		return msgNoDoctors
	}
	return doctorsHeading + doctorRoster(available)
}

// doctorRoster renders right-aligned name, ward and shift columns.
func doctorRoster(doctors []records.Doctor) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", records.ColDoctorName, records.ColWard, records.ColShiftStart, records.ColShiftEnd)
	for _, d := range doctors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", d.Name, d.Ward, d.ShiftStart, d.ShiftEnd)
	}
	_ = w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// markDoctorUnavailable sets is_available to "No" on every doctor whose name
// equals doctor case-insensitively, then writes the table back. It reports
// success even when nobody matched.
func (s *Service) markDoctorUnavailable(ctx context.Context, doctors *records.Table, doctor string) (string, error) {
	if doctor == "" {
		return msgDoctorMissing, nil
	}
	target := strings.ToLower(doctor)
	matched := 0
	for i := 0; i < doctors.Len(); i++ {
		if strings.ToLower(doctors.Value(i, records.ColDoctorName)) == target {
			doctors.Set(i, records.ColIsAvailable, "No")
			matched++
		}
	}

	err := s.store.SaveTable(ctx, s.names.Doctors, doctors)
	if errors.Is(err, records.ErrTableLocked) {
		s.logger.Warn("doctor schedule locked", "table", s.names.Doctors, "error", err)
		return msgDoctorFileLocked, nil
	}
	if err != nil {
		return "", fmt.Errorf("assistant: save %s: %w", s.names.Doctors, err)
	}
	s.logger.Info("doctor marked unavailable", "matched_rows", matched)
	return fmt.Sprintf("🚫 %s marked as unavailable.", doctor), nil
}
