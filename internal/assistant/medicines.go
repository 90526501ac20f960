package assistant

import (
	"fmt"
	"strings"

	"github.com/wolfman30/swasthyasathi/internal/records"
)

const msgMedicineNotFound = "❌ Medicine not found."

// medicineInfo returns the first medicine whose lowercase name contains the
// lowercase entity. The entity is not trimmed, and an empty one matches the
// first named medicine.
func medicineInfo(medicines *records.Table, medicine string) string {
	needle := strings.ToLower(medicine)
	for i := 0; i < medicines.Len(); i++ {
		m := records.MedicineAt(medicines, i)
		if m.Name == "" || !strings.Contains(strings.ToLower(m.Name), needle) {
			continue
		}
		return fmt.Sprintf("💊 %s | Category: %s | Quantity Available: %s | Expiry: %s",
			m.Name, m.Category, m.QuantityAvailable, m.ExpiryDate)
	}
	return msgMedicineNotFound
}
