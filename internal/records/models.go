package records

// Column names shared by the datasets.
const (
	ColName       = "name"
	ColWard       = "ward"
	ColBedNo      = "bed_no"
	ColBedType    = "bed_type"
	ColStatus     = "status"
	ColAdmittedOn = "admitted_on"
	ColCritical   = "critical"

	ColDoctorName  = "doctor_name"
	ColShiftStart  = "shift_start"
	ColShiftEnd    = "shift_end"
	ColIsAvailable = "is_available"

	ColMedicineName      = "medicine_name"
	ColCategory          = "category"
	ColQuantityAvailable = "quantity_available"
	ColExpiryDate        = "expiry_date"

	ColDischargeDate = "discharge_date"
)

// Bed is a typed view of one bed_inventory row.
type Bed struct {
	BedNo   string
	Ward    string
	BedType string
	Status  string
}

// Doctor is a typed view of one doctor_schedule row.
type Doctor struct {
	Name        string
	Ward        string
	ShiftStart  string
	ShiftEnd    string
	IsAvailable string
}

// Medicine is a typed view of one medicine inventory row.
type Medicine struct {
	Name              string
	Category          string
	QuantityAvailable string
	ExpiryDate        string
}

// Patient is a typed view of one active patient row.
type Patient struct {
	Name       string
	Ward       string
	BedNo      string
	Status     string
	AdmittedOn string
	Critical   string
}

// BedAt reads row i of a bed table.
func BedAt(t *Table, i int) Bed {
	return Bed{
		BedNo:   t.Value(i, ColBedNo),
		Ward:    t.Value(i, ColWard),
		BedType: t.Value(i, ColBedType),
		Status:  t.Value(i, ColStatus),
	}
}

// DoctorAt reads row i of a doctor table.
func DoctorAt(t *Table, i int) Doctor {
	return Doctor{
		Name:        t.Value(i, ColDoctorName),
		Ward:        t.Value(i, ColWard),
		ShiftStart:  t.Value(i, ColShiftStart),
		ShiftEnd:    t.Value(i, ColShiftEnd),
		IsAvailable: t.Value(i, ColIsAvailable),
	}
}

// MedicineAt reads row i of a medicine table.
func MedicineAt(t *Table, i int) Medicine {
	return Medicine{
		Name:              t.Value(i, ColMedicineName),
		Category:          t.Value(i, ColCategory),
		QuantityAvailable: t.Value(i, ColQuantityAvailable),
		ExpiryDate:        t.Value(i, ColExpiryDate),
	}
}

// PatientAt reads row i of a patient table.
func PatientAt(t *Table, i int) Patient {
	return Patient{
		Name:       t.Value(i, ColName),
		Ward:       t.Value(i, ColWard),
		BedNo:      t.Value(i, ColBedNo),
		Status:     t.Value(i, ColStatus),
		AdmittedOn: t.Value(i, ColAdmittedOn),
		Critical:   t.Value(i, ColCritical),
	}
}
