package intent

// Result is the outcome of one extraction: either Parsed or Failed.
type Result interface {
	isResult()
}

// Parsed is a model answer that decoded into an intent record. Intent is
// empty when the model omitted it; values are not whitelisted here.
type Parsed struct {
	Intent   string
	Entities map[string]string
}

// Failed carries why no intent record could be obtained.
type Failed struct {
	Err error
}

func (Parsed) isResult() {}
func (Failed) isResult() {}

// Entity returns the named entity, or "".
func (p Parsed) Entity(name string) string {
	return p.Entities[name]
}

// Entity names the handlers read.
const (
	EntityWard     = "ward"
	EntityDoctor   = "doctor"
	EntityMedicine = "medicine"
	EntityName     = "name"
)

// Supported intents.
const (
	IntentBedStatus                = "bed_status"
	IntentDoctorInfo               = "doctor_info"
	IntentMedicineInfo             = "medicine_info"
	IntentPatientStatus            = "patient_status"
	IntentDischarge                = "discharge"
	IntentUpdateDoctorAvailability = "update_doctor_availability"
	IntentUnknown                  = "unknown"
)

// Query is the closed set of requests the assistant can act on.
type Query interface {
	IntentName() string
}

type BedStatus struct{ Ward string }
type DoctorInfo struct{ Doctor string }
type MedicineInfo struct{ Medicine string }
type PatientStatus struct{ Name string }
type Discharge struct{ Name string }
type UpdateDoctorAvailability struct{ Doctor string }

// Unknown covers unsupported intents and failed extractions. Err is nil
// when the model answered with an intent we do not handle.
type Unknown struct {
	Intent string
	Err    error
}

func (BedStatus) IntentName() string                { return IntentBedStatus }
func (DoctorInfo) IntentName() string               { return IntentDoctorInfo }
func (MedicineInfo) IntentName() string             { return IntentMedicineInfo }
func (PatientStatus) IntentName() string            { return IntentPatientStatus }
func (Discharge) IntentName() string                { return IntentDischarge }
func (UpdateDoctorAvailability) IntentName() string { return IntentUpdateDoctorAvailability }
func (Unknown) IntentName() string                  { return IntentUnknown }

// Decode maps an extraction result onto exactly one Query variant.
func Decode(r Result) Query {
	switch res := r.(type) {
	case Parsed:
		switch res.Intent {
		case IntentBedStatus:
			return BedStatus{Ward: res.Entity(EntityWard)}
		case IntentDoctorInfo:
			return DoctorInfo{Doctor: res.Entity(EntityDoctor)}
		case IntentMedicineInfo:
			return MedicineInfo{Medicine: res.Entity(EntityMedicine)}
		case IntentPatientStatus:
			return PatientStatus{Name: res.Entity(EntityName)}
		case IntentDischarge:
			return Discharge{Name: res.Entity(EntityName)}
		case IntentUpdateDoctorAvailability:
			return UpdateDoctorAvailability{Doctor: res.Entity(EntityDoctor)}
		default:
			return Unknown{Intent: res.Intent}
		}
	case Failed:
		return Unknown{Intent: IntentUnknown, Err: res.Err}
	default:
		return Unknown{Intent: IntentUnknown}
	}
}
