package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/swasthyasathi/internal/intent"
	"github.com/wolfman30/swasthyasathi/internal/observability/metrics"
	"github.com/wolfman30/swasthyasathi/internal/records"
)

var testNames = records.Names{
	Patients:   "modified_hospital_data",
	Beds:       "bed_inventory",
	Doctors:    "doctor_schedule",
	Medicines:  "mock_medicine_inventory_extended",
	Discharged: "discharged_patients",
}

type scriptedExtractor struct {
	result   intent.Result
	received []string
	panics   bool
}

func (e *scriptedExtractor) Extract(_ context.Context, text string) intent.Result {
	e.received = append(e.received, text)
	if e.panics {
		panic("extractor exploded")
	}
	return e.result
}

func parsed(name string, entities map[string]string) intent.Result {
	return intent.Parsed{Intent: name, Entities: entities}
}

// saveFailingStore fails saves for the tables listed in errs.
type saveFailingStore struct {
	*records.MemoryStore
	errs  map[string]error
	saves []string
}

func (s *saveFailingStore) SaveTable(ctx context.Context, name string, t *records.Table) error {
	s.saves = append(s.saves, name)
	if err, ok := s.errs[name]; ok {
		return err
	}
	return s.MemoryStore.SaveTable(ctx, name, t)
}

func seedStore(t *testing.T) *records.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := records.NewMemoryStore()
	tables := map[string]*records.Table{
		testNames.Patients: {
			Columns: []string{"name", "age", "ward", "bed_no", "status", "admitted_on", "critical"},
			Rows: [][]string{
				{"Ramesh", "54", "General", "G-12", "Typhoid", "2025-06-01", "Stable"},
				{"Sita Das", "33", "ICU", "I-02", "Dengue", "2025-06-10", "Critical"},
				{"ramesh kumar", "41", "General", "G-14", "Fracture", "2025-06-11", "Stable"},
			},
		},
		testNames.Beds: {
			Columns: []string{"bed_no", "ward", "bed_type", "status"},
			Rows: [][]string{
				{"G-11", "General", "standard", "Available"},
				{"I-01", "ICU", "ventilator", "available "},
				{"G-12", "general", "standard", "occupied"},
				{"G-13", " GENERAL ", "semi private", "AVAILABLE"},
			},
		},
		testNames.Doctors: {
			Columns: []string{"doctor_name", "ward", "shift_start", "shift_end", "is_available"},
			Rows: [][]string{
				{"Dr. S. Sahu", "General", "08:00", "16:00", "No"},
				{"Dr. A. Patel", "Cardiology", "09:00", "17:00", "Yes"},
				{"Dr. C. Mishra", "ICU", "20:00", "08:00", " yes"},
				{"Dr. R. Sahu", "Orthopedics", "10:00", "18:00", "YES"},
			},
		},
		testNames.Medicines: {
			Columns: []string{"medicine_name", "category", "quantity_available", "expiry_date"},
			Rows: [][]string{
				{"Paracetamol 500mg", "Analgesic", "120", "2026-03-31"},
				{"Amoxicillin", "Antibiotic", "40", "2025-12-31"},
				{"Paracetamol Syrup", "Analgesic", "15", "2025-09-30"},
			},
		},
		testNames.Discharged: {
			Columns: []string{"name", "age", "ward", "bed_no", "status", "admitted_on", "critical", "discharge_date"},
		},
	}
	for name, tbl := range tables {
		require.NoError(t, store.SaveTable(ctx, name, tbl))
	}
	return store
}

func fixedClock() time.Time {
	return time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
}

func newTestService(store records.Store, ex Extractor) *Service {
	return NewService(store, testNames, ex, WithClock(fixedClock), WithLocation(time.UTC))
}

func loadTable(t *testing.T, store records.Store, name string) *records.Table {
	t.Helper()
	tbl, err := store.LoadTable(context.Background(), name)
	require.NoError(t, err)
	return tbl
}

func TestRespondPassesCanonicalTextToExtractor(t *testing.T) {
	ex := &scriptedExtractor{result: parsed("bed_status", nil)}
	svc := newTestService(seedStore(t), ex)

	svc.Respond(context.Background(), "Paracetamol achi ki")
	svc.Respond(context.Background(), "where is the canteen")
	assert.Equal(t, []string{"is paracetamol available", "where is the canteen"}, ex.received)
}

func TestRespondBedScenario(t *testing.T) {
	ex := &scriptedExtractor{result: parsed("bed_status", map[string]string{})}
	svc := newTestService(seedStore(t), ex)

	reply := svc.Respond(context.Background(), "kete bed available achhi?")
	assert.Equal(t, []string{"how many beds are available"}, ex.received)
	want := "🏥 **Available Beds:**\n\n" +
		"| Bed No | Ward | Type |\n|--------|------|------|\n" +
		"| G-11 | General | Standard |\n" +
		"| I-01 | Icu | Ventilator |\n" +
		"| G-13 | General | Semi Private |\n"
	assert.Equal(t, want, reply)
}

func TestRespondBedFilterIsConjunctive(t *testing.T) {
	ex := &scriptedExtractor{result: parsed("bed_status", map[string]string{"ward": " General "})}
	svc := newTestService(seedStore(t), ex)

	reply := svc.Respond(context.Background(), "general ward re kete bed achhi")
	assert.Contains(t, reply, "| G-11 | General | Standard |")
	assert.Contains(t, reply, "| G-13 | General | Semi Private |")
	assert.NotContains(t, reply, "G-12")
	assert.NotContains(t, reply, "I-01")
	assert.Less(t, strings.Index(reply, "G-11"), strings.Index(reply, "G-13"))
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"o'neil wing":  "O'Neil Wing",
		"o\u2019neil":  "O\u2019Neil",
		"post-op":      "Post-Op",
		"semi-private": "Semi-Private",
		"2nd floor":    "2Nd Floor",
		"icu":          "Icu",
		"":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, titleCase(in), in)
	}
}

func TestRespondBedWardWithApostrophe(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	require.NoError(t, store.SaveTable(ctx, testNames.Beds, &records.Table{
		Columns: []string{"bed_no", "ward", "bed_type", "status"},
		Rows:    [][]string{{"W-01", "O'NEIL WING", "post-op", "Available"}},
	}))
	ex := &scriptedExtractor{result: parsed("bed_status", map[string]string{"ward": "o'neil wing"})}

	reply := newTestService(store, ex).Respond(ctx, "beds in o'neil wing")
	assert.Contains(t, reply, "| W-01 | O'Neil Wing | Post-Op |")
}

func TestRespondNoBeds(t *testing.T) {
	ex := &scriptedExtractor{result: parsed("bed_status", map[string]string{"ward": "maternity"})}
	svc := newTestService(seedStore(t), ex)
	assert.Equal(t, "❌ No available beds.", svc.Respond(context.Background(), "beds in maternity"))
}

func TestRespondMedicineScenario(t *testing.T) {
	ex := &scriptedExtractor{result: parsed("medicine_info", map[string]string{"medicine": "paracetamol"})}
	svc := newTestService(seedStore(t), ex)

	reply := svc.Respond(context.Background(), "paracetamol achi ki")
	assert.Equal(t, []string{"is paracetamol available"}, ex.received)
	assert.Equal(t, "💊 Paracetamol 500mg | Category: Analgesic | Quantity Available: 120 | Expiry: 2026-03-31", reply)
}

func TestRespondMedicineCases(t *testing.T) {
	tests := []struct {
		name     string
		medicine string
		want     string
	}{
		{"case insensitive substring", "AMOXI", "💊 Amoxicillin | Category: Antibiotic | Quantity Available: 40 | Expiry: 2025-12-31"},
		{"not found", "insulin", "❌ Medicine not found."},
		{"entity not trimmed", " amoxicillin", "❌ Medicine not found."},
		{"empty entity matches first", "", "💊 Paracetamol 500mg | Category: Analgesic | Quantity Available: 120 | Expiry: 2026-03-31"},
		{"regex characters are literal", "paracetamol.*", "❌ Medicine not found."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &scriptedExtractor{result: parsed("medicine_info", map[string]string{"medicine": tt.medicine})}
			svc := newTestService(seedStore(t), ex)
			assert.Equal(t, tt.want, svc.Respond(context.Background(), "medicine?"))
		})
	}
}

func TestRespondDoctorInfo(t *testing.T) {
	tests := []struct {
		name   string
		doctor string
		want   string
	}{
		{"substring first match", "sahu", "✅ Yes, Dr. R. Sahu is available in Orthopedics."},
		{"trimmed and lowercased", "  DR. C. MISHRA ", "✅ Yes, Dr. C. Mishra is available in ICU."},
		{"unavailable doctor", "Dr. S. Sahu", "❌ Dr. S. Sahu is not currently available."},
		{"unknown doctor", "Dr. House", "❌ Dr. House is not currently available."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &scriptedExtractor{result: parsed("doctor_info", map[string]string{"doctor": tt.doctor})}
			svc := newTestService(seedStore(t), ex)
			assert.Equal(t, tt.want, svc.Respond(context.Background(), "is dr. x"))
		})
	}
}

func TestRespondDoctorRoster(t *testing.T) {
	ex := &scriptedExtractor{result: parsed("doctor_info", map[string]string{"doctor": "  "})}
	svc := newTestService(seedStore(t), ex)

	reply := svc.Respond(context.Background(), "which doctors are available")
	require.True(t, strings.HasPrefix(reply, "👨‍⚕️ Available Doctors:\n"), reply)
	lines := strings.Split(strings.TrimPrefix(reply, "👨‍⚕️ Available Doctors:\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "doctor_name")
	assert.Contains(t, lines[0], "shift_end")
	assert.Contains(t, lines[1], "Dr. A. Patel")
	assert.Contains(t, lines[2], "Dr. C. Mishra")
	assert.Contains(t, lines[3], "Dr. R. Sahu")
	assert.NotContains(t, reply, "Dr. S. Sahu")
	for _, line := range lines[1:] {
		assert.Equal(t, len(lines[0]), len(line), "columns should align")
	}
}

func TestRespondNoDoctors(t *testing.T) {
	store := seedStore(t)
	require.NoError(t, store.SaveTable(context.Background(), testNames.Doctors,
		&records.Table{Columns: []string{"doctor_name", "ward", "shift_start", "shift_end", "is_available"}, Rows: [][]string{{"Dr. X", "A", "1", "2", "no"}}}))
	ex := &scriptedExtractor{result: parsed("doctor_info", nil)}
	assert.Equal(t, "❌ No doctors available.", newTestService(store, ex).Respond(context.Background(), "doctors?"))
}

func TestRespondPatientStatus(t *testing.T) {
	tests := []struct {
		name    string
		patient string
		want    string
	}{
		{"exact case insensitive", "RAMESH", "👤 Ramesh is in Ward General, Bed G-12, Disease: Typhoid, Admitted on: 2025-06-01, Condition: Stable"},
		{"no substring match", "sita", "❌ Patient not found."},
		{"empty name", "", "❌ Patient not found."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &scriptedExtractor{result: parsed("patient_status", map[string]string{"name": tt.patient})}
			svc := newTestService(seedStore(t), ex)
			assert.Equal(t, tt.want, svc.Respond(context.Background(), "ramesh kie"))
		})
	}
}

func TestRespondDischargeMovesExactlyOneRow(t *testing.T) {
	store := seedStore(t)
	ex := &scriptedExtractor{result: parsed("discharge", map[string]string{"name": "ramesh"})}
	svc := newTestService(store, ex)

	reply := svc.Respond(context.Background(), "discharge karideba ramesh ku")
	assert.Equal(t, "✅ Ramesh has been discharged.", reply)
	assert.Equal(t, []string{"discharge ramesh"}, ex.received)

	active := loadTable(t, store, testNames.Patients)
	require.Equal(t, 2, active.Len())
	assert.Equal(t, "Sita Das", active.Value(0, "name"))
	assert.Equal(t, "ramesh kumar", active.Value(1, "name"))

	discharged := loadTable(t, store, testNames.Discharged)
	require.Equal(t, 1, discharged.Len())
	assert.Equal(t, "Ramesh", discharged.Value(0, "name"))
	assert.Equal(t, "G-12", discharged.Value(0, "bed_no"))
	assert.Equal(t, "54", discharged.Value(0, "age"))
	assert.Equal(t, "2025-06-15", discharged.Value(0, "discharge_date"))

	assert.Equal(t, "❌ Patient not found for discharge.", svc.Respond(context.Background(), "discharge ramesh"))
	assert.Equal(t, 1, loadTable(t, store, testNames.Discharged).Len())
}

func TestRespondDischargeRemovesAllExactMatches(t *testing.T) {
	store := seedStore(t)
	patients := loadTable(t, store, testNames.Patients)
	patients.Rows = append(patients.Rows, []string{"RAMESH", "60", "ICU", "I-09", "Stroke", "2025-06-12", "Critical"})
	require.NoError(t, store.SaveTable(context.Background(), testNames.Patients, patients))

	ex := &scriptedExtractor{result: parsed("discharge", map[string]string{"name": "Ramesh"})}
	newTestService(store, ex).Respond(context.Background(), "discharge ramesh")

	active := loadTable(t, store, testNames.Patients)
	assert.Equal(t, 2, active.Len())
	discharged := loadTable(t, store, testNames.Discharged)
	require.Equal(t, 1, discharged.Len())
	assert.Equal(t, "G-12", discharged.Value(0, "bed_no"))
}

func TestRespondDischargeAbsentNameMutatesNothing(t *testing.T) {
	store := &saveFailingStore{MemoryStore: seedStore(t)}
	ex := &scriptedExtractor{result: parsed("discharge", map[string]string{"name": "Gopal"})}

	reply := newTestService(store, ex).Respond(context.Background(), "discharge gopal")
	assert.Equal(t, "❌ Patient not found for discharge.", reply)
	assert.Empty(t, store.saves)
	assert.Equal(t, 3, loadTable(t, store, testNames.Patients).Len())
}

func TestRespondDischargeAddsMissingDateColumn(t *testing.T) {
	store := seedStore(t)
	require.NoError(t, store.SaveTable(context.Background(), testNames.Discharged, records.NewTable("name", "ward")))
	ex := &scriptedExtractor{result: parsed("discharge", map[string]string{"name": "sita das"})}

	newTestService(store, ex).Respond(context.Background(), "discharge sita")
	discharged := loadTable(t, store, testNames.Discharged)
	assert.Equal(t, []string{"name", "ward", "age", "bed_no", "status", "admitted_on", "critical", "discharge_date"}, discharged.Columns)
	assert.Equal(t, "2025-06-15", discharged.Value(0, "discharge_date"))
}

func TestRespondDischargeWriteOrderAndFailure(t *testing.T) {
	store := &saveFailingStore{
		MemoryStore: seedStore(t),
		errs:        map[string]error{testNames.Patients: errors.New("disk full")},
	}
	ex := &scriptedExtractor{result: parsed("discharge", map[string]string{"name": "ramesh"})}

	reply := newTestService(store, ex).Respond(context.Background(), "discharge ramesh")
	assert.Equal(t, "⚠️ Something went wrong while handling your request.", reply)
	assert.Equal(t, []string{testNames.Discharged, testNames.Patients}, store.saves)
	assert.Equal(t, 1, loadTable(t, store, testNames.Discharged).Len())
	assert.Equal(t, 3, loadTable(t, store, testNames.Patients).Len())
}

func TestRespondUpdateDoctorAvailabilityIsIdempotent(t *testing.T) {
	store := seedStore(t)
	ex := &scriptedExtractor{result: parsed("update_doctor_availability", map[string]string{"doctor": "dr. a. patel"})}
	svc := newTestService(store, ex)

	first := svc.Respond(context.Background(), "doctor patel available nuhanti")
	second := svc.Respond(context.Background(), "doctor patel available nuhanti")
	assert.Equal(t, "🚫 dr. a. patel marked as unavailable.", first)
	assert.Equal(t, first, second)

	doctors := loadTable(t, store, testNames.Doctors)
	assert.Equal(t, "No", doctors.Value(1, "is_available"))
	assert.Equal(t, " yes", doctors.Value(2, "is_available"))
}

func TestRespondUpdateDoctorRequiresExactName(t *testing.T) {
	store := seedStore(t)
	ex := &scriptedExtractor{result: parsed("update_doctor_availability", map[string]string{"doctor": "sahu"})}

	reply := newTestService(store, ex).Respond(context.Background(), "doctor sahu available nuhanti")
	assert.Equal(t, "🚫 sahu marked as unavailable.", reply)
	assert.Equal(t, "YES", loadTable(t, store, testNames.Doctors).Value(3, "is_available"))
}

func TestRespondUpdateDoctorMissingName(t *testing.T) {
	store := &saveFailingStore{MemoryStore: seedStore(t)}
	ex := &scriptedExtractor{result: parsed("update_doctor_availability", map[string]string{})}

	assert.Equal(t, "❌ Doctor name missing.", newTestService(store, ex).Respond(context.Background(), "mark unavailable"))
	assert.Empty(t, store.saves)
}

func TestRespondUpdateDoctorLocked(t *testing.T) {
	store := &saveFailingStore{
		MemoryStore: seedStore(t),
		errs:        map[string]error{testNames.Doctors: records.ErrTableLocked},
	}
	ex := &scriptedExtractor{result: parsed("update_doctor_availability", map[string]string{"doctor": "Dr. A. Patel"})}

	reply := newTestService(store, ex).Respond(context.Background(), "doctor patel")
	assert.Equal(t, "🚫 Could not update doctor availability – file is locked.", reply)
}

func TestRespondUpdateDoctorOtherWriteError(t *testing.T) {
	store := &saveFailingStore{
		MemoryStore: seedStore(t),
		errs:        map[string]error{testNames.Doctors: errors.New("bucket gone")},
	}
	ex := &scriptedExtractor{result: parsed("update_doctor_availability", map[string]string{"doctor": "Dr. A. Patel"})}

	reply := newTestService(store, ex).Respond(context.Background(), "doctor patel")
	assert.Equal(t, "⚠️ Something went wrong while handling your request.", reply)
}

func TestRespondFallback(t *testing.T) {
	tests := []struct {
		name   string
		result intent.Result
		want   string
	}{
		{"unparseable output", intent.Parse("I cannot help with that."), "🤖 Sorry, I didn't understand the query. Error: " + intent.ErrNoJSONObject.Error()},
		{"unsupported intent", parsed("book_appointment", nil), "🤖 Sorry, I didn't understand the query."},
		{"missing intent", parsed("", map[string]string{"name": "x"}), "🤖 Sorry, I didn't understand the query."},
		{"model error", intent.Failed{Err: errors.New("timeout")}, "🤖 Sorry, I didn't understand the query. Error: timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &scriptedExtractor{result: tt.result}
			assert.Equal(t, tt.want, newTestService(seedStore(t), ex).Respond(context.Background(), "???"))
		})
	}
}

func TestRespondNeverPanics(t *testing.T) {
	ex := &scriptedExtractor{panics: true}
	reply := newTestService(seedStore(t), ex).Respond(context.Background(), "")
	assert.Equal(t, "⚠️ Something went wrong while handling your request.", reply)
}

func TestRespondMissingTable(t *testing.T) {
	ex := &scriptedExtractor{result: parsed("bed_status", nil)}
	reply := newTestService(records.NewMemoryStore(), ex).Respond(context.Background(), "beds")
	assert.Equal(t, "⚠️ Something went wrong while handling your request.", reply)
	assert.Empty(t, ex.received, "tables load before extraction")
}

func TestRespondRecordsQueryMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewAssistantMetrics(reg)
	ex := &scriptedExtractor{result: parsed("weather", nil)}
	svc := NewService(seedStore(t), testNames, ex, WithMetrics(m))
	svc.Respond(context.Background(), "will it rain")

	families, err := reg.Gather()
	require.NoError(t, err)
	var labels map[string]string
	for _, f := range families {
		if f.GetName() == "swasthyasathi_assistant_queries_total" {
			labels = map[string]string{}
			for _, lp := range f.GetMetric()[0].GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
		}
	}
	assert.Equal(t, map[string]string{"intent": "unknown", "outcome": "fallback"}, labels)
}
