package datamapper

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func janeDoe() InputRecord {
	return InputRecord{
		Name:            "Jane Doe",
		DOB:             "1980-01-01",
		SSN:             "123-45-6789",
		Address:         "1 Main St",
		Phone:           "555-0100",
		Email:           "jane@example.com",
		Doctor:          "Dr. Smith",
		HospitalID:      "H100",
		Hospital:        "General Hospital",
		CardNo:          "4111111111111111",
		AppointmentDate: "2024-05-01",
	}
}

func TestMapGroupsPatientDetails(t *testing.T) {
	in := janeDoe()
	out := Map(in)

	assert.Equal(t, Patient{
		Name:    "Jane Doe",
		DOB:     "1980-01-01",
		SSN:     "123-45-6789",
		Address: "1 Main St",
		Phone:   "555-0100",
		Email:   "jane@example.com",
	}, out.Patient)
	assert.Equal(t, in.Doctor, out.Doctor)
	assert.Equal(t, in.HospitalID, out.HospitalID)
	assert.Equal(t, in.Hospital, out.Hospital)
	assert.Equal(t, in.AppointmentDate, out.AppointmentDate)
}

func TestMapDoesNotMutateInput(t *testing.T) {
	in := janeDoe()
	before := in
	_ = Map(in)
	assert.Equal(t, before, in)
}

func TestMapRepeatedCallsAreEqual(t *testing.T) {
	in := janeDoe()
	assert.Equal(t, Map(in), Map(in))
}

func TestMapEmptyRecord(t *testing.T) {
	out := Map(InputRecord{})
	assert.Equal(t, OutputRecord{}, out)
}

func TestMapConcurrentCalls(t *testing.T) {
	in := janeDoe()
	want := Map(in)

	var wg sync.WaitGroup
	results := make([]OutputRecord, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Map(in)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestMapJSONScenario(t *testing.T) {
	raw := []byte(`{"name":"Jane Doe","dob":"1980-01-01","ssn":"123-45-6789","address":"1 Main St",
		"phone":"555-0100","email":"jane@example.com","doctor":"Dr. Smith","hospital_id":"H100",
		"hospital":"General Hospital","cardNo":"4111111111111111","appointment_date":"2024-05-01"}`)

	out, err := MapJSON(raw)
	require.NoError(t, err)

	expected := `{"patient":{"name":"Jane Doe","dob":"1980-01-01","ssn":"123-45-6789","address":"1 Main St",
		"phone":"555-0100","email":"jane@example.com"},"doctor":"Dr. Smith","hospital_id":"H100",
		"hospital":"General Hospital","appointment_date":"2024-05-01"}`
	assert.JSONEq(t, expected, string(out))
	assert.NotContains(t, string(out), "cardNo")
	assert.NotContains(t, string(out), "4111111111111111")
}

func TestMapJSONEmptyStrings(t *testing.T) {
	raw := []byte(`{"name":"","dob":"","ssn":"","address":"","phone":"","email":"","doctor":"",
		"hospital_id":"","hospital":"","cardNo":"","appointment_date":""}`)

	out, err := MapJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"patient":{"name":"","dob":"","ssn":"","address":"","phone":"","email":""},
		"doctor":"","hospital_id":"","hospital":"","appointment_date":""}`, string(out))
}

func TestMapJSONMissingFieldsBecomeEmpty(t *testing.T) {
	out, err := MapJSON([]byte(`{"name":"Jane Doe"}`))
	require.NoError(t, err)

	var decoded OutputRecord
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Jane Doe", decoded.Patient.Name)
	assert.Empty(t, decoded.Doctor)
	assert.Empty(t, decoded.Patient.SSN)
}

func TestMapJSONRejectsMalformedDocument(t *testing.T) {
	_, err := MapJSON([]byte(`{"name":`))
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
}

func TestMapJSONWrongTypedFieldsBecomeEmpty(t *testing.T) {
	out, err := MapJSON([]byte(`{"name":"Jane Doe","hospital_id":100,"doctor":"Dr. Smith","ssn":null,"phone":["555"]}`))
	require.NoError(t, err)

	var decoded OutputRecord
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Jane Doe", decoded.Patient.Name)
	assert.Equal(t, "Dr. Smith", decoded.Doctor)
	assert.Empty(t, decoded.HospitalID)
	assert.Empty(t, decoded.Patient.SSN)
	assert.Empty(t, decoded.Patient.Phone)
}

func TestMapJSONRejectsNonObjectDocuments(t *testing.T) {
	for _, raw := range []string{`[]`, `"Jane Doe"`, `42`, `null`, `true`} {
		_, err := MapJSON([]byte(raw))
		require.Error(t, err, raw)
		assert.True(t, IsDecodeError(err), raw)
	}
}

func TestDecodeInputMatchesFromPayload(t *testing.T) {
	raw := []byte(`{"name":"Jane Doe","hospital_id":100,"cardNo":"4111111111111111"}`)

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &obj))

	in, err := DecodeInput(raw)
	require.NoError(t, err)
	assert.Equal(t, FromPayload(obj), in)
}

func TestFromPayload(t *testing.T) {
	payload := map[string]interface{}{
		"name":             "  Jane Doe ",
		"dob":              "1980-01-01",
		"hospital_id":      100,
		"cardNo":           "4111111111111111",
		"appointment_date": "2024-05-01",
	}

	in := FromPayload(payload)
	assert.Equal(t, "  Jane Doe ", in.Name, "values must not be trimmed")
	assert.Equal(t, "1980-01-01", in.DOB)
	assert.Empty(t, in.HospitalID)
	assert.Empty(t, in.Email)
	assert.Equal(t, "4111111111111111", in.CardNo)
}

func TestPayloadMatchesJSONEncoding(t *testing.T) {
	out := Map(janeDoe())

	fromPayload, err := json.Marshal(out.Payload())
	require.NoError(t, err)
	direct, err := json.Marshal(out)
	require.NoError(t, err)

	assert.JSONEq(t, string(direct), string(fromPayload))
	assert.NotContains(t, out.Payload(), "cardNo")
}
