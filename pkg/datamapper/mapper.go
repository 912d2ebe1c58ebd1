package datamapper

import (
	"encoding/json"
	"fmt"
)

// Map reshapes an intake record into an appointment request. Patient details
// are grouped under Patient, appointment details stay at the top level and the
// card number is not carried over.
func Map(input InputRecord) OutputRecord {
	return OutputRecord{
		Patient: Patient{
			Name:    input.Name,
			DOB:     input.DOB,
			SSN:     input.SSN,
			Address: input.Address,
			Phone:   input.Phone,
			Email:   input.Email,
		},
		Doctor:          input.Doctor,
		HospitalID:      input.HospitalID,
		Hospital:        input.Hospital,
		AppointmentDate: input.AppointmentDate,
	}
}

// DecodeInput reads an intake record from a JSON object. Fields of the wrong
// type decode as empty strings; only invalid JSON or a top level that is not an
// object is a DecodeError.
func DecodeInput(raw []byte) (InputRecord, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return InputRecord{}, DecodeError{reason: fmt.Errorf("decoding input record: %w", err)}
	}
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return InputRecord{}, DecodeError{reason: fmt.Errorf("decoding input record: expected a JSON object, got %s", jsonKind(doc))}
	}
	return FromPayload(obj), nil
}

// MapJSON decodes a JSON object, maps it and encodes the result. Missing or
// wrong-typed keys map to empty strings.
func MapJSON(raw []byte) ([]byte, error) {
	input, err := DecodeInput(raw)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(Map(input))
	if err != nil {
		return nil, fmt.Errorf("encoding output record: %w", err)
	}
	return out, nil
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
