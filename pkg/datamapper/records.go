package datamapper

// InputRecord is the flat intake record received from the hospital front desk.
type InputRecord struct {
	Name            string `json:"name" yaml:"name"`
	DOB             string `json:"dob" yaml:"dob"`
	SSN             string `json:"ssn" yaml:"ssn"`
	Address         string `json:"address" yaml:"address"`
	Phone           string `json:"phone" yaml:"phone"`
	Email           string `json:"email" yaml:"email"`
	Doctor          string `json:"doctor" yaml:"doctor"`
	HospitalID      string `json:"hospital_id" yaml:"hospital_id"`
	Hospital        string `json:"hospital" yaml:"hospital"`
	CardNo          string `json:"cardNo" yaml:"cardNo"`
	AppointmentDate string `json:"appointment_date" yaml:"appointment_date"`
}

type Patient struct {
	Name    string `json:"name" yaml:"name"`
	DOB     string `json:"dob" yaml:"dob"`
	SSN     string `json:"ssn" yaml:"ssn"`
	Address string `json:"address" yaml:"address"`
	Phone   string `json:"phone" yaml:"phone"`
	Email   string `json:"email" yaml:"email"`
}

// OutputRecord is the appointment request accepted by the hospital backend.
// It has no position for the card number.
type OutputRecord struct {
	Patient         Patient `json:"patient" yaml:"patient"`
	Doctor          string  `json:"doctor" yaml:"doctor"`
	HospitalID      string  `json:"hospital_id" yaml:"hospital_id"`
	Hospital        string  `json:"hospital" yaml:"hospital"`
	AppointmentDate string  `json:"appointment_date" yaml:"appointment_date"`
}

// Payload returns the output in generic form, keyed exactly as the declared output schema.
func (o OutputRecord) Payload() map[string]interface{} {
	return map[string]interface{}{
		"patient": map[string]interface{}{
			"name":    o.Patient.Name,
			"dob":     o.Patient.DOB,
			"ssn":     o.Patient.SSN,
			"address": o.Patient.Address,
			"phone":   o.Patient.Phone,
			"email":   o.Patient.Email,
		},
		"doctor":           o.Doctor,
		"hospital_id":      o.HospitalID,
		"hospital":         o.Hospital,
		"appointment_date": o.AppointmentDate,
	}
}

// FromPayload reads an InputRecord out of a generic payload. Absent or
// non-string values read as empty strings; values are copied untouched.
func FromPayload(data map[string]interface{}) InputRecord {
	return InputRecord{
		Name:            getString(data["name"]),
		DOB:             getString(data["dob"]),
		SSN:             getString(data["ssn"]),
		Address:         getString(data["address"]),
		Phone:           getString(data["phone"]),
		Email:           getString(data["email"]),
		Doctor:          getString(data["doctor"]),
		HospitalID:      getString(data["hospital_id"]),
		Hospital:        getString(data["hospital"]),
		CardNo:          getString(data["cardNo"]),
		AppointmentDate: getString(data["appointment_date"]),
	}
}

func getString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
