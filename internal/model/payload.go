package model

import "strings"

// InquiryPayload is the record shape the Creator inquiry form accepts.
// Keys and nesting must match the form's field link names exactly.
type InquiryPayload struct {
	FullName       FullName `json:"Full_Name"`
	MobileNumber   string   `json:"Mobile_Number"`
	EmailAddress   string   `json:"Email_Address"`
	Destination    string   `json:"Destination_Tour_Name"`
	TravelDate     string   `json:"Travel_Date"`
	TravelType     string   `json:"Travel_Type"`
	Travelers      *int     `json:"Number_of_Travelers,omitempty"`
	SpecialRequest string   `json:"Message_Special_Request"`
	TermsAccepted  bool     `json:"Terms_Conditions"`
}

// FullName is the Creator compound name field
type FullName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AddRecordRequest is the body posted to the form endpoint
type AddRecordRequest struct {
	Data *InquiryPayload `json:"data"`
}

// BuildPayload maps an inquiry record onto the form payload. It never fails;
// missing fields are left empty for Zoho to enforce.
func BuildPayload(record InquiryRecord) *InquiryPayload {
	payload := &InquiryPayload{
		FullName:       resolveName(record),
		MobileNumber:   record.String(FieldMobile),
		EmailAddress:   record.String(FieldEmail),
		Destination:    record.String(FieldDestination),
		TravelDate:     record.String(FieldTravelDate),
		TravelType:     record.String(FieldTravelType),
		SpecialRequest: record.String(FieldSpecialRequest),
		// The form only accepts submissions with the box ticked.
		TermsAccepted: true,
	}

	if value, ok := record.Lookup(FieldTravelers); ok {
		if n, ok := toInt(value); ok {
			payload.Travelers = &n
		}
	}

	return payload
}

func resolveName(record InquiryRecord) FullName {
	if value, ok := record.Lookup(FieldFullName); ok {
		if compound, ok := value.(map[string]any); ok {
			return FullName{
				FirstName: stringOf(compound, "first_name"),
				LastName:  stringOf(compound, "last_name"),
			}
		}
		return SplitName(stringify(value))
	}

	return FullName{
		FirstName: record.String(FieldFirstName),
		LastName:  record.String(FieldLastName),
	}
}

// SplitName splits on the first run of whitespace: "Asha Devi Rao" gives
// first "Asha" and last "Devi Rao".
func SplitName(name string) FullName {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return FullName{}
	case 1:
		return FullName{FirstName: parts[0]}
	default:
		return FullName{
			FirstName: parts[0],
			LastName:  strings.Join(parts[1:], " "),
		}
	}
}

func stringOf(m map[string]any, key string) string {
	value, ok := m[key]
	if !ok || isEmpty(value) {
		return ""
	}
	return stringify(value)
}
