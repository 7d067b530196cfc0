package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// InquiryRecord is the decoded inquiry form body. Keys arrive in whichever
// convention the form uses; values are resolved through FieldAliases.
type InquiryRecord map[string]any

// Field identifies a logical inquiry field
type Field string

const (
	FieldFullName       Field = "full_name"
	FieldFirstName      Field = "first_name"
	FieldLastName       Field = "last_name"
	FieldMobile         Field = "mobile"
	FieldEmail          Field = "email"
	FieldDestination    Field = "destination"
	FieldTravelDate     Field = "travel_date"
	FieldTravelType     Field = "travel_type"
	FieldTravelers      Field = "travelers"
	FieldSpecialRequest Field = "special_request"
)

// FieldAliases lists the accepted keys per field, canonical Zoho link name first.
var FieldAliases = map[Field][]string{
	FieldFullName:       {"Full_Name", "full_name", "Full Name", "fullName", "Name", "name"},
	FieldFirstName:      {"First_Name", "first_name", "First Name", "firstName"},
	FieldLastName:       {"Last_Name", "last_name", "Last Name", "lastName"},
	FieldMobile:         {"Mobile_Number", "mobile_number", "Mobile Number", "mobileNumber", "Phone", "phone"},
	FieldEmail:          {"Email_Address", "email_address", "Email Address", "Email", "email"},
	FieldDestination:    {"Destination_Tour_Name", "destination_tour_name", "Destination / Tour Name", "Destination", "destination"},
	FieldTravelDate:     {"Travel_Date", "travel_date", "Travel Date", "travelDate"},
	FieldTravelType:     {"Travel_Type", "travel_type", "Travel Type", "travelType"},
	FieldTravelers:      {"Number_of_Travelers", "number_of_travelers", "Number of Travelers", "travelers"},
	FieldSpecialRequest: {"Message_Special_Request", "message_special_request", "Message / Special Request", "Message", "message"},
}

// Lookup returns the first non-empty value among the field's aliases
func (r InquiryRecord) Lookup(field Field) (any, bool) {
	for _, key := range FieldAliases[field] {
		value, ok := r[key]
		if !ok || isEmpty(value) {
			continue
		}
		return value, true
	}
	return nil, false
}

// String resolves a field to its string form, empty when absent
func (r InquiryRecord) String(field Field) string {
	value, ok := r.Lookup(field)
	if !ok {
		return ""
	}
	return stringify(value)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// toInt coerces numbers and numeric strings; fractions truncate and values
// outside the int range are rejected.
func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return truncInt(f)
		}
	case float64:
		return truncInt(v)
	case int:
		return v, true
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return truncInt(f)
		}
	}
	return 0, false
}

func truncInt(f float64) (int, bool) {
	t := math.Trunc(f)
	if math.IsNaN(t) || t < float64(math.MinInt) || t >= float64(math.MaxInt) {
		return 0, false
	}
	return int(t), true
}
