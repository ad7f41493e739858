// Package payload turns a prediction form submission into the key/value set
// sent to the prediction service.
package payload

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"heartdash/domain/patient"
)

// Mode selects how unset optional fields are treated
type Mode string

const (
	// ModeStrict emits every field, filling unset ones with the strict form defaults
	ModeStrict Mode = "strict"
	// ModeNullTolerant emits only the fields the user actually set
	ModeNullTolerant Mode = "null-tolerant"
)

// ParseMode parses a mode name; the empty string selects ModeNullTolerant
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeNullTolerant:
		return ModeNullTolerant, nil
	case ModeStrict:
		return ModeStrict, nil
	}
	return "", fmt.Errorf("unknown payload mode %q", s)
}

// Field names as the prediction service expects them
const (
	FieldID       = "id"
	FieldAge      = "age"
	FieldSex      = "sex"
	FieldDataset  = "dataset"
	FieldCP       = "cp"
	FieldTrestbps = "trestbps"
	FieldChol     = "chol"
	FieldFbs      = "fbs"
	FieldRestECG  = "restecg"
	FieldThalch   = "thalch"
	FieldExang    = "exang"
	FieldOldpeak  = "oldpeak"
)

// Fields lists every form field in form order
var Fields = []string{
	FieldID, FieldAge, FieldSex, FieldDataset, FieldCP, FieldTrestbps,
	FieldChol, FieldFbs, FieldRestECG, FieldThalch, FieldExang, FieldOldpeak,
}

// Strict form defaults, i.e. what the strict form holds before the user edits it.
const (
	DefaultSex     = patient.SexFemale
	DefaultCP      = patient.ChestPain(1)
	DefaultRestECG = patient.RestECGNormal
)

// Payload maps field names to values. Integers are int64 or int, decimals
// float64, text string and flags bool.
type Payload map[string]any

// Build produces the payload for one submission. It is pure: the same input
// and mode always give the same payload.
func Build(in patient.FormInput, mode Mode) Payload {
	p := Payload{
		FieldID:    in.ID,
		FieldFbs:   in.Fbs,
		FieldExang: in.Exang,
	}

	if mode == ModeStrict {
		p[FieldAge] = valueOr(in.Age, int64(0))
		p[FieldSex] = int(valueOr(in.Sex, DefaultSex))
		p[FieldDataset] = valueOr(in.Dataset, "")
		p[FieldCP] = int(valueOr(in.CP, DefaultCP))
		p[FieldTrestbps] = valueOr(in.Trestbps, 0.0)
		p[FieldChol] = valueOr(in.Chol, 0.0)
		p[FieldRestECG] = string(valueOr(in.RestECG, DefaultRestECG))
		p[FieldThalch] = valueOr(in.Thalch, 0.0)
		p[FieldOldpeak] = valueOr(in.Oldpeak, 0.0)
		return p
	}

	if in.Age != nil {
		p[FieldAge] = *in.Age
	}
	if in.Sex != nil {
		p[FieldSex] = int(*in.Sex)
	}
	if in.Dataset != nil && *in.Dataset != "" {
		p[FieldDataset] = *in.Dataset
	}
	if in.CP != nil {
		p[FieldCP] = int(*in.CP)
	}
	if in.Trestbps != nil {
		p[FieldTrestbps] = *in.Trestbps
	}
	if in.Chol != nil {
		p[FieldChol] = *in.Chol
	}
	if in.RestECG != nil {
		p[FieldRestECG] = string(*in.RestECG)
	}
	if in.Thalch != nil {
		p[FieldThalch] = *in.Thalch
	}
	if in.Oldpeak != nil {
		p[FieldOldpeak] = *in.Oldpeak
	}
	return p
}

// Query encodes the payload as query-string parameters
func (p Payload) Query() url.Values {
	q := make(url.Values, len(p))
	for k, v := range p {
		q.Set(k, formatValue(v))
	}
	return q
}

// Keys returns the payload's field names in form order
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, f := range Fields {
		if _, ok := p[f]; ok {
			keys = append(keys, f)
		}
	}
	return keys
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
