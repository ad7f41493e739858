package ui

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"heartdash/domain/patient"
	"heartdash/domain/payload"
)

var errNegative = errors.New("doit être positif ou nul")

// FieldError reports a form value that could not be decoded
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("champ %s : valeur %q invalide (%v)", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// DecodeForm reads a submitted prediction form. A blank field is left unset;
// an explicit 0 is kept as a measured zero.
func DecodeForm(values url.Values) (patient.FormInput, error) {
	var in patient.FormInput
	var err error

	id, err := optionalInt(values, payload.FieldID)
	if err != nil {
		return in, err
	}
	if id != nil {
		in.ID = *id
	}
	if in.Age, err = optionalInt(values, payload.FieldAge); err != nil {
		return in, err
	}

	if raw := field(values, payload.FieldSex); raw != "" {
		sex, err := patient.ParseSex(raw)
		if err != nil {
			return in, &FieldError{Field: payload.FieldSex, Value: raw, Err: err}
		}
		in.Sex = &sex
	}

	if raw := field(values, payload.FieldDataset); raw != "" {
		in.Dataset = patient.String(raw)
	}

	if raw := field(values, payload.FieldCP); raw != "" {
		n, err := strconv.Atoi(raw)
		cp := patient.ChestPain(n)
		if err != nil || !cp.Valid() {
			return in, &FieldError{Field: payload.FieldCP, Value: raw, Err: errors.New("attendu 1, 2, 3 ou 4")}
		}
		in.CP = &cp
	}

	if in.Trestbps, err = optionalFloat(values, payload.FieldTrestbps); err != nil {
		return in, err
	}
	if in.Chol, err = optionalFloat(values, payload.FieldChol); err != nil {
		return in, err
	}
	if in.Fbs, err = checkbox(values, payload.FieldFbs); err != nil {
		return in, err
	}

	if raw := field(values, payload.FieldRestECG); raw != "" {
		r, err := patient.ParseRestECG(raw)
		if err != nil {
			return in, &FieldError{Field: payload.FieldRestECG, Value: raw, Err: err}
		}
		in.RestECG = &r
	}

	if in.Thalch, err = optionalFloat(values, payload.FieldThalch); err != nil {
		return in, err
	}
	if in.Exang, err = checkbox(values, payload.FieldExang); err != nil {
		return in, err
	}
	if in.Oldpeak, err = optionalFloat(values, payload.FieldOldpeak); err != nil {
		return in, err
	}
	return in, nil
}

// defaultFormValues is what the form shows before the first submission
func defaultFormValues(mode payload.Mode) url.Values {
	v := url.Values{
		payload.FieldID:      {"0"},
		payload.FieldDataset: {"Hungary"},
	}
	if mode == payload.ModeStrict {
		v.Set(payload.FieldAge, "0")
		v.Set(payload.FieldSex, strconv.Itoa(int(payload.DefaultSex)))
		v.Set(payload.FieldCP, strconv.Itoa(int(payload.DefaultCP)))
		v.Set(payload.FieldTrestbps, "0")
		v.Set(payload.FieldChol, "0")
		v.Set(payload.FieldRestECG, string(payload.DefaultRestECG))
		v.Set(payload.FieldThalch, "0")
		v.Set(payload.FieldOldpeak, "0")
	}
	return v
}

func field(values url.Values, name string) string {
	return strings.TrimSpace(values.Get(name))
}

func optionalInt(values url.Values, name string) (*int64, error) {
	raw := field(values, name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &FieldError{Field: name, Value: raw, Err: errors.New("entier attendu")}
	}
	if v < 0 {
		return nil, &FieldError{Field: name, Value: raw, Err: errNegative}
	}
	return &v, nil
}

func optionalFloat(values url.Values, name string) (*float64, error) {
	raw := field(values, name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &FieldError{Field: name, Value: raw, Err: errors.New("nombre attendu")}
	}
	if v < 0 {
		return nil, &FieldError{Field: name, Value: raw, Err: errNegative}
	}
	return &v, nil
}

// checkbox decodes an HTML checkbox; an unchecked box is simply absent
func checkbox(values url.Values, name string) (bool, error) {
	raw := strings.ToLower(field(values, name))
	switch raw {
	case "":
		return false, nil
	case "on":
		return true, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &FieldError{Field: name, Value: raw, Err: errors.New("case à cocher invalide")}
	}
	return b, nil
}
