package patient

import (
	"fmt"
	"strings"
)

// Sex is the patient's sex as encoded by the prediction service
type Sex int

const (
	SexFemale Sex = 0
	SexMale   Sex = 1
)

// Label returns the French display label used by the form
func (s Sex) Label() string {
	if s == SexMale {
		return "Homme"
	}
	return "Femme"
}

// ParseSex parses the form encoding ("0" or "1")
func ParseSex(s string) (Sex, error) {
	switch strings.TrimSpace(s) {
	case "0":
		return SexFemale, nil
	case "1":
		return SexMale, nil
	}
	return 0, fmt.Errorf("unknown sex %q", s)
}

// ChestPain is the chest-pain type (cp), 1 to 4
type ChestPain int

// ChestPainTypes lists the accepted cp values in form order
var ChestPainTypes = []ChestPain{1, 2, 3, 4}

// Valid reports whether cp is one of the four known types
func (cp ChestPain) Valid() bool {
	return cp >= 1 && cp <= 4
}

// RestECG is the resting electrocardiogram result
type RestECG string

const (
	RestECGNormal   RestECG = "normal"
	RestECGAbnormal RestECG = "abnormal"
)

// RestECGResults lists the accepted restecg values in form order
var RestECGResults = []RestECG{RestECGNormal, RestECGAbnormal}

// ParseRestECG parses a restecg form value
func ParseRestECG(s string) (RestECG, error) {
	switch RestECG(strings.TrimSpace(s)) {
	case RestECGNormal:
		return RestECGNormal, nil
	case RestECGAbnormal:
		return RestECGAbnormal, nil
	}
	return "", fmt.Errorf("unknown restecg %q", s)
}

// FormInput is one submission of the prediction form.
//
// Optional fields are nil when the user left them blank. A non-nil pointer to
// zero is a real measurement of zero.
type FormInput struct {
	ID       int64
	Age      *int64
	Sex      *Sex
	Dataset  *string
	CP       *ChestPain
	Trestbps *float64
	Chol     *float64
	Fbs      bool
	RestECG  *RestECG
	Thalch   *float64
	Exang    bool
	Oldpeak  *float64
}

// SentinelInput is the legacy record shape where 0, "" and a nil enum mean
// "not entered".
type SentinelInput struct {
	ID       int64
	Age      int64
	Sex      *Sex
	Dataset  string
	CP       *ChestPain
	Trestbps float64
	Chol     float64
	Fbs      bool
	RestECG  *RestECG
	Thalch   float64
	Exang    bool
	Oldpeak  float64
}

// FromSentinels converts a sentinel record into a FormInput. Zero numerics and
// the empty dataset become unset, so a measured zero cannot survive the
// conversion.
func FromSentinels(in SentinelInput) FormInput {
	out := FormInput{
		ID:      in.ID,
		Sex:     in.Sex,
		CP:      in.CP,
		Fbs:     in.Fbs,
		RestECG: in.RestECG,
		Exang:   in.Exang,
	}
	if in.Age != 0 {
		out.Age = Int(in.Age)
	}
	if in.Dataset != "" {
		out.Dataset = String(in.Dataset)
	}
	if in.Trestbps != 0 {
		out.Trestbps = Float(in.Trestbps)
	}
	if in.Chol != 0 {
		out.Chol = Float(in.Chol)
	}
	if in.Thalch != 0 {
		out.Thalch = Float(in.Thalch)
	}
	if in.Oldpeak != 0 {
		out.Oldpeak = Float(in.Oldpeak)
	}
	return out
}

// Pointer helpers for building inputs in code
func Int(v int64) *int64                 { return &v }
func Float(v float64) *float64           { return &v }
func String(v string) *string            { return &v }
func SexOf(v Sex) *Sex                   { return &v }
func ChestPainOf(v ChestPain) *ChestPain { return &v }
func RestECGOf(v RestECG) *RestECG       { return &v }
