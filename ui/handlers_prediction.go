package ui

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"heartdash/domain/core"
	"heartdash/domain/patient"
	"heartdash/domain/payload"
	"heartdash/domain/prediction"

	"github.com/gin-gonic/gin"
)

type fieldKind string

const (
	kindNumber   fieldKind = "number"
	kindText     fieldKind = "text"
	kindSelect   fieldKind = "select"
	kindCheckbox fieldKind = "checkbox"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

// formField is one input of the prediction form as the template draws it
type formField struct {
	Name    string
	Label   string
	Kind    fieldKind
	Step    string
	Value   string
	Checked bool
	Options []option
}

// predictionResult is what the page shows below the form after a submission
type predictionResult struct {
	Label  string
	Status int
	Body   string
	Error  string
}

var fieldLabels = map[string]string{
	payload.FieldID:       "ID",
	payload.FieldAge:      "Age",
	payload.FieldSex:      "Sex",
	payload.FieldDataset:  "Dataset",
	payload.FieldCP:       "CP",
	payload.FieldTrestbps: "Trestbps",
	payload.FieldChol:     "Chol",
	payload.FieldFbs:      "Fbs",
	payload.FieldRestECG:  "Restecg",
	payload.FieldThalch:   "Thalch",
	payload.FieldExang:    "Exang",
	payload.FieldOldpeak:  "Oldpeak",
}

// buildFormFields lays out the form in field order with the given values.
// The null-tolerant layout offers an empty choice on every select.
func buildFormFields(mode payload.Mode, values url.Values) []formField {
	fields := make([]formField, 0, len(payload.Fields))
	for _, name := range payload.Fields {
		f := formField{Name: name, Label: fieldLabels[name], Value: values.Get(name)}
		switch name {
		case payload.FieldID, payload.FieldAge:
			f.Kind, f.Step = kindNumber, "1"
		case payload.FieldDataset:
			f.Kind = kindText
		case payload.FieldFbs, payload.FieldExang:
			f.Kind = kindCheckbox
			f.Checked, _ = checkbox(values, name)
		case payload.FieldSex:
			f.Kind = kindSelect
			for _, sx := range []patient.Sex{patient.SexFemale, patient.SexMale} {
				f.Options = append(f.Options, option{Value: strconv.Itoa(int(sx)), Label: sx.Label()})
			}
		case payload.FieldCP:
			f.Kind = kindSelect
			for _, cp := range patient.ChestPainTypes {
				v := strconv.Itoa(int(cp))
				f.Options = append(f.Options, option{Value: v, Label: v})
			}
		case payload.FieldRestECG:
			f.Kind = kindSelect
			for _, r := range patient.RestECGResults {
				f.Options = append(f.Options, option{Value: string(r), Label: string(r)})
			}
		default:
			f.Kind, f.Step = kindNumber, "any"
		}

		if f.Kind == kindSelect {
			if mode == payload.ModeNullTolerant {
				f.Options = append([]option{{Value: "", Label: "Sélectionnez"}}, f.Options...)
			}
			for i := range f.Options {
				f.Options[i].Selected = f.Options[i].Value == f.Value
			}
		}
		fields = append(fields, f)
	}
	return fields
}

func (s *Server) predictionPage(values url.Values) gin.H {
	page, _ := Dispatch("prediction")
	data := s.basePage(page)
	data["Mode"] = string(s.mode)
	data["Strict"] = s.mode == payload.ModeStrict
	data["Endpoint"] = s.endpoint
	data["Fields"] = buildFormFields(s.mode, values)
	data["InvalidField"] = ""
	return data
}

func (s *Server) showPredictionForm(c *gin.Context, _ Page) {
	s.renderTemplate(c, http.StatusOK, "prediction.html", s.predictionPage(defaultFormValues(s.mode)))
}

// handlePredict decodes the form, sends one prediction request and renders
// the outcome with the submitted values kept in the form
func (s *Server) handlePredict(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		data := s.predictionPage(defaultFormValues(s.mode))
		data["Result"] = predictionResult{Error: "Formulaire illisible : " + err.Error()}
		s.renderTemplate(c, http.StatusBadRequest, "prediction.html", data)
		return
	}
	values := c.Request.PostForm
	data := s.predictionPage(values)

	input, err := DecodeForm(values)
	if err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			data["InvalidField"] = fe.Field
		}
		data["Result"] = predictionResult{Error: err.Error()}
		s.renderTemplate(c, http.StatusBadRequest, "prediction.html", data)
		return
	}

	p := payload.Build(input, s.mode)
	submission := core.NewSubmissionID()
	s.logger.Debug("Submission %s (%s): sending %d fields %v", submission.Short(), submission.String(), len(p), p.Keys())

	label, err := s.predictor.Predict(c.Request.Context(), p)
	if err != nil {
		s.logger.Warn("Submission %s: %v", submission.Short(), err)
		data["Result"] = requestFailure(err)
		s.renderTemplate(c, http.StatusBadGateway, "prediction.html", data)
		return
	}

	s.logger.Info("Submission %s: prediction %q", submission.Short(), label)
	data["Result"] = predictionResult{Label: displayLabel(label)}
	s.renderTemplate(c, http.StatusOK, "prediction.html", data)
}

func requestFailure(err error) predictionResult {
	var reqErr *prediction.RequestError
	if errors.As(err, &reqErr) && !reqErr.IsTransport() {
		return predictionResult{Status: reqErr.StatusCode, Body: reqErr.Body}
	}
	return predictionResult{Error: err.Error()}
}

func displayLabel(l prediction.Label) string {
	if l.IsEmpty() {
		return "aucune"
	}
	return l.String()
}
