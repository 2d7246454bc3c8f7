// Package dataset holds labelled input/output tables used to score circuits.
package dataset

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("dataset not found")

type Row struct {
	Inputs  []float64 `json:"inputs" yaml:"inputs" validate:"required"`
	Outputs []float64 `json:"outputs" yaml:"outputs" validate:"required"`
}

type Dataset struct {
	ID            string   `json:"id" yaml:"id" validate:"required"`
	Name          string   `json:"name" yaml:"name" validate:"required"`
	ReadOnly      bool     `json:"read_only" yaml:"read_only"`
	InputColumns  []string `json:"input_columns" yaml:"input_columns" validate:"min=1,dive,required"`
	OutputColumns []string `json:"output_columns" yaml:"output_columns" validate:"min=1,dive,required"`
	Rows          []Row    `json:"rows" yaml:"rows" validate:"min=1,dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateRowShape, Dataset{})
	return v
}

func validateRowShape(sl validator.StructLevel) {
	d := sl.Current().Interface().(Dataset)
	for i, row := range d.Rows {
		if len(row.Inputs) != len(d.InputColumns) {
			sl.ReportError(row.Inputs, fmt.Sprintf("Rows[%d].Inputs", i), "Inputs", "columns", fmt.Sprint(len(d.InputColumns)))
		}
		if len(row.Outputs) != len(d.OutputColumns) {
			sl.ReportError(row.Outputs, fmt.Sprintf("Rows[%d].Outputs", i), "Outputs", "columns", fmt.Sprint(len(d.OutputColumns)))
		}
	}
}

// Validate checks required fields and that every row matches the column
// counts.
func (d Dataset) Validate() error {
	if err := validate.Struct(d); err != nil {
		return formatValidationError(d.ID, err)
	}
	return nil
}

func formatValidationError(id string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entries", e.Field(), e.Param()))
		case "columns":
			msgs = append(msgs, fmt.Sprintf("%s must have %s values", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return errors.Errorf("dataset %q: %s", id, strings.Join(msgs, "; "))
}

// Clone returns a deep copy.
func (d Dataset) Clone() Dataset {
	out := d
	out.InputColumns = append([]string(nil), d.InputColumns...)
	out.OutputColumns = append([]string(nil), d.OutputColumns...)
	out.Rows = make([]Row, len(d.Rows))
	for i, row := range d.Rows {
		out.Rows[i] = Row{
			Inputs:  append([]float64(nil), row.Inputs...),
			Outputs: append([]float64(nil), row.Outputs...),
		}
	}
	return out
}
