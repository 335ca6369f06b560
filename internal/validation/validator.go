// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/cinematch/internal/models"
)

// CodeValidation is the API error code for rejected input.
const CodeValidation = "VALIDATION_ERROR"

// FieldError is one rejected field, named as the client sent it.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

// RequestValidationError is every field failure of one request.
type RequestValidationError struct {
	Fields []FieldError
}

func (e *RequestValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// ToAPIError builds the response payload. A single failure reports its
// field inline; several are listed under details.fields.
func (e *RequestValidationError) ToAPIError() *models.APIError {
	if len(e.Fields) == 0 {
		return &models.APIError{Code: CodeValidation, Message: "Validation failed"}
	}
	if len(e.Fields) == 1 {
		f := e.Fields[0]
		return &models.APIError{
			Code:    CodeValidation,
			Message: f.Message,
			Details: map[string]interface{}{"field": f.Field, "tag": f.Tag, "value": f.Value},
		}
	}

	list := make([]map[string]interface{}, 0, len(e.Fields))
	for _, f := range e.Fields {
		list = append(list, map[string]interface{}{"field": f.Field, "tag": f.Tag, "message": f.Message})
	}
	return &models.APIError{
		Code:    CodeValidation,
		Message: e.Error(),
		Details: map[string]interface{}{"fields": list},
	}
}

// GetValidator returns the process-wide validator.
var GetValidator = sync.OnceValue(newValidator)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(clientFieldName)
	if err := v.RegisterValidation("genres", genreList); err != nil {
		panic(fmt.Sprintf("validation: register genres: %v", err))
	}
	return v
}

// clientFieldName uses the json name, then the query name, then the Go name.
func clientFieldName(fld reflect.StructField) string {
	for _, key := range [...]string{"json", "query"} {
		switch name, _, _ := strings.Cut(fld.Tag.Get(key), ","); name {
		case "":
			continue
		case "-":
			return ""
		default:
			return name
		}
	}
	return fld.Name
}

// genreList accepts "" or pipe-separated genres with no blank segment.
func genreList(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	for g := range strings.SplitSeq(s, "|") {
		if strings.TrimSpace(g) == "" {
			return false
		}
	}
	return true
}

// ValidateStruct checks s against its validate tags. It returns nil on
// success so callers can compare against nil without a typed-nil trap.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := &RequestValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	name, param := fe.Field(), fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "genres":
		return name + " must be a pipe-separated list of genres"
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", name, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", name, param, unit)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, param)
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}
