package api

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/stageorder/internal/domain/model"
)

const uniqueBandIDsTag = "unique_band_ids"

// ValidationError lists the offending fields by JSON path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match ErrBadRequest.
func (e *ValidationError) Unwrap() error { return ErrBadRequest }

// Validator checks request bodies before they reach the scheduler.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds a validator that reports JSON field names and rejects
// lineups with duplicate band ids.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(lineupStructValidation, model.Lineup{})
	return &Validator{v: v}
}

// Struct validates s and returns a *ValidationError on failure.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldPath(fe.Namespace())] = describe(fe)
	}
	return out
}

// fieldPath drops the Go type name that leads a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " item(s)"
	case uniqueBandIDsTag:
		return "has duplicate band id " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func lineupStructValidation(sl validator.StructLevel) {
	l, ok := sl.Current().Interface().(model.Lineup)
	if !ok {
		return
	}
	seen := make(map[string]struct{}, len(l.Bands))
	for _, b := range l.Bands {
		if b == nil || b.ID == "" {
			continue
		}
		if _, dup := seen[b.ID]; dup {
			sl.ReportError(l.Bands, "bands", "Bands", uniqueBandIDsTag, b.ID)
			return
		}
		seen[b.ID] = struct{}{}
	}
}
