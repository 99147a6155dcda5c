// Package validation turns untyped request payloads into typed drafts.
//
// Payloads are decoded into the draft structs from the models package and
// checked with the validate tags declared there. The first failing field is
// reported as an *apperror.ValidationError.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/leadgen/lead-extractor-service/internal/apperror"
	"github.com/leadgen/lead-extractor-service/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)
	validate.RegisterCustomTypeFunc(nullableValue,
		models.Nullable[string]{}, models.Nullable[int]{}, models.Nullable[time.Time]{})
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// nullableValue exposes the value of a Nullable field to the tag rules.
// Absent and null fields yield nil, which omitempty skips.
func nullableValue(field reflect.Value) any {
	switch n := field.Interface().(type) {
	case models.Nullable[string]:
		if n.Value != nil {
			return n.Value
		}
	case models.Nullable[int]:
		if n.Value != nil {
			return n.Value
		}
	case models.Nullable[time.Time]:
		if n.Value != nil {
			return n.Value
		}
	}
	return nil
}

// expectations maps validation tags to a human readable expectation.
var expectations = map[string]string{
	"required": "a value",
	"gte":      "a value >= %s",
	"oneof":    "one of [%s]",
}

// ParseLead decodes and validates a new lead payload.
func ParseLead(raw []byte) (models.LeadDraft, error) {
	var draft models.LeadDraft
	if err := decode(raw, &draft); err != nil {
		return models.LeadDraft{}, err
	}
	if err := ValidateLead(draft); err != nil {
		return models.LeadDraft{}, err
	}
	return draft, nil
}

// ValidateLead checks an already typed lead draft, such as one built by the
// ingestion adapter.
func ValidateLead(draft models.LeadDraft) error {
	if err := check(&draft); err != nil {
		return err
	}
	if len(draft.ApolloData) > 0 && !json.Valid(draft.ApolloData) {
		return &apperror.ValidationError{Field: "apolloData", Expected: "valid JSON"}
	}
	return nil
}

// ParseExtraction decodes and validates a new extraction payload.
func ParseExtraction(raw []byte) (models.ExtractionDraft, error) {
	var draft models.ExtractionDraft
	if err := decode(raw, &draft); err != nil {
		return models.ExtractionDraft{}, err
	}
	if err := check(&draft); err != nil {
		return models.ExtractionDraft{}, err
	}
	return draft, nil
}

// ParseExtractionPatch decodes a partial extraction update. Only the fields
// present in the payload are validated. Nullable fields accept null.
func ParseExtractionPatch(raw []byte) (models.ExtractionPatch, error) {
	var patch models.ExtractionPatch
	if err := decodePatch(raw, &patch); err != nil {
		return models.ExtractionPatch{}, err
	}
	if err := check(&patch); err != nil {
		return models.ExtractionPatch{}, err
	}
	return patch, nil
}

// ParseSettingsPatch decodes a partial settings update.
func ParseSettingsPatch(raw []byte) (models.SettingsPatch, error) {
	var patch models.SettingsPatch
	if err := decodePatch(raw, &patch); err != nil {
		return models.SettingsPatch{}, err
	}
	if err := check(&patch); err != nil {
		return models.SettingsPatch{}, err
	}
	return patch, nil
}

func decode(raw []byte, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &apperror.ValidationError{Expected: "a JSON object"}
	}

	if err := json.Unmarshal(trimmed, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &apperror.ValidationError{
				Field:    typeErr.Field,
				Expected: fmt.Sprintf("a value of type %s", typeErr.Type),
			}
		}
		var timeErr *time.ParseError
		if errors.As(err, &timeErr) {
			return &apperror.ValidationError{Expected: "timestamps in RFC 3339 format"}
		}
		return &apperror.ValidationError{Expected: "a JSON object"}
	}
	return nil
}

// decodePatch decodes a partial update and rejects an explicit null on any
// plain pointer field. Those fields can be changed but not cleared.
func decodePatch(raw []byte, dst any) error {
	if err := decode(raw, dst); err != nil {
		return err
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(raw, &present); err != nil {
		return &apperror.ValidationError{Expected: "a JSON object"}
	}

	t := reflect.TypeOf(dst).Elem()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type.Kind() != reflect.Pointer {
			continue
		}
		name := jsonName(f)
		if v, ok := present[name]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return &apperror.ValidationError{Field: name, Expected: "a non-null value"}
		}
	}
	return nil
}

func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}

	first := fieldErrs[0]
	return &apperror.ValidationError{
		Field:    first.Field(),
		Expected: expectation(first),
	}
}

func expectation(fe validator.FieldError) string {
	msg, ok := expectations[fe.Tag()]
	if !ok {
		return fmt.Sprintf("a value satisfying %q", fe.Tag())
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}
