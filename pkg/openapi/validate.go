package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-repoforms/pkg/validation"
)

// FormLevelKey collects errors that do not point into the payload.
const FormLevelKey = "_form"

// ValidatePayload checks a JSON payload against schema. Schema violations
// are returned as validation.FieldErrors keyed by dotted payload path
// ("fieldsData.title.value"); malformed JSON is returned as is.
func ValidatePayload(schema *openapi3.Schema, payload []byte) error {
	if schema == nil {
		return errors.New("openapi: schema is required")
	}
	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return fmt.Errorf("openapi: decode payload: %w", err)
	}
	err := schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	fieldErrs := validation.FieldErrors{}
	collectSchemaErrors(err, fieldErrs)
	if len(fieldErrs) == 0 {
		return fmt.Errorf("openapi: validate payload: %w", err)
	}
	return fieldErrs
}

func collectSchemaErrors(err error, out validation.FieldErrors) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, e := range multi {
			collectSchemaErrors(e, out)
		}
		return
	}
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		out[FormLevelKey] = append(out[FormLevelKey], err.Error())
		return
	}
	key := strings.Join(schemaErr.JSONPointer(), ".")
	if key == "" {
		key = FormLevelKey
	}
	message := schemaErr.Reason
	if message == "" {
		message = schemaErr.Error()
	}
	out[key] = append(out[key], message)
}
