package intake

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"credit-intake-client/internal/models"
)

// draftSchema encodes every local constraint on a credit application
// draft. Validation runs before any network call; a draft violating any
// constraint never reaches the decision service.
const draftSchema = `{
	"$schema": "http://json-schema.org/draft-04/schema#",
	"type": "object",
	"required": [
		"nombre", "apellido", "email", "fecha_nacimiento",
		"monto_solicitado", "ingreso_mensual", "score_crediticio",
		"plazo_meses", "sucursal_id"
	],
	"properties": {
		"nombre":           {"type": "string", "minLength": 1, "maxLength": 100},
		"apellido":         {"type": "string", "minLength": 1, "maxLength": 100},
		"email":            {"type": "string", "format": "email", "minLength": 3},
		"telefono":         {"type": "string", "maxLength": 20},
		"fecha_nacimiento": {"type": "string", "minLength": 1},
		"monto_solicitado": {"type": "number", "minimum": 1000},
		"ingreso_mensual":  {"type": "number", "minimum": 0, "exclusiveMinimum": true},
		"score_crediticio": {"type": "integer", "minimum": 300, "maximum": 850},
		"plazo_meses":      {"enum": [12, 24, 36, 48, 60]},
		"sucursal_id":      {"type": "integer", "minimum": 1}
	}
}`

var compiledDraftSchema = func() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(draftSchema))
	if err != nil {
		panic("intake: invalid draft schema: " + err.Error())
	}
	return s
}()

// fieldOrder fixes the reporting order of violations so the first reported
// constraint is deterministic.
var fieldOrder = map[string]int{
	"nombre":           0,
	"apellido":         1,
	"email":            2,
	"telefono":         3,
	"fecha_nacimiento": 4,
	"monto_solicitado": 5,
	"ingreso_mensual":  6,
	"score_crediticio": 7,
	"plazo_meses":      8,
	"sucursal_id":      9,
}

// FieldViolation is one violated constraint of one draft field.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidateDraft is a pure function from a draft to the full set of
// field-level violations. An empty result means the draft may be
// submitted.
func ValidateDraft(draft models.ApplicationDraft) []FieldViolation {
	doc, err := json.Marshal(draft)
	if err != nil {
		return []FieldViolation{{Field: "draft", Reason: "draft is not serializable"}}
	}

	result, err := compiledDraftSchema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return []FieldViolation{{Field: "draft", Reason: err.Error()}}
	}

	var violations []FieldViolation
	seen := map[string]bool{}
	for _, resErr := range result.Errors() {
		field := resErr.Field()
		if resErr.Type() == "required" {
			if prop, ok := resErr.Details()["property"].(string); ok {
				field = prop
			}
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		violations = append(violations, FieldViolation{
			Field:  field,
			Reason: resErr.Description(),
		})
	}

	// Constraints the schema cannot express.
	if draft.FechaNacimiento != "" && !seen["fecha_nacimiento"] {
		if _, err := time.Parse("2006-01-02", draft.FechaNacimiento); err != nil {
			violations = append(violations, FieldViolation{
				Field:  "fecha_nacimiento",
				Reason: "must be a date in YYYY-MM-DD format",
			})
		}
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return fieldOrder[violations[i].Field] < fieldOrder[violations[j].Field]
	})
	return violations
}
