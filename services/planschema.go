package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// planSchemaJSON is the shape check applied to imported plans before the
// core accepts them: a non-empty schedule of weeks, each with a day list.
// Anything beyond shape (date math, key derivation) is the core's job.
const planSchemaJSON = `{
  "type": "object",
  "required": ["schedule"],
  "properties": {
    "title": {"type": "string"},
    "startDate": {"type": "string"},
    "schedule": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["week", "days"],
        "properties": {
          "week": {"type": "integer", "minimum": 1},
          "topic": {"type": "string"},
          "days": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["day"],
              "properties": {
                "day": {"type": "string"},
                "description": {"type": "string"},
                "activities": {"type": "array", "items": {"type": "string"}},
                "patterns": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["name"],
                    "properties": {
                      "name": {"type": "string"},
                      "problems": {"type": "array", "items": {"type": "string"}}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

var (
	planSchema     *jsonschema.Schema
	planSchemaOnce sync.Once
)

func compiledPlanSchema() *jsonschema.Schema {
	planSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("plan.schema.json", strings.NewReader(planSchemaJSON)); err != nil {
			panic(fmt.Sprintf("add plan schema resource: %v", err))
		}
		planSchema = compiler.MustCompile("plan.schema.json")
	})
	return planSchema
}

// ValidatePlanJSON shape-checks a raw plan import. Returns nil when the
// document can safely be decoded into model.Plan and handed to the core.
func ValidatePlanJSON(raw []byte) error {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiledPlanSchema().Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("plan does not match expected shape: %s", ve.Message)
		}
		return err
	}
	return nil
}
