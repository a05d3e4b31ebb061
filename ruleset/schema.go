package ruleset

import "github.com/santhosh-tekuri/jsonschema/v5"

// documentSchemaJSON is the JSON Schema every rule set document must match
// before typed decoding.
const documentSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["rules"],
  "properties": {
    "name": {"type": "string"},
    "rules": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["take", "split"],
        "properties": {
          "take": {
            "oneOf": [
              {"enum": ["any", "place"]},
              {
                "type": "object",
                "required": ["exact"],
                "properties": {
                  "exact": {"type": "integer", "minimum": 1}
                },
                "additionalProperties": false
              }
            ]
          },
          "split": {"enum": ["never", "optional", "always"]}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

var documentSchema = jsonschema.MustCompileString("ruleset.schema.json", documentSchemaJSON)
