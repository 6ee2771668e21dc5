package dialogue

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const recordSchemaURL = "dialogue-record.json"

// recordSchemaJSON describes one element of the top-level "data" array.
const recordSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["header", "body"],
  "properties": {
    "header": {
      "type": "object",
      "required": ["dialogueInfo"],
      "properties": {
        "dialogueInfo": {
          "type": "object",
          "required": ["dialogueID", "topic"],
          "properties": {
            "dialogueID": {"type": "string", "minLength": 1},
            "topic": {"type": "string"}
          }
        }
      }
    },
    "body": {
      "type": "object",
      "required": ["dialogue"],
      "properties": {
        "dialogue": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["participantID", "utterance"],
            "properties": {
              "participantID": {"type": "string"},
              "utterance": {"type": "string"}
            }
          }
        },
        "summary": {"type": ["string", "null"]}
      }
    }
  }
}`

var recordSchema = mustCompileRecordSchema()

func mustCompileRecordSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(recordSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("dialogue: parse record schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(recordSchemaURL, doc); err != nil {
		panic(fmt.Sprintf("dialogue: add record schema: %v", err))
	}
	sch, err := c.Compile(recordSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("dialogue: compile record schema: %v", err))
	}
	return sch
}

// validateRecord checks one raw record against the record schema.
func validateRecord(raw []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return recordSchema.Validate(inst)
}
