package config

// definitionSchema is the JSON schema every pwgen.yaml must satisfy.
const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "version": { "type": "integer" },
    "backend": { "type": "string", "minLength": 1 },
    "arena": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "pages": { "type": "integer", "minimum": 1, "maximum": 4096 }
      }
    },
    "wordlists": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "diceware": { "type": "string" },
        "skey": { "type": "string" }
      }
    },
    "metrics": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "textfile": { "type": "string" }
      }
    }
  }
}`
