package websocket_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/KDE/skladnik/game/service"
	"github.com/KDE/skladnik/transport/websocket"
)

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", name))
	if err != nil {
		t.Fatalf("Failed to compile %s: %v", name, err)
	}
	return s
}

func validateJSON(t *testing.T, s *jsonschema.Schema, raw string) error {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("Failed to unmarshal sample: %v", err)
	}
	return s.Validate(v)
}

func TestCommandSchema(t *testing.T) {
	s := compileSchema(t, "command.schema.json")

	valid := []string{
		`{"action":"move","direction":"up"}`,
		`{"action":"move","direction":"right","mode":"pushrun"}`,
		`{"action":"walk","x":3,"y":2}`,
		`{"action":"undo"}`,
		`{"action":"redo"}`,
		`{"action":"restart"}`,
		`{"action":"state"}`,
	}
	for _, sample := range valid {
		if err := validateJSON(t, s, sample); err != nil {
			t.Errorf("Expected %s to validate, got: %v", sample, err)
		}
	}

	invalid := []string{
		`{}`,
		`{"action":"teleport"}`,
		`{"action":"move"}`,
		`{"action":"move","direction":"diagonal"}`,
		`{"action":"move","direction":"up","mode":"sprint"}`,
		`{"action":"walk","x":3}`,
		`{"action":"walk","x":-1,"y":2}`,
		`{"action":"undo","extra":true}`,
	}
	for _, sample := range invalid {
		if err := validateJSON(t, s, sample); err == nil {
			t.Errorf("Expected %s to be rejected", sample)
		}
	}
}

func TestMessageSchema(t *testing.T) {
	s := compileSchema(t, "message.schema.json")

	valid := []string{
		`{"session_id":"ab12cd34","event":"error","data":"session not found"}`,
		`{"session_id":"ab12cd34","event":"rejected","data":"blocked by a wall"}`,
	}
	for _, sample := range valid {
		if err := validateJSON(t, s, sample); err != nil {
			t.Errorf("Expected %s to validate, got: %v", sample, err)
		}
	}

	invalid := []string{
		`{"event":"state_update"}`,
		`{"session_id":""}`,
		`{"session_id":"ab12cd34","event":"shutdown"}`,
		`{"session_id":"ab12cd34","game_state":{"collection":"starter"}}`,
	}
	for _, sample := range invalid {
		if err := validateJSON(t, s, sample); err == nil {
			t.Errorf("Expected %s to be rejected", sample)
		}
	}
}

// TestMessageSchemaMatchesWireFormat marshals a real state update and runs it
// through the schema, so the schema cannot drift from the Go types.
func TestMessageSchemaMatchesWireFormat(t *testing.T) {
	s := compileSchema(t, "message.schema.json")

	msg := websocket.Message{
		SessionID: "ab12cd34",
		Event:     "state_update",
		GameState: &service.GameState{
			Collection:     "starter",
			CollectionName: "Starter",
			Level:          1,
			LevelCount:     6,
			Board:          []string{"#####", "#@$.#", "#####"},
			Width:          5,
			Height:         3,
			TokenX:         1,
			TokenY:         1,
			ObjectsLeft:    1,
			Moves:          2,
			Pushes:         1,
			CanUndo:        true,
		},
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Failed to marshal message: %v", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if err := s.Validate(v); err != nil {
		t.Errorf("Expected the marshaled message to validate, got: %v", err)
	}
}
