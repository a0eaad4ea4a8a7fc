package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAccepts(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		want     string
		expected bool
	}{
		{"exact match", "fix.diag/v1", "fix.diag/v1", true},
		{"minor version", "fix.diag/v1.1", "fix.diag/v1", true},
		{"patch version", "fix.diag/v1.0.1", "fix.diag/v1", true},
		{"major mismatch", "fix.diag/v2", "fix.diag/v1", false},
		{"different schema", "fix.test/v1", "fix.diag/v1", false},
		{"missing version", "fix.diag", "fix.diag/v1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Accepts(tt.got, tt.want); got != tt.expected {
				t.Errorf("Accepts(%q, %q) = %v, want %v", tt.got, tt.want, got, tt.expected)
			}
		})
	}
}

func TestMarshalDeterministic(t *testing.T) {
	data := map[string]interface{}{
		"zebra":  "last",
		"alpha":  "first",
		"middle": "middle",
	}

	result, err := MarshalDeterministic(data)
	if err != nil {
		t.Fatalf("MarshalDeterministic failed: %v", err)
	}

	expected := `{"alpha":"first","middle":"middle","zebra":"last"}`
	if string(result) != expected {
		t.Errorf("Got %s, want %s", string(result), expected)
	}
}

func TestMarshalDeterministicNested(t *testing.T) {
	data := map[string]interface{}{
		"outer2": map[string]interface{}{
			"inner2": 2,
			"inner1": 1,
		},
		"outer1": "value",
	}

	result, err := MarshalDeterministic(data)
	if err != nil {
		t.Fatalf("MarshalDeterministic failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(result, &parsed); err != nil {
		t.Fatalf("Failed to parse result: %v", err)
	}

	str := string(result)
	if !strings.Contains(str, `"outer1":"value"`) ||
		!strings.Contains(str, `"inner1":1`) ||
		!strings.Contains(str, `"inner2":2`) {
		t.Errorf("Keys not in expected order: %s", str)
	}
}

func TestFormatJSON(t *testing.T) {
	data := []byte(`{"test":"value","number":42}`)

	SetCompactMode(false)
	result, err := FormatJSON(data)
	if err != nil {
		t.Fatalf("FormatJSON failed: %v", err)
	}
	if !strings.Contains(string(result), "\n") {
		t.Error("Expected pretty format with newlines")
	}

	SetCompactMode(true)
	result, err = FormatJSON(data)
	if err != nil {
		t.Fatalf("FormatJSON failed: %v", err)
	}
	if strings.Contains(string(result), "\n") {
		t.Error("Expected compact format without newlines")
	}

	SetCompactMode(false)
}

func TestMustValidate(t *testing.T) {
	data := map[string]interface{}{
		"schema":  "fix.diag/v1",
		"message": "test error",
	}

	if err := MustValidate(DiagV1, data); err != nil {
		t.Errorf("MustValidate failed for valid schema: %v", err)
	}

	data["schema"] = "fix.test/v1"
	if err := MustValidate(DiagV1, data); err == nil {
		t.Error("MustValidate should have failed for mismatched schema")
	}

	delete(data, "schema")
	if err := MustValidate(DiagV1, data); err != nil {
		t.Error("MustValidate should pass when schema field is missing (no-op)")
	}
}
