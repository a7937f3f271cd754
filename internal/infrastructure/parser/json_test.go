package parser

import "testing"

func TestParseJSON(t *testing.T) {
	data := []byte(`[
		{
			"nome": "Mario Rossi",
			"email": "mario.rossi@proxima.it",
			"nomeContenuto": "Go Basics",
			"percentualeCompletamento": "45%",
			"oreVisione": "02:30:00"
		},
		{
			"nome": "Senza Email",
			"nomeContenuto": "SQL Basics"
		}
	]`)

	result, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(result.Records) != 1 || result.Invalid != 1 {
		t.Fatalf("records=%d invalid=%d, want 1/1", len(result.Records), result.Invalid)
	}
	if result.Records[0].ContentName != "Go Basics" {
		t.Errorf("content = %q", result.Records[0].ContentName)
	}
}

func TestParseJSONInvalidPayload(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"not": "an array"}`)); err == nil {
		t.Fatal("expected error for non-array payload")
	}
}
