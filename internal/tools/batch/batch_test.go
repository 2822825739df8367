package batch

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		param   interface{}
		want    []string
		wantErr bool
	}{
		{"single string", "id-1", []string{"id-1"}, false},
		{"array", []interface{}{"id-1", "id-2"}, []string{"id-1", "id-2"}, false},
		{"nil", nil, nil, true},
		{"empty string", "", nil, true},
		{"empty array", []interface{}{}, nil, true},
		{"array with non-string", []interface{}{"id-1", 5}, nil, true},
		{"array with empty string", []interface{}{"id-1", ""}, nil, true},
		{"wrong type", 42, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.param, "email_ids")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStringOrArray() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseStringOrArray() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseStringOrArray()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestProcessBatch(t *testing.T) {
	results := ProcessBatch([]string{"a", "b", "c"}, func(id string) (string, error) {
		if id == "b" {
			return "", errors.New("not found")
		}
		return "ok:" + id, nil
	})

	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Status != "success" || results[0].Result != "ok:a" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Status != "error" || results[1].Error != "not found" {
		t.Errorf("results[1] = %+v", results[1])
	}
}

func TestFormatResults(t *testing.T) {
	results := []Result{
		{ID: "a", Status: "success", Result: "done"},
		{ID: "b", Status: "error", Error: "boom"},
	}

	var br BatchResult
	if err := json.Unmarshal([]byte(FormatResults(results)), &br); err != nil {
		t.Fatalf("FormatResults() produced invalid JSON: %v", err)
	}
	if br.Total != 2 || br.Successful != 1 || br.Failed != 1 {
		t.Errorf("BatchResult = %+v", br)
	}
}

func TestAllFailed(t *testing.T) {
	if AllFailed(nil) {
		t.Error("empty batch should not count as all failed")
	}
	if AllFailed([]Result{{Status: "success"}, {Status: "error"}}) {
		t.Error("mixed batch should not count as all failed")
	}
	if !AllFailed([]Result{{Status: "error"}, {Status: "error"}}) {
		t.Error("all-error batch should count as all failed")
	}
}
