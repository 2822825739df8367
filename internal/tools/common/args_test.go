package common

import (
	"testing"
)

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		want    string
		wantErr bool
	}{
		{"present", map[string]interface{}{"user_id": "alice@example.com"}, "alice@example.com", false},
		{"missing", map[string]interface{}{}, "", true},
		{"empty", map[string]interface{}{"user_id": ""}, "", true},
		{"wrong type", map[string]interface{}{"user_id": 42}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetUserID(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetUserID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GetUserID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetInt(t *testing.T) {
	args := map[string]interface{}{
		"float":  float64(25),
		"int":    7,
		"string": "nope",
	}

	if got := GetInt(args, "float", 10); got != 25 {
		t.Errorf("GetInt(float) = %d", got)
	}
	if got := GetInt(args, "int", 10); got != 7 {
		t.Errorf("GetInt(int) = %d", got)
	}
	if got := GetInt(args, "string", 10); got != 10 {
		t.Errorf("GetInt(string) = %d, want default", got)
	}
	if got := GetInt(args, "absent", 10); got != 10 {
		t.Errorf("GetInt(absent) = %d, want default", got)
	}
}

func TestGetBool(t *testing.T) {
	args := map[string]interface{}{"flag": true}
	if !GetBool(args, "flag", false) {
		t.Error("GetBool(flag) = false")
	}
	if !GetBool(args, "absent", true) {
		t.Error("GetBool(absent) should return default")
	}
}

func TestGetString(t *testing.T) {
	args := map[string]interface{}{"q": "in:inbox", "empty": ""}
	if got := GetString(args, "q", "def"); got != "in:inbox" {
		t.Errorf("GetString(q) = %q", got)
	}
	if got := GetString(args, "empty", "def"); got != "def" {
		t.Errorf("GetString(empty) = %q, want default", got)
	}
}

func TestGetStringSlice(t *testing.T) {
	args := map[string]interface{}{
		"cc":    []interface{}{"a@example.com", "b@example.com"},
		"mixed": []interface{}{"a@example.com", 5, ""},
		"str":   "not-an-array",
	}

	if got := GetStringSlice(args, "cc"); len(got) != 2 {
		t.Errorf("GetStringSlice(cc) = %v", got)
	}
	if got := GetStringSlice(args, "mixed"); len(got) != 1 || got[0] != "a@example.com" {
		t.Errorf("GetStringSlice(mixed) = %v", got)
	}
	if got := GetStringSlice(args, "str"); got != nil {
		t.Errorf("GetStringSlice(str) = %v, want nil", got)
	}
	if got := GetStringSlice(args, "absent"); got != nil {
		t.Errorf("GetStringSlice(absent) = %v, want nil", got)
	}
}
