package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestPrinter_Success_JSON(t *testing.T) {
	buf := new(bytes.Buffer)
	p := NewPrinter(buf, true, false)

	err := p.Success(map[string]any{"project": "myproj", "version": "1.2.0"})
	if err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if result["project"] != "myproj" {
		t.Errorf("project = %v, want myproj", result["project"])
	}
	if result["version"] != "1.2.0" {
		t.Errorf("version = %v, want 1.2.0", result["version"])
	}
}

func TestPrinter_Success_HumanMessage(t *testing.T) {
	buf := new(bytes.Buffer)
	p := NewPrinter(buf, false, false)

	if err := p.Success(map[string]any{"message": "release complete"}); err != nil {
		t.Fatalf("Success() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "release complete" {
		t.Errorf("output = %q, want %q", got, "release complete")
	}
}

func TestPrinter_Error_JSON(t *testing.T) {
	buf := new(bytes.Buffer)
	p := NewPrinter(buf, true, false)

	p.Error(NewConflictError("release directory exists"))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if result["error"] != "release directory exists" {
		t.Errorf("error = %v", result["error"])
	}
	if result["code"] != float64(ExitConflict) {
		t.Errorf("code = %v, want %d", result["code"], ExitConflict)
	}
}

func TestPrinter_Error_HumanToStderr(t *testing.T) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	p := NewPrinter(out, false, false).WithStderr(errOut)

	p.Error(NewSystemError("tar failed"))

	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "tar failed") {
		t.Errorf("stderr = %q, want it to contain the message", errOut.String())
	}
}

func TestPrinter_Warn(t *testing.T) {
	tests := []struct {
		name     string
		jsonMode bool
		want     string
	}{
		{name: "human mode", jsonMode: false, want: "Warning: no extra/obs directory"},
		{name: "json mode", jsonMode: true, want: `"warning": "no extra/obs directory"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			p := NewPrinter(buf, tt.jsonMode, false)
			p.Warn("no extra/obs directory")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrinter_Table(t *testing.T) {
	buf := new(bytes.Buffer)
	p := NewPrinter(buf, false, false)

	p.Table([]string{"VERSION", "DATE"}, [][]string{
		{"1.2.0", "2014-07-08"},
		{"1.1.0", "2014-06-01"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "VERSION") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1.2.0") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestPrinter_KeyValue(t *testing.T) {
	buf := new(bytes.Buffer)
	p := NewPrinter(buf, false, false)

	p.KeyValue("Version", "1.2.0")

	if got := strings.TrimSpace(buf.String()); got != "Version: 1.2.0" {
		t.Errorf("output = %q, want %q", got, "Version: 1.2.0")
	}
}
