package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", lines, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"warn","ts":"2026-03-01T10:20:30.000Z","logger":"stockroom.catalog","caller":"catalog/client.go:190","msg":"Request failed","status":500,"request_id":"abc","ok":false}`
	entry, err := Parse(line)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := time.Date(2026, 3, 1, 10, 20, 30, 0, time.UTC)
	if !entry.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", entry.Time, want)
	}
	if entry.Level != "WARN" || entry.Logger != "stockroom.catalog" || entry.Message != "Request failed" {
		t.Fatalf("entry = %#v", entry)
	}
	wantFields := []Field{{"status", "500"}, {"request_id", "abc"}, {"ok", "false"}}
	if !reflect.DeepEqual(entry.Fields, wantFields) {
		t.Fatalf("Fields = %#v, want %#v", entry.Fields, wantFields)
	}
}

func TestParse_EpochTime(t *testing.T) {
	entry, err := Parse(`{"ts":1700000000.5,"msg":"x"}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if entry.Time.Unix() != 1700000000 {
		t.Fatalf("Time = %v, want unix 1700000000", entry.Time)
	}
}

func TestFormat(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 20, 30, 0, time.UTC)
	clock := ts.In(time.Local).Format("15:04:05")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text passes through",
			input: "not json",
			want:  "not json",
		},
		{
			name:  "broken json passes through",
			input: `{"msg":`,
			want:  `{"msg":`,
		},
		{
			name:  "full entry",
			input: `{"level":"info","ts":"2026-03-01T10:20:30Z","logger":"stockroom.listing","msg":"Load started","seq":3,"mode":"search"}`,
			want:  clock + " INFO [stockroom.listing] Load started seq=3 mode=search",
		},
		{
			name:  "quoted value with spaces",
			input: `{"level":"error","msg":"Load failed","error":"failed to load products"}`,
			want:  `ERROR Load failed error="failed to load products"`,
		},
		{
			name:  "missing level defaults to info",
			input: `{"msg":"hello"}`,
			want:  "INFO hello",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.input); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatLines(t *testing.T) {
	got := FormatLines([]string{`{"level":"debug","msg":"a"}`, "raw"})
	want := []string{"DEBUG a", "raw"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FormatLines() = %v, want %v", got, want)
	}
	if FormatLines(nil) != nil {
		t.Fatalf("FormatLines(nil) should be nil")
	}
}
