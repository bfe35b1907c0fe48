package service

import (
	"testing"
	"time"
)

func TestRecordsOf(t *testing.T) {
	record := map[string]interface{}{"id": "a"}

	tests := []struct {
		name    string
		payload interface{}
		want    int
	}{
		{"bare list", []interface{}{record, record}, 2},
		{"items wrapper", map[string]interface{}{"items": []interface{}{record}}, 1},
		{"results wrapper", map[string]interface{}{"results": []interface{}{record, record, record}}, 3},
		{"singleton object", map[string]interface{}{"title": "solo"}, 1},
		{"scalar", "oops", 0},
		{"list with non-objects", []interface{}{record, "junk", 42}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recordsOf(tt.payload)
			if len(got) != tt.want {
				t.Errorf("recordsOf() returned %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestRecordsOf_SingletonKeepsFields(t *testing.T) {
	records := recordsOf(map[string]interface{}{"title": "solo", "id": "x1"})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["title"] != "solo" {
		t.Errorf("singleton record lost its fields: %v", records[0])
	}
}

func TestPickString_Order(t *testing.T) {
	// dataset_id выигрывает у id: порядок ключей фиксирован
	record := map[string]interface{}{
		"id":         "secondary",
		"dataset_id": "primary",
	}
	got := pickString(record, idKeys)
	if got == nil || *got != "primary" {
		t.Errorf("pickString() = %v, want primary", got)
	}
}

func TestPickString(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]interface{}
		keys   []string
		want   *string
	}{
		{
			name:   "empty string skipped",
			record: map[string]interface{}{"title": "", "name": "fallback"},
			keys:   titleKeys,
			want:   strPtr("fallback"),
		},
		{
			name:   "number coerced",
			record: map[string]interface{}{"id": 871.0},
			keys:   idKeys,
			want:   strPtr("871"),
		},
		{
			name:   "nothing present",
			record: map[string]interface{}{"other": "x"},
			keys:   statusKeys,
			want:   nil,
		},
		{
			name:   "later key used",
			record: map[string]interface{}{"lifecycle": "archived"},
			keys:   statusKeys,
			want:   strPtr("archived"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickString(tt.record, tt.keys)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("pickString() = %v, want %v", got, tt.want)
			case *got != *tt.want:
				t.Errorf("pickString() = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func TestPickTime(t *testing.T) {
	rfc := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		record map[string]interface{}
		want   *time.Time
	}{
		{
			name:   "rfc3339",
			record: map[string]interface{}{"updated": "2024-03-15T12:30:00Z"},
			want:   &rfc,
		},
		{
			name:   "sql-ish pattern as UTC",
			record: map[string]interface{}{"modified": "2024-03-15 12:30:00"},
			want:   &rfc,
		},
		{
			name:   "unix epoch",
			record: map[string]interface{}{"timestamp": float64(rfc.Unix())},
			want:   &rfc,
		},
		{
			name:   "unparsable",
			record: map[string]interface{}{"updated": "yesterday"},
			want:   nil,
		},
		{
			name:   "absent",
			record: map[string]interface{}{},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickTime(tt.record, timeKeys)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("pickTime() = %v, want %v", got, tt.want)
			case !got.Equal(*tt.want):
				t.Errorf("pickTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickTime_KeyOrder(t *testing.T) {
	// updated идёт раньше timestamp
	earlier := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	record := map[string]interface{}{
		"updated":   "2020-01-01T00:00:00Z",
		"timestamp": float64(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix()),
	}
	got := pickTime(record, timeKeys)
	if got == nil || !got.Equal(earlier) {
		t.Errorf("pickTime() = %v, want %v from the first key", got, earlier)
	}
}
