package database

import (
	"sort"
	"testing"
	"time"
)

func TestFormatTime_RoundTrip(t *testing.T) {
	in := time.Date(2024, 1, 14, 20, 21, 59, 123456789, time.FixedZone("CET", 3600))

	got, err := ParseTime(FormatTime(in))
	if err != nil {
		t.Fatalf("ParseTime() error = %v", err)
	}
	if !got.Equal(in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
	if got.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", got.Location())
	}
}

func TestFormatTime_SortsChronologically(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	times := []time.Time{
		base.Add(500 * time.Millisecond),
		base,
		base.Add(time.Second),
		base.Add(time.Nanosecond),
	}

	formatted := make([]string, len(times))
	for i, ts := range times {
		formatted[i] = FormatTime(ts)
	}
	sort.Strings(formatted)

	want := []string{
		"2024-01-01T10:00:00.000000000Z",
		"2024-01-01T10:00:00.000000001Z",
		"2024-01-01T10:00:00.500000000Z",
		"2024-01-01T10:00:01.000000000Z",
	}
	for i := range want {
		if formatted[i] != want[i] {
			t.Errorf("formatted[%d] = %q, want %q", i, formatted[i], want[i])
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "fixed width",
			in:   "2024-01-14T20:21:59.000000000Z",
			want: time.Date(2024, 1, 14, 20, 21, 59, 0, time.UTC),
		},
		{
			name: "rfc3339 with offset",
			in:   "2024-01-14T21:21:59+01:00",
			want: time.Date(2024, 1, 14, 20, 21, 59, 0, time.UTC),
		},
		{
			name:    "garbage",
			in:      "yesterday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTime() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseTime() = %v, want %v", got, tt.want)
			}
		})
	}
}
