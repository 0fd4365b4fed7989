package provider

import (
	"testing"
	"time"
)

func TestParseKickoffDayFirstFallback(t *testing.T) {
	got, err := ParseKickoff("19.09.2019", "15:30")
	if err != nil {
		t.Fatalf("ParseKickoff: %v", err)
	}
	want := time.Date(2019, 9, 19, 15, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseKickoff(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		clock   string
		want    time.Time
		wantErr bool
	}{
		{
			name: "rfc3339",
			date: "2019-09-19T15:30:00+02:00",
			want: time.Date(2019, 9, 19, 13, 30, 0, 0, time.UTC),
		},
		{
			name: "iso no offset",
			date: "2019-09-19T15:30:00",
			want: time.Date(2019, 9, 19, 15, 30, 0, 0, time.UTC),
		},
		{
			name:  "iso date plus separate time",
			date:  "2019-09-19",
			clock: "15:30",
			want:  time.Date(2019, 9, 19, 15, 30, 0, 0, time.UTC),
		},
		{
			name: "day first no time defaults midnight",
			date: "19.09.2019",
			want: time.Date(2019, 9, 19, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "slash separated",
			date:  "19/09/2019",
			clock: "09:05",
			want:  time.Date(2019, 9, 19, 9, 5, 0, 0, time.UTC),
		},
		{
			name:  "two digit year",
			date:  "19.09.19",
			clock: "15:30",
			want:  time.Date(2019, 9, 19, 15, 30, 0, 0, time.UTC),
		},
		{
			name:  "garbage time falls back to midnight",
			date:  "19.09.2019",
			clock: "kickoff",
			want:  time.Date(2019, 9, 19, 0, 0, 0, 0, time.UTC),
		},
		{name: "empty date", date: "", wantErr: true},
		{name: "prose date", date: "next thursday", wantErr: true},
		{name: "two components", date: "19.09", wantErr: true},
		{name: "month out of range", date: "19.19.2019", wantErr: true},
		{name: "day out of range", date: "32.01.2019", wantErr: true},
		{name: "normalized overflow rejected", date: "31.02.2019", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKickoff(tt.date, tt.clock)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKickoff: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("result not UTC: %v", got.Location())
			}
		})
	}
}

func TestParseEpochSeconds(t *testing.T) {
	got, err := ParseEpochSeconds("1568907000")
	if err != nil {
		t.Fatalf("ParseEpochSeconds: %v", err)
	}
	want := time.Date(2019, 9, 19, 15, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ParseEpochSeconds("2019-09-19"); err == nil {
		t.Error("expected error for non-numeric input")
	}
	if _, err := ParseEpochSeconds(""); err == nil {
		t.Error("expected error for empty input")
	}
}
