package cache

import (
	"testing"
	"time"
)

func TestEntry_ValidAt(t *testing.T) {
	createdAt := time.Now()

	tests := []struct {
		name string
		ttl  time.Duration
		at   time.Time
		want bool
	}{
		{
			name: "inside window",
			ttl:  time.Minute,
			at:   createdAt.Add(30 * time.Second),
			want: true,
		},
		{
			name: "past window",
			ttl:  time.Minute,
			at:   createdAt.Add(2 * time.Minute),
			want: false,
		},
		{
			name: "exactly at boundary",
			ttl:  time.Minute,
			at:   createdAt.Add(time.Minute),
			want: false,
		},
		{
			name: "immediately after creation",
			ttl:  time.Minute,
			at:   createdAt,
			want: true,
		},
		{
			name: "zero ttl never valid",
			ttl:  0,
			at:   createdAt,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{
				Value:     "v",
				CreatedAt: createdAt,
				TTL:       tt.ttl,
			}
			if got := entry.ValidAt(tt.at); got != tt.want {
				t.Errorf("ValidAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_Remaining(t *testing.T) {
	tests := []struct {
		name    string
		entry   *Entry
		wantMin time.Duration
		wantMax time.Duration
	}{
		{
			name:    "one minute remaining",
			entry:   &Entry{CreatedAt: time.Now(), TTL: time.Minute},
			wantMin: 59 * time.Second,
			wantMax: 61 * time.Second,
		},
		{
			name:    "already invalid",
			entry:   &Entry{CreatedAt: time.Now().Add(-2 * time.Minute), TTL: time.Minute},
			wantMin: 0,
			wantMax: 0,
		},
		{
			name:    "five minutes remaining",
			entry:   &Entry{CreatedAt: time.Now(), TTL: 5 * time.Minute},
			wantMin: 4*time.Minute + 59*time.Second,
			wantMax: 5*time.Minute + 1*time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.entry.Remaining()
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("Remaining() = %v, want between %v and %v", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestEntry_Valid(t *testing.T) {
	valid := &Entry{Value: "v", CreatedAt: time.Now(), TTL: time.Hour}
	if !valid.Valid() {
		t.Error("Valid() = false for a fresh entry, want true")
	}

	invalid := &Entry{Value: "v", CreatedAt: time.Now().Add(-2 * time.Hour), TTL: time.Hour}
	if invalid.Valid() {
		t.Error("Valid() = true for a stale entry, want false")
	}
}
