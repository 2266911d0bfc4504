package date

import (
	"encoding/json"
	"testing"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2024, 12, 32), New(2025, 1, 1); got != want {
		t.Errorf("New(2024, 12, 32) = %v want %v", got, want)
	}
	if got, want := New(2024, 3, 1).Add(-1), New(2024, 2, 29); got != want {
		t.Errorf("Add(-1) = %v want %v", got, want)
	}
}

func TestParseUS(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "02/15/2024", want: New(2024, 2, 15)},
		{in: "2/5/2024", want: New(2024, 2, 5)},
		{in: " 02/15/2024 as of 02/14/2024", want: New(2024, 2, 15)},
		{in: "2024-02-15", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUS(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUS(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseUS(%q) = %v want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDateAsMapKey(t *testing.T) {
	var m map[Date]int
	if err := json.Unmarshal([]byte(`{"2024-01-02":1,"2024-1-3":2}`), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m[New(2024, 1, 2)] != 1 || m[New(2024, 1, 3)] != 2 {
		t.Errorf("Unmarshal() = %v", m)
	}
}

func TestRange(t *testing.T) {
	r := Year(2024)
	if !r.Contains(New(2024, 1, 1)) || !r.Contains(New(2024, 12, 31)) {
		t.Errorf("%v must contain its boundaries", r)
	}
	if r.Contains(New(2023, 12, 31)) {
		t.Errorf("%v must not contain 2023-12-31", r)
	}
	if got, want := r.Extend(10).From, New(2023, 12, 22); got != want {
		t.Errorf("Extend(10).From = %v want %v", got, want)
	}
}
