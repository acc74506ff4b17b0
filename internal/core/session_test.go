package core

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 14, hour, min, 0, 0, time.Local)
}

func TestClassifyWindows(t *testing.T) {
	cases := []struct {
		hour, min int
		want      Session
	}{
		{0, 0, SessionNone},
		{5, 59, SessionNone},
		{6, 0, SessionBreakfast},
		{9, 59, SessionBreakfast},
		{10, 0, SessionNone},
		{10, 30, SessionNone},
		{11, 0, SessionLunch},
		{14, 59, SessionLunch},
		{15, 0, SessionNone},
		{16, 59, SessionNone},
		{17, 0, SessionDinner},
		{21, 59, SessionDinner},
		{22, 0, SessionNone},
		{23, 59, SessionNone},
	}
	for _, tc := range cases {
		if got := Classify(at(tc.hour, tc.min)); got != tc.want {
			t.Errorf("Classify(%02d:%02d) = %s, want %s", tc.hour, tc.min, got, tc.want)
		}
	}
}

func TestClassifyAlwaysOneOfFour(t *testing.T) {
	valid := map[Session]bool{SessionNone: true, SessionBreakfast: true, SessionLunch: true, SessionDinner: true}
	for hour := 0; hour < 24; hour++ {
		if got := Classify(at(hour, 0)); !valid[got] {
			t.Fatalf("Classify(hour=%d) returned unexpected session %q", hour, got)
		}
	}
}

func TestParseSession(t *testing.T) {
	cases := []struct {
		in   string
		want Session
		ok   bool
	}{
		{"breakfast", SessionBreakfast, true},
		{"Breakfast", SessionBreakfast, true},
		{"LUNCH", SessionLunch, true},
		{" dinner ", SessionDinner, true},
		{"brunch", SessionNone, false},
		{"none", SessionNone, false},
		{"", SessionNone, false},
	}
	for _, tc := range cases {
		got, ok := ParseSession(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseSession(%q) = (%s, %v), want (%s, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSessionActive(t *testing.T) {
	for _, s := range Sessions() {
		if !s.Active() {
			t.Errorf("%s should be active", s)
		}
	}
	if SessionNone.Active() {
		t.Error("SessionNone should not be active")
	}
}
