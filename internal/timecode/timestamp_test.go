package timecode

import "testing"

func TestFormatSRT(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.042, "00:01:01,042"},
		{3661.999, "01:01:01,999"},
		{-2, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := FormatSRT(tc.seconds); got != tc.want {
			t.Errorf("FormatSRT(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatVTTUsesDotSeparator(t *testing.T) {
	if got := FormatVTT(1.5); got != "00:00:01.500" {
		t.Fatalf("FormatVTT(1.5) = %q", got)
	}
}

func TestParseTimestampRoundTrips(t *testing.T) {
	for _, value := range []float64{0, 1.5, 61.042, 3661.999} {
		parsed, err := ParseTimestamp(FormatSRT(value))
		if err != nil {
			t.Fatalf("parse %v: %v", value, err)
		}
		if diff := parsed - value; diff > 0.0005 || diff < -0.0005 {
			t.Errorf("round trip %v: got %v", value, parsed)
		}
	}
}

func TestParseTimestampAcceptsDotVariant(t *testing.T) {
	parsed, err := ParseTimestamp("00:00:02.880")
	if err != nil {
		t.Fatal(err)
	}
	if parsed != 2.88 {
		t.Fatalf("got %v, want 2.88", parsed)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "12:00", "aa:bb:cc,ddd", "1:2:3"} {
		if _, err := ParseTimestamp(value); err == nil {
			t.Errorf("expected error for %q", value)
		}
	}
}
