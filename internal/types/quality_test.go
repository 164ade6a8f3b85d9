package types

import "testing"

func TestParseAudioQuality(t *testing.T) {
	cases := map[string]AudioQuality{"": AudioQualityAuto, "low": AudioQualityLow, " HIGH ": AudioQualityHigh, "Auto": AudioQualityAuto}
	for in, want := range cases {
		got, err := ParseAudioQuality(in)
		if err != nil || got != want {
			t.Fatalf("ParseAudioQuality(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseAudioQuality("ultra"); err == nil {
		t.Fatalf("expected error for unknown quality")
	}
}

func TestParseVideoQuality(t *testing.T) {
	cases := map[string]VideoQuality{"auto": VideoQualityAuto, "-1": VideoQualityAuto, "720": VideoQuality720p, "1080p": VideoQuality1080p}
	for in, want := range cases {
		got, err := ParseVideoQuality(in)
		if err != nil || got != want {
			t.Fatalf("ParseVideoQuality(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, bad := range []string{"721", "hd", ""} {
		if _, err := ParseVideoQuality(bad); err == nil {
			t.Fatalf("ParseVideoQuality(%q) expected error", bad)
		}
	}
}

func TestVideoQualityResolve(t *testing.T) {
	if got := VideoQualityAuto.Resolve(true); got != VideoQuality720p {
		t.Fatalf("metered auto = %v", got)
	}
	if got := VideoQualityAuto.Resolve(false); got != VideoQuality1080p {
		t.Fatalf("unmetered auto = %v", got)
	}
	if got := VideoQuality480p.Resolve(false); got != VideoQuality480p {
		t.Fatalf("concrete target must not change, got %v", got)
	}
}
