package core

import "testing"

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint("hello world")
	b := FingerprintBytes([]byte("hello world"))
	if a == "" || a != b {
		t.Fatalf("expected stable fingerprint, got %q and %q", a, b)
	}
}

func TestFingerprintDistinguishesWhitespace(t *testing.T) {
	if Fingerprint("hello  world") == Fingerprint("hello world") {
		t.Fatalf("raw fingerprints must not normalize")
	}
}

func TestFingerprintEmpty(t *testing.T) {
	if Fingerprint("") != "" || FingerprintBytes(nil) != "" {
		t.Fatalf("expected empty fingerprint for empty payload")
	}
}
