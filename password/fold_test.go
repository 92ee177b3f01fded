package password

import "testing"

func TestFoldHashDeterministic(t *testing.T) {
	f := NewFold()

	h1, err := f.Hash("secret-1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	h2, err := f.Hash("secret-1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected deterministic digest, got %q and %q", h1, h2)
	}

	for _, c := range h1 {
		if c < '0' || c > '9' {
			t.Fatalf("expected decimal digest, got %q", h1)
		}
	}
}

func TestFoldHashEmptyRejected(t *testing.T) {
	if _, err := NewFold().Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestFoldVerify(t *testing.T) {
	f := NewFold()

	encoded, err := f.Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	ok, err := f.Verify("correct-horse", encoded)
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}

	ok, err = f.Verify("wrong-horse", encoded)
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}
}

func TestDigestEqualVisitsEveryByte(t *testing.T) {
	base := "123456789012345678901234567890"

	cases := []struct {
		name  string
		other string
		equal bool
	}{
		{"identical", base, true},
		{"first byte differs", "X23456789012345678901234567890", false},
		{"middle byte differs", "12345678901234X678901234567890", false},
		{"last byte differs", "12345678901234567890123456789X", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			equal, visited := digestEqual(base, tc.other)
			if equal != tc.equal {
				t.Fatalf("expected equal=%v, got %v", tc.equal, equal)
			}
			if visited != len(base) {
				t.Fatalf("expected all %d bytes visited, got %d", len(base), visited)
			}
		})
	}
}

func TestDigestEqualLengthMismatchShortCircuits(t *testing.T) {
	equal, visited := digestEqual("short", "much-longer-digest")
	if equal {
		t.Fatal("expected mismatch")
	}
	if visited != 0 {
		t.Fatalf("expected length mismatch to visit 0 bytes, got %d", visited)
	}
}
