package internal

import (
	"errors"
	"testing"
)

func TestNewOTPCodeInRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := NewOTPCode()
		if err != nil {
			t.Fatalf("NewOTPCode failed: %v", err)
		}
		if code < otpMin || code > otpMax {
			t.Fatalf("code %d outside issuable range", code)
		}
	}
}

func TestFormatOTPCodeSixDigits(t *testing.T) {
	for _, code := range []uint32{otpMin, 123456, 999999} {
		text := FormatOTPCode(code)
		if len(text) != 6 {
			t.Fatalf("expected six digits for %d, got %q", code, text)
		}
	}
}

func TestParseOTPCodeAccepts(t *testing.T) {
	for _, text := range []string{"100000", "123456", "999999"} {
		code, err := ParseOTPCode(text)
		if err != nil {
			t.Fatalf("expected %q to parse, got %v", text, err)
		}
		if FormatOTPCode(code) != text {
			t.Fatalf("round trip mismatch for %q: got %d", text, code)
		}
	}
}

func TestParseOTPCodeRejects(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"too short", "12345"},
		{"too long", "1234567"},
		{"letter inside", "12a456"},
		{"leading space", " 123456"},
		{"trailing space", "123456 "},
		{"embedded space", "123 56"},
		{"signed", "+12345"},
		{"below range", "012345"},
		{"zero", "000000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseOTPCode(tc.text); !errors.Is(err, ErrMalformedCode) {
				t.Fatalf("expected ErrMalformedCode for %q, got %v", tc.text, err)
			}
		})
	}
}
