package numbers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/radieske/teer-platform-poc/internal/engine/teer"
)

func kindOf(t *testing.T, err error) Kind {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return verr.Kind
}

func TestValidateDirectNormalizesAllValidInputs(t *testing.T) {
	for n := 0; n <= 99; n++ {
		want := fmt.Sprintf("%02d", n)

		for _, raw := range []string{fmt.Sprintf("%d", n), want} {
			got, err := Validate(teer.ModeDirect, raw)
			if err != nil {
				t.Fatalf("Validate(direct, %q): unexpected error %v", raw, err)
			}
			if got != want {
				t.Errorf("Validate(direct, %q) = %q, want %q", raw, got, want)
			}
		}
	}
}

func TestValidateDirectRejections(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
	}{
		{"", KindEmpty},
		{"123", KindWrongLength},
		{"ab", KindNotNumeric},
		{"a", KindNotNumeric},
		{"-5", KindNotNumeric},
		{"+5", KindNotNumeric},
		{"5x", KindNotNumeric},
		{" 5", KindNotNumeric},
	}
	for _, tc := range tests {
		_, err := Validate(teer.ModeDirect, tc.raw)
		if err == nil {
			t.Errorf("Validate(direct, %q): expected error", tc.raw)
			continue
		}
		if got := kindOf(t, err); got != tc.kind {
			t.Errorf("Validate(direct, %q): kind = %s, want %s", tc.raw, got, tc.kind)
		}
	}
}

func TestValidateSingleDigitModes(t *testing.T) {
	for _, mode := range []teer.Mode{teer.ModeHouse, teer.ModeEnding} {
		for n := 0; n <= 9; n++ {
			raw := fmt.Sprintf("%d", n)
			got, err := Validate(mode, raw)
			if err != nil {
				t.Fatalf("Validate(%s, %q): unexpected error %v", mode, raw, err)
			}
			if got != raw {
				t.Errorf("Validate(%s, %q) = %q", mode, raw, got)
			}
		}

		tests := []struct {
			raw  string
			kind Kind
		}{
			{"", KindEmpty},
			{"12", KindWrongLength},
			{"x", KindNotNumeric},
			{"+", KindNotNumeric},
		}
		for _, tc := range tests {
			_, err := Validate(mode, tc.raw)
			if err == nil {
				t.Errorf("Validate(%s, %q): expected error", mode, tc.raw)
				continue
			}
			if got := kindOf(t, err); got != tc.kind {
				t.Errorf("Validate(%s, %q): kind = %s, want %s", mode, tc.raw, got, tc.kind)
			}
		}
	}
}

func TestValidatePairDirect(t *testing.T) {
	fr, sr, key, err := ValidatePair(teer.ModeDirect, "7", "41")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fr != "07" || sr != "41" || key != "07-41" {
		t.Errorf("got (%q, %q, %q), want (07, 41, 07-41)", fr, sr, key)
	}
}

func TestValidatePairHouse(t *testing.T) {
	fr, sr, key, err := ValidatePair(teer.ModeHouse, "3", "9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fr != "3" || sr != "9" || key != "3-9" {
		t.Errorf("got (%q, %q, %q), want (3, 9, 3-9)", fr, sr, key)
	}

	// pares house são de 1 dígito; 2 dígitos é rejeitado
	if _, _, _, err := ValidatePair(teer.ModeHouse, "33", "9"); err == nil {
		t.Error("expected error for two-digit house pair component")
	}
}

func TestValue(t *testing.T) {
	if Value("07") != 7 || Value("41") != 41 || Value("0") != 0 {
		t.Error("Value roundtrip mismatch")
	}
}
