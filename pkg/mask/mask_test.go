package mask_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/goliatone/go-briefing/pkg/mask"
)

func TestTaxID(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"1":                  "1",
		"12":                 "12",
		"123":                "12.3",
		"12345":              "12.345",
		"123456":             "12.345.6",
		"12345678":           "12.345.678",
		"123456789":          "12.345.678/9",
		"123456780001":       "12.345.678/0001",
		"1234567800019":      "12.345.678/0001-9",
		"12345678000190":     "12.345.678/0001-90",
		"1234567800019099":   "12.345.678/0001-90",
		"12.345.678/0001-90": "12.345.678/0001-90",
		"ab12x34":            "12.34",
	}
	got := make(map[string]string, len(cases))
	for in := range cases {
		got[in] = mask.TaxID(in)
	}
	if diff := cmp.Diff(cases, got); diff != "" {
		t.Fatalf("tax id mismatch (-want +got):\n%s", diff)
	}
}

func TestPostal(t *testing.T) {
	if got := mask.Postal("12345678"); got != "12345-678" {
		t.Fatalf("expected 12345-678, got %q", got)
	}
	if got := mask.Postal("123"); got != "123" {
		t.Fatalf("expected 123, got %q", got)
	}
	if got := mask.Postal("12345"); got != "12345" {
		t.Fatalf("expected no trailing dash, got %q", got)
	}
	if got := mask.Postal("90010-100 extra 9"); got != "90010-100" {
		t.Fatalf("expected truncation to 8 digits, got %q", got)
	}
}

func TestPhone(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"5":               "(5)",
		"51":              "(51)",
		"519":             "(51) 9",
		"519937":          "(51) 9937",
		"5199379":         "(51) 9937-9",
		"5199379613":      "(51) 9937-9613",
		"51993796131":     "(51) 99379-6131",
		"519937961319":    "(51) 99379-6131",
		"(51) 99379-6131": "(51) 99379-6131",
	}
	got := make(map[string]string, len(cases))
	for in := range cases {
		got[in] = mask.Phone(in)
	}
	if diff := cmp.Diff(cases, got); diff != "" {
		t.Fatalf("phone mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyAndParseKind(t *testing.T) {
	kind, err := mask.ParseKind(" Phone ")
	if err != nil {
		t.Fatalf("parse kind: %v", err)
	}
	if kind != mask.KindPhone {
		t.Fatalf("expected phone kind, got %q", kind)
	}
	if got := mask.Apply(kind, "5199379613"); got != "(51) 9937-9613" {
		t.Fatalf("unexpected apply result %q", got)
	}
	if got := mask.Apply(mask.KindNone, " free text 12 "); got != " free text 12 " {
		t.Fatalf("unmasked kinds must be returned unchanged, got %q", got)
	}
	if _, err := mask.ParseKind("cpf"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if mask.MaxDigits(mask.KindTaxID) != 14 || mask.MaxDigits(mask.KindNone) != 0 {
		t.Fatalf("unexpected digit caps")
	}
}

func TestTaxIDProperties(t *testing.T) {
	boundaries := map[int]bool{2: true, 5: true, 8: true, 12: true}

	rapid.Check(t, func(rt *rapid.T) {
		digits := rapid.StringMatching(`[0-9]{0,20}`).Draw(rt, "digits")
		out := mask.TaxID(digits)

		want := digits
		if len(want) > mask.TaxIDDigits {
			want = want[:mask.TaxIDDigits]
		}
		if got := mask.Digits(out); got != want {
			rt.Fatalf("digit projection %q, want %q", got, want)
		}

		seen := 0
		for i := 0; i < len(out); i++ {
			c := out[i]
			if c >= '0' && c <= '9' {
				seen++
				continue
			}
			if !boundaries[seen] {
				rt.Fatalf("literal %q after %d digits in %q", c, seen, out)
			}
			if i == len(out)-1 {
				rt.Fatalf("trailing literal in %q", out)
			}
		}

		if again := mask.TaxID(out); again != out {
			rt.Fatalf("not idempotent: %q -> %q", out, again)
		}
	})
}

func TestPhoneProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		raw := rapid.StringMatching(`[0-9 ()-]{0,24}`).Draw(rt, "raw")
		out := mask.Phone(raw)

		if strings.TrimSpace(out) != out {
			rt.Fatalf("untrimmed output %q", out)
		}
		if n := len(mask.Digits(out)); n > mask.PhoneDigits {
			rt.Fatalf("too many digits in %q", out)
		}
		if again := mask.Phone(out); again != out {
			rt.Fatalf("not idempotent: %q -> %q", out, again)
		}
	})
}
