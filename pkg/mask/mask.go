package mask

import (
	"fmt"
	"strings"
)

// Kind identifies a mask rule.
type Kind string

const (
	// KindNone leaves values untouched.
	KindNone Kind = ""
	// KindTaxID formats CNPJ values as NN.NNN.NNN/NNNN-NN.
	KindTaxID Kind = "taxid"
	// KindPostal formats CEP values as NNNNN-NNN.
	KindPostal Kind = "postal"
	// KindPhone formats phones as (NN) NNNN-NNNN or (NN) NNNNN-NNNN.
	KindPhone Kind = "phone"
)

// Digit caps per rule.
const (
	TaxIDDigits  = 14
	PostalDigits = 8
	PhoneDigits  = 11
)

// Rule reformats a raw input into its masked display value.
type Rule func(raw string) string

var rules = map[Kind]Rule{
	KindTaxID:  TaxID,
	KindPostal: Postal,
	KindPhone:  Phone,
}

// ParseKind resolves a schema mask name. The empty string maps to KindNone.
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	if kind == KindNone {
		return KindNone, nil
	}
	if _, ok := rules[kind]; !ok {
		return KindNone, fmt.Errorf("mask: unknown kind %q", name)
	}
	return kind, nil
}

// RuleFor returns the rule registered for kind. Unknown kinds (and KindNone)
// return ok=false.
func RuleFor(kind Kind) (Rule, bool) {
	rule, ok := rules[kind]
	return rule, ok
}

// MaxDigits reports the digit cap enforced by kind, or zero for unmasked kinds.
func MaxDigits(kind Kind) int {
	switch kind {
	case KindTaxID:
		return TaxIDDigits
	case KindPostal:
		return PostalDigits
	case KindPhone:
		return PhoneDigits
	default:
		return 0
	}
}

// Apply masks raw using the rule for kind. Values for unmasked kinds are
// returned unchanged.
func Apply(kind Kind, raw string) string {
	rule, ok := rules[kind]
	if !ok {
		return raw
	}
	return rule(raw)
}

// Digits strips every character that is not an ASCII digit.
func Digits(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// TaxID formats a CNPJ progressively: 12 -> "12", 123 -> "12.3",
// 12345678000190 -> "12.345.678/0001-90".
func TaxID(raw string) string {
	return progressive(capDigits(raw, TaxIDDigits), []int{2, 3, 3, 4, 2}, []string{".", ".", "/", "-"})
}

// Postal formats a CEP: "12345678" -> "12345-678", "123" -> "123".
func Postal(raw string) string {
	return progressive(capDigits(raw, PostalDigits), []int{5, 3}, []string{"-"})
}

// Phone formats a Brazilian phone number. Up to ten digits use the four digit
// local grouping; eleven digits switch to the five digit mobile grouping.
func Phone(raw string) string {
	v := capDigits(raw, PhoneDigits)
	local := 4
	if len(v) > 10 {
		local = 5
	}

	area := segment(v, 0, 2)
	prefix := segment(v, 2, 2+local)
	line := segment(v, 2+local, 2+local+4)

	var b strings.Builder
	if area != "" {
		b.WriteString("(" + area + ")")
	}
	if prefix != "" {
		b.WriteString(" " + prefix)
	}
	if line != "" {
		b.WriteString("-" + line)
	}
	return strings.TrimSpace(b.String())
}

func capDigits(raw string, max int) string {
	v := Digits(raw)
	if len(v) > max {
		return v[:max]
	}
	return v
}

// progressive writes digit groups joined by seps, emitting a separator only
// once the digits after it are present.
func progressive(v string, groups []int, seps []string) string {
	var b strings.Builder
	start := 0
	for i, size := range groups {
		if start >= len(v) {
			break
		}
		if i > 0 {
			b.WriteString(seps[i-1])
		}
		b.WriteString(segment(v, start, start+size))
		start += size
	}
	return b.String()
}

func segment(v string, from, to int) string {
	if from >= len(v) {
		return ""
	}
	if to > len(v) {
		to = len(v)
	}
	return v[from:to]
}
