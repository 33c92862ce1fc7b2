// Package parse normalizes free-text user input into typed values.
// Parsers are pure functions; all user-facing wording lives in texts.
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ashureev/wattwise/internal/domain"
)

var (
	// Tokens like "900", "12,5", "12к", "45000", "12k".
	numberTokenRe = regexp.MustCompile(`[\d.,]+[кk]?`)
	canonicalRe   = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// NumberToken parses a single numeric token. A trailing "k" (or its Cyrillic
// homoglyph "к", either case) multiplies by 1000; "," is accepted as the
// decimal separator; internal whitespace is stripped. Returns false for
// anything that does not reduce to digits with an optional decimal point.
func NumberToken(token string) (float64, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.ReplaceAll(t, " ", "")
	if t == "" {
		return 0, false
	}

	mult := 1.0
	if strings.HasSuffix(t, "к") || strings.HasSuffix(t, "k") {
		mult = 1000.0
		t = strings.TrimSuffix(strings.TrimSuffix(t, "к"), "k")
	}

	t = strings.ReplaceAll(t, ",", ".")
	if !canonicalRe.MatchString(t) {
		return 0, false
	}

	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	return v * mult, true
}

// OneOrTwoNumbers extracts up to two numeric tokens from free text.
// All-or-nothing: if either of the first two tokens fails to parse, the
// whole input is rejected. The second return value is nil when only one
// number was given.
func OneOrTwoNumbers(text string) (float64, *float64, bool) {
	raw := strings.TrimSpace(strings.ToLower(text))
	if raw == "" {
		return 0, nil, false
	}

	tokens := numberTokenRe.FindAllString(raw, -1)
	if len(tokens) == 0 {
		return 0, nil, false
	}
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}

	nums := make([]float64, 0, 2)
	for _, tok := range tokens {
		v, ok := NumberToken(tok)
		if !ok {
			return 0, nil, false
		}
		nums = append(nums, v)
	}

	if len(nums) == 1 {
		return nums[0], nil, true
	}
	second := nums[1]
	return nums[0], &second, true
}

// Values reconciles the declared value mode with the parsed numbers.
// In "both" mode a single number is ambiguous and must be re-prompted, so
// ok is false rather than guessing which quantity it represents.
func Values(mode domain.ValueMode, first float64, second *float64) (kwh, money *float64, ok bool) {
	switch mode {
	case domain.ModeKWh:
		return &first, nil, true
	case domain.ModeMoney:
		return nil, &first, true
	default:
		if second == nil {
			return nil, nil, false
		}
		return &first, second, true
	}
}

// Upper sanity bounds for a single household billing period.
const (
	maxReasonableKWh   = 20000.0
	maxReasonableMoney = 1_000_000.0
)

// RangeVerdict classifies a reported value. Non-fatal: the value is always
// kept; the caller decides what to surface.
type RangeVerdict int

const (
	RangeOK RangeVerdict = iota
	RangeNonPositive
	RangeSuspect
)

// CheckKWh validates an energy value against plausibility bounds.
func CheckKWh(v float64) RangeVerdict {
	switch {
	case v <= 0:
		return RangeNonPositive
	case v > maxReasonableKWh:
		return RangeSuspect
	default:
		return RangeOK
	}
}

// CheckMoney validates a cost value against plausibility bounds.
func CheckMoney(v float64) RangeVerdict {
	switch {
	case v <= 0:
		return RangeNonPositive
	case v > maxReasonableMoney:
		return RangeSuspect
	default:
		return RangeOK
	}
}
