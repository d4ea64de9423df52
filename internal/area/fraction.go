package area

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidFraction is returned when a share fraction cannot be parsed.
var ErrInvalidFraction = errors.New("invalid share fraction")

// ParseFraction parses a share such as "1/2", "1 1/2", "3" or "0.25".
// Every number is read in base 10, so "010/100" is 0.1. A zero
// denominator, a negative part or anything else that does not read as a
// whole number plus a fraction fails with ErrInvalidFraction.
func ParseFraction(text string) (float64, error) {
	r, err := parseRat(text)
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}

func parseRat(text string) (*big.Rat, error) {
	invalid := fmt.Errorf("%w: %q", ErrInvalidFraction, text)

	fields := strings.Fields(text)
	switch len(fields) {
	case 1:
		r, ok := parseNumber(fields[0])
		if !ok {
			return nil, invalid
		}
		return checkSign(r, text)
	case 2:
		whole, ok := parseInt(fields[0])
		if !ok || whole.Sign() < 0 || !strings.Contains(fields[1], "/") {
			return nil, invalid
		}
		frac, ok := parseNumber(fields[1])
		if !ok {
			return nil, invalid
		}
		if _, err := checkSign(frac, text); err != nil {
			return nil, err
		}
		return frac.Add(frac, new(big.Rat).SetInt(whole)), nil
	}
	return nil, invalid
}

// parseNumber reads "a/b" or a plain decimal.
func parseNumber(s string) (*big.Rat, bool) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, ok := parseInt(num)
		if !ok {
			return nil, false
		}
		d, ok := parseInt(den)
		if !ok || d.Sign() == 0 {
			return nil, false
		}
		return new(big.Rat).SetFrac(n, d), true
	}
	// big.Rat honours base prefixes; only plain decimal text gets through.
	if s == "" || strings.Trim(s, "0123456789.eE+-") != "" {
		return nil, false
	}
	return new(big.Rat).SetString(s)
}

func parseInt(s string) (*big.Int, bool) {
	return new(big.Int).SetString(s, 10)
}

func checkSign(r *big.Rat, text string) (*big.Rat, error) {
	if r.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidFraction, text)
	}
	return r, nil
}
