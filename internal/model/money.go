package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount indicates a monetary amount that could not be parsed or
// is outside the accepted range.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is a currency-agnostic monetary amount in fixed-point cents.
// Calculations stay in integer cents; conversion to float64 happens only at
// the statistics boundary.
type Money int64

// ParseMoney converts a decimal string to Money with half-up rounding on the
// third decimal place. Both dot (12.34) and comma (12,34) separators are
// accepted. Amounts must be strictly positive.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Guard the *100 below.
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}

	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return Money(cents), nil
}

// MoneyFromFloat converts a float amount to Money, rounding half-up.
func MoneyFromFloat(amount float64) Money {
	return Money(amount*100 + 0.5)
}

// Float64 returns the amount in whole currency units for statistics and
// display. Use cents for arithmetic.
func (m Money) Float64() float64 {
	return float64(m) / 100.0
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", int64(m)/100, int64(m)%100)
}
