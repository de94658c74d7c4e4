package common

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	EtherDecimals = 18 // ETH has 18 decimals (wei)
	GweiDecimals  = 9  // gas prices are usually shown in gwei
)

// WeiToEther converts wei to an ether string without float precision loss.
// Trailing zeros are trimmed: 1500000000000000000 -> "1.5", 10^18 -> "1".
func WeiToEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// EtherToWei converts an ether string to wei without float precision loss
func EtherToWei(ether string) (*big.Int, error) {
	return ParseUnits(ether, EtherDecimals)
}

// WeiToGwei converts wei to a gwei string
func WeiToGwei(wei *big.Int) string {
	return FormatUnits(wei, GweiDecimals)
}

// FormatUnits converts an integer amount in the smallest unit to a decimal string
// by inserting the decimal point.
// Example: FormatUnits(24981836, 9) = "0.024981836"
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		return "0"
	}

	s := new(big.Int).Abs(value).String()
	sign := ""
	if value.Sign() < 0 {
		sign = "-"
	}
	if decimals <= 0 {
		return sign + s
	}

	// Pad with leading zeros if needed
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	// Insert decimal point, then drop the zero tail
	pos := len(s) - decimals
	whole, frac := s[:pos], strings.TrimRight(s[pos:], "0")
	if frac == "" {
		return sign + whole
	}
	return sign + whole + "." + frac
}

// ParseUnits converts a decimal string to an integer amount in the smallest unit.
// Example: ParseUnits("0.024981836", 9) = 24981836
func ParseUnits(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty string")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid decimal format: %q", s)
	}

	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
		if whole == "" && frac == "" {
			return nil, fmt.Errorf("invalid decimal format: %q", s)
		}
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("invalid decimal format: %q", s)
	}

	// Fractional part must fit into the unit, a silent truncation loses value
	if len(frac) > decimals {
		return nil, fmt.Errorf("too many decimal places in %q: max %d", s, decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	combined := strings.TrimLeft(whole+frac, "0")
	if combined == "" {
		return new(big.Int), nil
	}

	n, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal format: %q", s)
	}
	return n, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
