package onramp

import (
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// SolanaChainID is the chain id the extension uses for Solana destinations.
const SolanaChainID = "792703809"

// Warning is an advisory finding about a parameter. Warnings never block a
// submission; the extension performs its own validation.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

// Lint reports parameters that the extension is likely to reject.
func Lint(p Params) []Warning {
	var out []Warning
	warn := func(field, format string, args ...any) {
		out = append(out, Warning{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	for _, field := range []string{FieldReferrerLogo, FieldCallbackURL} {
		v, ok := p[field]
		if !ok {
			continue
		}
		u, err := url.Parse(v)
		if err != nil || u.Scheme == "" || u.Host == "" {
			warn(field, "expected an absolute URL, got %q", v)
		}
	}

	if v, ok := p[FieldInputCurrency]; ok && !isCurrencyCode(v) {
		warn(FieldInputCurrency, "expected a 3-letter currency code, got %q", v)
	}

	if v, ok := p[FieldInputAmount]; ok {
		amount, valid := new(big.Rat).SetString(v)
		if !valid || amount.Sign() <= 0 {
			warn(FieldInputAmount, "expected a positive amount, got %q", v)
		}
	}

	if v, ok := p[FieldAmountUsdc]; ok {
		if _, err := strconv.ParseUint(v, 10, 64); err != nil {
			warn(FieldAmountUsdc, "expected an integer amount in USDC base units (6 decimals), got %q", v)
		}
	}

	chainID := ""
	if v, ok := p[FieldToToken]; ok {
		id, token, found := strings.Cut(v, ":")
		switch {
		case !found || token == "":
			warn(FieldToToken, "expected chainId:tokenAddress, got %q", v)
		case !isDigits(id):
			warn(FieldToToken, "chain id %q is not numeric", id)
		default:
			chainID = id
			if id != SolanaChainID && !common.IsHexAddress(token) {
				warn(FieldToToken, "token %q is not a valid EVM address", token)
			}
		}
	}

	// Without a destination chain the recipient is assumed to be EVM, which is
	// the extension's default.
	if v, ok := p[FieldRecipientAddress]; ok && chainID != SolanaChainID && !common.IsHexAddress(v) {
		warn(FieldRecipientAddress, "%q is not a valid EVM address", v)
	}

	return out
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, c := range s {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
