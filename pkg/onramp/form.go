// Package onramp builds the parameter set handed to the Peer extension's
// onramp action.
package onramp

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Field names accepted by the extension's onramp action.
const (
	FieldReferrer         = "referrer"
	FieldReferrerLogo     = "referrerLogo"
	FieldCallbackURL      = "callbackUrl"
	FieldInputCurrency    = "inputCurrency"
	FieldInputAmount      = "inputAmount"
	FieldPaymentPlatform  = "paymentPlatform"
	FieldAmountUsdc       = "amountUsdc"
	FieldToToken          = "toToken"
	FieldRecipientAddress = "recipientAddress"
)

// Fields lists every form field in display order.
var Fields = []string{
	FieldReferrer,
	FieldReferrerLogo,
	FieldCallbackURL,
	FieldInputCurrency,
	FieldInputAmount,
	FieldPaymentPlatform,
	FieldAmountUsdc,
	FieldToToken,
	FieldRecipientAddress,
}

// Form is the user-edited state the request is built from. Values are kept
// exactly as typed; trimming happens in Build.
type Form struct {
	Referrer         string `json:"referrer"`
	ReferrerLogo     string `json:"referrerLogo"`
	CallbackURL      string `json:"callbackUrl"`
	InputCurrency    string `json:"inputCurrency"`
	InputAmount      string `json:"inputAmount"`
	PaymentPlatform  string `json:"paymentPlatform"`
	AmountUsdc       string `json:"amountUsdc"`
	ToToken          string `json:"toToken"`
	RecipientAddress string `json:"recipientAddress"`
}

// Params is the mapping passed to the extension. Only non-blank, trimmed
// values are present.
type Params map[string]string

func (f *Form) field(name string) (*string, error) {
	switch name {
	case FieldReferrer:
		return &f.Referrer, nil
	case FieldReferrerLogo:
		return &f.ReferrerLogo, nil
	case FieldCallbackURL:
		return &f.CallbackURL, nil
	case FieldInputCurrency:
		return &f.InputCurrency, nil
	case FieldInputAmount:
		return &f.InputAmount, nil
	case FieldPaymentPlatform:
		return &f.PaymentPlatform, nil
	case FieldAmountUsdc:
		return &f.AmountUsdc, nil
	case FieldToToken:
		return &f.ToToken, nil
	case FieldRecipientAddress:
		return &f.RecipientAddress, nil
	}
	return nil, fmt.Errorf("unknown onramp field %q", name)
}

// Get returns the raw value of the named field.
func (f Form) Get(name string) (string, error) {
	p, err := f.field(name)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Set overwrites the named field.
func (f *Form) Set(name, value string) error {
	p, err := f.field(name)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// Values returns every field keyed by name, blank ones included.
func (f Form) Values() map[string]string {
	return lo.SliceToMap(Fields, func(name string) (string, string) {
		v, _ := f.Get(name)
		return name, v
	})
}

// Build converts the form into extension parameters. Values are trimmed and
// whitespace-only fields are dropped so they never reach the extension.
func Build(f Form) Params {
	trimmed := lo.MapValues(f.Values(), func(v string, _ string) string {
		return strings.TrimSpace(v)
	})
	return lo.PickBy(trimmed, func(_ string, v string) bool {
		return v != ""
	})
}

// Keys returns the parameter names present, in form order.
func (p Params) Keys() []string {
	return lo.Filter(Fields, func(name string, _ int) bool {
		_, ok := p[name]
		return ok
	})
}
