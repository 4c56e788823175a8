package currency

import (
	"fmt"
	"strings"
)

// Code identifies a supported currency. Accounts are always created with a
// registered code so two accounts can never disagree silently on currency.
type Code string

const (
	ARS Code = "ARS"
	USD Code = "USD"
	EUR Code = "EUR"
)

var registry = map[Code]struct{}{
	ARS: {},
	USD: {},
	EUR: {},
}

// Onboarding lists the accounts provisioned for every new wallet.
var Onboarding = []Code{ARS, USD}

// Parse normalizes and validates a currency code.
func Parse(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := registry[code]; !ok {
		return "", fmt.Errorf("unknown currency %q", s)
	}
	return code, nil
}

// Valid reports whether the code belongs to the registry.
func Valid(code Code) bool {
	_, ok := registry[code]
	return ok
}

func (c Code) String() string {
	return string(c)
}
