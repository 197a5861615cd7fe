package checkout

import (
	"strings"

	"github.com/DANCANKARANI/e-commerce/internal/domain"
)

// NormalizeMsisdn converts a local M-Pesa number (07XXXXXXXX) into the
// provider's international format (2547XXXXXXXX).
func NormalizeMsisdn(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if len(phone) != 10 || !strings.HasPrefix(phone, "07") || !digitsOnly(phone) {
		return "", domain.NewValidationError("phone", "enter a valid M-Pesa number, e.g. 07XXXXXXXX")
	}
	return "254" + phone[1:], nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
