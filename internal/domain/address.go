package domain

import (
	"fmt"
	"strings"
)

// ShippingAddress is the value object captured during checkout. It lives for
// one checkout session only and is never persisted past order submission.
type ShippingAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

// Validate returns field-level messages for every empty required field.
// An empty map means the address is acceptable.
func (a ShippingAddress) Validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(a.Name) == "" {
		fields["name"] = "recipient name is required"
	}
	if strings.TrimSpace(a.Address) == "" {
		fields["address"] = "address is required"
	}
	if strings.TrimSpace(a.City) == "" {
		fields["city"] = "city is required"
	}
	if strings.TrimSpace(a.Phone) == "" {
		fields["phone"] = "contact phone is required"
	}
	return fields
}

// Formatted renders the address as the single string the order API expects.
func (a ShippingAddress) Formatted() string {
	return fmt.Sprintf("%s, %s, %s, Phone: %s", a.Name, a.Address, a.City, a.Phone)
}
