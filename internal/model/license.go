// internal/model/license.go
package model

// LicenseVerdict is the licensing API's answer for a key.
type LicenseVerdict struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Uses     int             `json:"uses,omitempty"`
	Purchase LicensePurchase `json:"purchase"`
}

type LicensePurchase struct {
	Email        string `json:"email,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
	Refunded     bool   `json:"refunded"`
	Chargebacked bool   `json:"chargebacked"`
	Disputed     bool   `json:"disputed"`
}

// Valid reports whether the key may be used. A successful lookup of a
// refunded, charged back or disputed purchase is not valid.
func (v LicenseVerdict) Valid() bool {
	if !v.Success {
		return false
	}
	p := v.Purchase
	return !p.Refunded && !p.Chargebacked && !p.Disputed
}
