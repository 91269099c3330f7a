package client

import "time"

// Client is a dispatch-destination company. The 13-digit corporate number is
// globally unique and required before any contracting.
type Client struct {
	ID                      string     `json:"id"`
	Name                    string     `json:"name"`
	NameFurigana            string     `json:"nameFurigana"`
	CorporateNumber         string     `json:"corporateNumber"`
	BasicContractDate       *time.Time `json:"basicContractDate,omitempty"`
	BasicContractDateHaken  *time.Time `json:"basicContractDateHaken,omitempty"`
	DefaultPaymentSite      string     `json:"defaultPaymentSite,omitempty"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// ClientDepartment is an organizational unit on the client side. Flags mark
// which units may appear as dispatch workplaces (事業所) and dispatch
// organizational units (組織単位) on haken contracts.
type ClientDepartment struct {
	ID            string `json:"id"`
	ClientID      string `json:"clientId"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	ManagerTitle  string `json:"managerTitle"`
	IsHakenOffice bool   `json:"isHakenOffice"`
	IsHakenUnit   bool   `json:"isHakenUnit"`
}

// ClientUser is a counterparty account able to confirm issued documents.
type ClientUser struct {
	ID           string `json:"id"`
	ClientID     string `json:"clientId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

const codeChars = "123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Code derives the stable client code used in contract numbers: the
// corporate number without its check digit, base-33 encoded and left padded
// with 'A' to eight characters. Empty when no valid corporate number is on
// file.
func (c Client) Code() string {
	return CodeFromCorporateNumber(c.CorporateNumber)
}

func CodeFromCorporateNumber(corporateNumber string) string {
	if len(corporateNumber) != 13 {
		return ""
	}
	var num int64
	for _, r := range corporateNumber {
		if r < '0' || r > '9' {
			return ""
		}
	}
	for _, r := range corporateNumber[1:] {
		num = num*10 + int64(r-'0')
	}
	if num == 0 {
		return "AAAAAAAA"
	}
	base := int64(len(codeChars))
	result := ""
	for num > 0 {
		rem := num % base
		num /= base
		result = string(codeChars[rem]) + result
	}
	for len(result) < 8 {
		result = "A" + result
	}
	return result
}
