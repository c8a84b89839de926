package checkout

import (
	"regexp"
	"strings"
)

var (
	zipPattern = regexp.MustCompile(`^\d{5,6}$`)
	nonDigits  = regexp.MustCompile(`\D`)
)

// Address is the delivery address collected for a single checkout attempt.
// It is transient: validated fresh per attempt and never persisted.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Phone   string `json:"phone"`
}

// Validate returns a field -> message map; an empty map means the address is
// valid. Validation is purely local, nothing leaves the process.
func (a Address) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(a.Street) == "" {
		errs["street"] = "street address is required"
	}
	if strings.TrimSpace(a.City) == "" {
		errs["city"] = "city is required"
	}
	if strings.TrimSpace(a.State) == "" {
		errs["state"] = "state is required"
	}

	if strings.TrimSpace(a.ZipCode) == "" {
		errs["zip_code"] = "ZIP code is required"
	} else if !zipPattern.MatchString(a.ZipCode) {
		errs["zip_code"] = "invalid ZIP code"
	}

	if strings.TrimSpace(a.Phone) == "" {
		errs["phone"] = "phone number is required"
	} else if len(nonDigits.ReplaceAllString(a.Phone, "")) != 10 {
		errs["phone"] = "invalid phone number"
	}

	return errs
}
