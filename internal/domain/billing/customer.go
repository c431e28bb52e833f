package billing

import (
	"strings"

	"github.com/hms/backend/internal/domain/shared"
)

// CustomerType distinguishes registered patients from walk-in buyers
type CustomerType string

const (
	CustomerTypeRegistered CustomerType = "REGISTERED"
	CustomerTypeWalkIn     CustomerType = "WALK_IN"
)

// Customer identifies who a bill is issued to
type Customer struct {
	Type      CustomerType
	PatientID string
	Name      string
	Contact   string
}

// Validate checks the customer reference
func (c Customer) Validate() error {
	switch c.Type {
	case CustomerTypeRegistered:
		if strings.TrimSpace(c.PatientID) == "" {
			return shared.NewDomainError("INVALID_CUSTOMER", "Registered customer requires a patient id")
		}
	case CustomerTypeWalkIn:
	default:
		return shared.Errorf(shared.ErrInvalidInput, "Unknown customer type %q", c.Type)
	}
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	return nil
}
