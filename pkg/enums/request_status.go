package enums

import "fmt"

// RequestStatus is the display status carried on a buy request snapshot.
// Approval moves a request between record sets rather than editing this
// field, so approved copies keep the status they were created with.
type RequestStatus string

const (
	RequestStatusPending RequestStatus = "Pending"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusPending,
}

// String implements fmt.Stringer.
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RequestStatus.
func (s RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
