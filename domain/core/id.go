package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	UserID   ID
	DeviceID ID
	ResultID ID
)

// String conversions for domain IDs
func (id UserID) String() string   { return ID(id).String() }
func (id DeviceID) String() string { return ID(id).String() }
func (id ResultID) String() string { return ID(id).String() }

// NewResultID creates a new result identifier
func NewResultID() ResultID {
	return ResultID(NewID())
}

// ParseUserID parses a string into UserID
func ParseUserID(s string) (UserID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("user ID cannot be empty")
	}
	return UserID(s), nil
}

// ParseDeviceID parses a string into DeviceID
func ParseDeviceID(s string) (DeviceID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("device ID cannot be empty")
	}
	return DeviceID(s), nil
}
