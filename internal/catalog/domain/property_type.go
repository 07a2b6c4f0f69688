package domain

import (
	"errors"
	"strings"
)

// PropertyType identifies the customer subscription plan family. Every
// property type maps to exactly one published plan.
type PropertyType string

const (
	PropertyHDB         PropertyType = "HDB"
	PropertyCondominium PropertyType = "CONDOMINIUM"
	PropertyLanded      PropertyType = "LANDED"
	PropertyCommercial  PropertyType = "COMMERCIAL"
)

// ErrInvalidPropertyType is returned when parsing an unknown property type.
var ErrInvalidPropertyType = errors.New("invalid property type")

// PropertyTypes lists all property types in catalog order.
func PropertyTypes() []PropertyType {
	return []PropertyType{PropertyHDB, PropertyCondominium, PropertyLanded, PropertyCommercial}
}

// ParsePropertyType creates a PropertyType from a string.
func ParsePropertyType(s string) (PropertyType, error) {
	pt := PropertyType(strings.ToUpper(strings.TrimSpace(s)))
	if !pt.IsValid() {
		return "", ErrInvalidPropertyType
	}
	return pt, nil
}

// IsValid reports whether the value is a known property type.
func (p PropertyType) IsValid() bool {
	switch p {
	case PropertyHDB, PropertyCondominium, PropertyLanded, PropertyCommercial:
		return true
	}
	return false
}

func (p PropertyType) String() string { return string(p) }
