package device

import (
	"fmt"
	"unicode"
)

const (
	MinNameLen     = 3
	MaxNameLen     = 32
	MinPasswordLen = 8
)

type Validator interface {
	ValidateRegister(name, password string) error
	ValidateName(name string) error
}

type DefaultValidator struct{}

func NewValidator() *DefaultValidator {
	return &DefaultValidator{}
}

func (v *DefaultValidator) ValidateRegister(name, password string) error {
	if err := v.ValidateName(name); err != nil {
		return fmt.Errorf("name validation failed: %w", err)
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	return nil
}

func (v *DefaultValidator) ValidateName(name string) error {
	if len(name) < MinNameLen {
		return fmt.Errorf("name must be at least %d characters", MinNameLen)
	}
	if len(name) > MaxNameLen {
		return fmt.Errorf("name must be at most %d characters", MaxNameLen)
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return fmt.Errorf("name can only contain letters, digits, '_', '-', '.'")
		}
	}
	return nil
}
