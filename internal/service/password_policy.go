package service

import "fmt"

const defaultPasswordMinLength = 8

type passwordPolicyError struct {
	minLength int
}

func (e passwordPolicyError) Error() string {
	return fmt.Sprintf("password must be at least %d characters", e.minLength)
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func validatePassword(minLength int, password string) error {
	if minLength <= 0 {
		minLength = defaultPasswordMinLength
	}
	if len([]rune(password)) < minLength {
		return passwordPolicyError{minLength: minLength}
	}
	return nil
}
