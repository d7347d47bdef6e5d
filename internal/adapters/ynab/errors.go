package ynab

import (
	"errors"
	"fmt"
)

var (
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrAccountNotFound = errors.New("account not found")
)

// APIError is a non-2xx response from the YNAB API
type APIError struct {
	StatusCode int
	ID         string
	Name       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("YNAB API error %d: %s (%s)", e.StatusCode, e.Detail, e.Name)
	}
	return fmt.Sprintf("YNAB API returned status %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
