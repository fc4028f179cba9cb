package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses at the handler layer
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrFolderNotFound     = errors.New("folder not found")
	ErrFileNotFound       = errors.New("file not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrInvalidParent covers structural violations: parent folder in a
	// different course, or a missing container.
	ErrInvalidParent = errors.New("invalid parent container")

	// ErrStoreUnavailable means the object store rejected an upload or
	// a presign request; content metadata stays untouched.
	ErrStoreUnavailable = errors.New("object store unavailable")

	ErrUnauthorized = errors.New("user not authenticated")
)

// PermissionError carries enough context to log who tried what on which
// resource
type PermissionError struct {
	UserID     string
	ResourceID string
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// BusinessRuleError is a rule violation that is neither a validation
// failure nor a permission problem
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}
