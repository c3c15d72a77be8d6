// Package errors provides the migration error taxonomy.
// Each error carries a type and a severity that decides whether the run,
// the ticket, or only the current step is abandoned.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of migration error
type ErrorType string

const (
	ErrorTypeSourceUnavailable   ErrorType = "source_unavailable"
	ErrorTypeAuthFailure         ErrorType = "auth_failure"
	ErrorTypeIssueCreateFailed   ErrorType = "issue_create_failed"
	ErrorTypeCommentPostFailed   ErrorType = "comment_post_failed"
	ErrorTypeAttachmentMissing   ErrorType = "attachment_missing"
	ErrorTypeAttachmentUpload    ErrorType = "attachment_upload_failed"
	ErrorTypeFieldUpdateFailed   ErrorType = "field_update_failed"
	ErrorTypeTransitionFailed    ErrorType = "transition_failed"
	ErrorTypeTimestampOverwrite  ErrorType = "timestamp_overwrite_failed"
	ErrorTypeMalformedBody       ErrorType = "malformed_body"
)

// Severity classifies how far an error propagates.
type Severity int

const (
	// SeverityRecorded errors are captured in the ticket result and migration continues.
	SeverityRecorded Severity = iota
	// SeverityTicketFatal errors abandon the current ticket only.
	SeverityTicketFatal
	// SeverityRunFatal errors abort the entire run.
	SeverityRunFatal
)

var severityByType = map[ErrorType]Severity{
	ErrorTypeSourceUnavailable:  SeverityRunFatal,
	ErrorTypeAuthFailure:        SeverityRunFatal,
	ErrorTypeIssueCreateFailed:  SeverityTicketFatal,
	ErrorTypeCommentPostFailed:  SeverityRecorded,
	ErrorTypeAttachmentMissing:  SeverityRecorded,
	ErrorTypeAttachmentUpload:   SeverityRecorded,
	ErrorTypeFieldUpdateFailed:  SeverityRecorded,
	ErrorTypeTransitionFailed:   SeverityRecorded,
	ErrorTypeTimestampOverwrite: SeverityRecorded,
	ErrorTypeMalformedBody:      SeverityRecorded,
}

// MigrationError represents a migration error with type and context
type MigrationError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *MigrationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *MigrationError) Unwrap() error {
	return e.Cause
}

// Severity returns how far this error propagates.
func (e *MigrationError) Severity() Severity {
	return severityByType[e.Type]
}

func newError(t ErrorType, message string, cause error) *MigrationError {
	return &MigrationError{Type: t, Message: message, Cause: cause}
}

// NewSourceUnavailable creates a fatal source-store error
func NewSourceUnavailable(message string, cause error) *MigrationError {
	return newError(ErrorTypeSourceUnavailable, message, cause)
}

// NewAuthFailure creates a fatal destination-auth error
func NewAuthFailure(message string, cause error) *MigrationError {
	return newError(ErrorTypeAuthFailure, message, cause)
}

// NewIssueCreateFailed creates a ticket-fatal issue creation error
func NewIssueCreateFailed(message string, cause error) *MigrationError {
	return newError(ErrorTypeIssueCreateFailed, message, cause)
}

// NewCommentPostFailed creates a recorded comment posting error
func NewCommentPostFailed(message string, cause error) *MigrationError {
	return newError(ErrorTypeCommentPostFailed, message, cause)
}

// NewAttachmentMissing creates a recorded missing-attachment error
func NewAttachmentMissing(message string, cause error) *MigrationError {
	return newError(ErrorTypeAttachmentMissing, message, cause)
}

// NewAttachmentUploadFailed creates a recorded upload error
func NewAttachmentUploadFailed(message string, cause error) *MigrationError {
	return newError(ErrorTypeAttachmentUpload, message, cause)
}

// NewFieldUpdateFailed creates a recorded field-update error
func NewFieldUpdateFailed(message string, cause error) *MigrationError {
	return newError(ErrorTypeFieldUpdateFailed, message, cause)
}

// NewTransitionFailed creates a recorded workflow-transition error
func NewTransitionFailed(message string, cause error) *MigrationError {
	return newError(ErrorTypeTransitionFailed, message, cause)
}

// NewTimestampOverwriteFailed creates a recorded backdating error
func NewTimestampOverwriteFailed(message string, cause error) *MigrationError {
	return newError(ErrorTypeTimestampOverwrite, message, cause)
}

// NewMalformedBody creates a recorded body-decoding error
func NewMalformedBody(message string, cause error) *MigrationError {
	return newError(ErrorTypeMalformedBody, message, cause)
}

// GetMigrationError extracts a MigrationError from an error chain
func GetMigrationError(err error) *MigrationError {
	var merr *MigrationError
	if errors.As(err, &merr) {
		return merr
	}
	return nil
}

// SeverityOf returns the severity of an error. Errors outside the taxonomy
// are treated as ticket-fatal so an unknown failure never poisons the run.
func SeverityOf(err error) Severity {
	if err == nil {
		return SeverityRecorded
	}
	if merr := GetMigrationError(err); merr != nil {
		return merr.Severity()
	}
	return SeverityTicketFatal
}

// IsRunFatal reports whether the error must abort the whole run
func IsRunFatal(err error) bool {
	return SeverityOf(err) == SeverityRunFatal
}

// IsType checks the migration error type
func IsType(err error, t ErrorType) bool {
	merr := GetMigrationError(err)
	return merr != nil && merr.Type == t
}
