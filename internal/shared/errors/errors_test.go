package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"source unavailable is run fatal", NewSourceUnavailable("db down", nil), SeverityRunFatal},
		{"auth failure is run fatal", NewAuthFailure("rejected", nil), SeverityRunFatal},
		{"issue create is ticket fatal", NewIssueCreateFailed("create failed", nil), SeverityTicketFatal},
		{"comment post is recorded", NewCommentPostFailed("post failed", nil), SeverityRecorded},
		{"attachment missing is recorded", NewAttachmentMissing("gone", nil), SeverityRecorded},
		{"attachment upload is recorded", NewAttachmentUploadFailed("upload failed", nil), SeverityRecorded},
		{"field update is recorded", NewFieldUpdateFailed("priority", nil), SeverityRecorded},
		{"transition is recorded", NewTransitionFailed("no transition", nil), SeverityRecorded},
		{"timestamp overwrite is recorded", NewTimestampOverwriteFailed("denied", nil), SeverityRecorded},
		{"malformed body is recorded", NewMalformedBody("nul bytes", nil), SeverityRecorded},
		{"unknown error is ticket fatal", stderrors.New("mystery"), SeverityTicketFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityOf(tt.err))
		})
	}
}

func TestIsRunFatal(t *testing.T) {
	assert.True(t, IsRunFatal(NewAuthFailure("rejected", nil)))
	assert.False(t, IsRunFatal(NewCommentPostFailed("post failed", nil)))
	assert.False(t, IsRunFatal(nil))
}

func TestGetMigrationError_UnwrapsChain(t *testing.T) {
	inner := NewAttachmentMissing("gone", stderrors.New("404"))
	wrapped := fmt.Errorf("fetching: %w", inner)

	got := GetMigrationError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrorTypeAttachmentMissing, got.Type)

	assert.Nil(t, GetMigrationError(stderrors.New("plain")))
}

func TestMigrationError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("status 503")
	err := NewCommentPostFailed("failed to post comment 2", cause)

	assert.Equal(t, "comment_post_failed: failed to post comment 2: status 503", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))

	bare := NewAuthFailure("rejected", nil)
	assert.Equal(t, "auth_failure: rejected", bare.Error())
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewTransitionFailed("no done transition", nil))
	assert.True(t, IsType(err, ErrorTypeTransitionFailed))
	assert.False(t, IsType(err, ErrorTypeAuthFailure))
	assert.False(t, IsType(nil, ErrorTypeAuthFailure))
}
