package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInlineAttachment(t *testing.T) {
	ref, err := NewInlineAttachment("photo.png", "https://new.example.com/files/abc123")
	require.NoError(t, err)
	assert.Equal(t, AttachmentInline, ref.Kind())
	assert.True(t, ref.IsInline())
	assert.Equal(t, "photo.png", ref.Name())

	_, err = NewInlineAttachment("", "https://x")
	assert.Error(t, err)
	_, err = NewInlineAttachment("photo.png", "")
	assert.Error(t, err)
}

func TestNewStoredAttachment(t *testing.T) {
	ref, err := NewStoredAttachment("report.pdf", "abc123")
	require.NoError(t, err)
	assert.Equal(t, AttachmentStored, ref.Kind())
	assert.False(t, ref.IsInline())
	assert.Equal(t, "abc123", ref.UploadHash())

	_, err = NewStoredAttachment("", "abc123")
	assert.Error(t, err)
	_, err = NewStoredAttachment("report.pdf", "")
	assert.Error(t, err)
}

func TestAttachmentRef_RemotePath(t *testing.T) {
	stored, err := NewStoredAttachment("report.pdf", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "/srv/attachments/abc123", stored.RemotePath("/srv/attachments"))

	inline, err := NewInlineAttachment("photo.png", "https://new.example.com/files/xyz")
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com/files/xyz", inline.RemotePath("/srv/attachments"))
}
