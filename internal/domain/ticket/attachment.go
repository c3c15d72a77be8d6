package ticket

import (
	"fmt"
	"path"
)

// AttachmentKind distinguishes how an attachment is resolved to bytes.
type AttachmentKind string

const (
	// AttachmentInline is a resource referenced by URL inside a message body.
	AttachmentInline AttachmentKind = "inline"
	// AttachmentStored is a file in the source system's storage tree,
	// addressed by upload hash beneath a configured base path.
	AttachmentStored AttachmentKind = "stored"
)

// AttachmentRef points at an attachment owned by a ticket or message.
// It is discovered either from attachment metadata rows (stored) or from a
// body scan during composition (inline), and resolved to local bytes by the
// fetcher exactly once per remote path.
type AttachmentRef struct {
	kind       AttachmentKind
	name       string
	url        string
	uploadHash string
}

func NewInlineAttachment(name, url string) (AttachmentRef, error) {
	if name == "" {
		return AttachmentRef{}, fmt.Errorf("attachment name is required")
	}
	if url == "" {
		return AttachmentRef{}, fmt.Errorf("attachment URL is required")
	}
	return AttachmentRef{kind: AttachmentInline, name: name, url: url}, nil
}

func NewStoredAttachment(name, uploadHash string) (AttachmentRef, error) {
	if name == "" {
		return AttachmentRef{}, fmt.Errorf("attachment name is required")
	}
	if uploadHash == "" {
		return AttachmentRef{}, fmt.Errorf("attachment upload hash is required")
	}
	return AttachmentRef{kind: AttachmentStored, name: name, uploadHash: uploadHash}, nil
}

func (a AttachmentRef) Kind() AttachmentKind {
	return a.kind
}

func (a AttachmentRef) Name() string {
	return a.name
}

func (a AttachmentRef) URL() string {
	return a.url
}

func (a AttachmentRef) UploadHash() string {
	return a.uploadHash
}

func (a AttachmentRef) IsInline() bool {
	return a.kind == AttachmentInline
}

// RemotePath returns the dedupe key for this ref: the storage path for stored
// attachments, the URL for inline ones.
func (a AttachmentRef) RemotePath(base string) string {
	if a.kind == AttachmentStored {
		return path.Join(base, a.uploadHash)
	}
	return a.url
}
