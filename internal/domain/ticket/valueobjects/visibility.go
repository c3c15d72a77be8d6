package valueobjects

// Visibility is the audience of a ticket message.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
)

// sourceInternalType is the message type code the source store uses for
// internal notes.
const sourceInternalType = 1

// VisibilityFromSourceType maps the source store's message type code.
func VisibilityFromSourceType(msgType int) Visibility {
	if msgType == sourceInternalType {
		return VisibilityInternal
	}
	return VisibilityPublic
}

func (v Visibility) String() string {
	return string(v)
}

func (v Visibility) IsInternal() bool {
	return v == VisibilityInternal
}

func (v Visibility) IsPublic() bool {
	return v == VisibilityPublic
}
