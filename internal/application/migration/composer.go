package migration

import (
	"fmt"
	"unicode/utf8"

	dm "tixport/internal/domain/migration"
	"tixport/internal/domain/ticket"
	"tixport/internal/shared/biztime"
	apperrors "tixport/internal/shared/errors"
	"tixport/internal/shared/logger"
	"tixport/internal/shared/services/wikitext"
)

// Composer transforms a ticket and its messages into the destination issue's
// creation payload and ordered comment payloads. Composition is pure apart
// from logging: no remote calls are made.
type Composer struct {
	wikitext          wikitext.Service
	labelPrefix       string
	maxDescriptionLen int
	logger            logger.Interface
}

func NewComposer(
	wikitextSvc wikitext.Service,
	labelPrefix string,
	maxDescriptionLen int,
	log logger.Interface,
) *Composer {
	if maxDescriptionLen <= 0 {
		maxDescriptionLen = 32767
	}
	return &Composer{
		wikitext:          wikitextSvc,
		labelPrefix:       labelPrefix,
		maxDescriptionLen: maxDescriptionLen,
		logger:            log,
	}
}

// SourceLabel derives the destination label that keys a source ticket. Its
// presence on an issue marks the ticket as already migrated.
func SourceLabel(prefix, ticketNumber string) string {
	return fmt.Sprintf("%s-ticket-%s", prefix, ticketNumber)
}

// Compose renders the ticket into an issue payload plus ordered comments.
// The earliest message becomes the description; each later message becomes
// one comment. hashNames maps upload hashes to original filenames so inline
// image placeholders carry the human-readable name. Messages whose body
// cannot be decoded are skipped and reported as warnings; composition itself
// never fails for a whole ticket.
func (c *Composer) Compose(t *ticket.Ticket, hashNames map[string]string) (*dm.ComposedIssue, []error) {
	var warnings []error

	resolve := func(hash string) string {
		return hashNames[hash]
	}

	composed := &dm.ComposedIssue{
		Create: dm.IssueCreatePayload{
			Summary: fmt.Sprintf("[%s] %s (Created: %s)", t.Number(), t.Subject(), biztime.FormatDate(t.CreatedAt())),
			Labels: []string{
				c.labelPrefix + "-migration",
				SourceLabel(c.labelPrefix, t.Number()),
			},
		},
		InlineNames: make(map[string]string),
	}

	var description string

	for i, msg := range t.Messages() {
		body, images, err := c.renderMessage(msg, i == 0, resolve)
		if err != nil {
			c.logger.Warnw("skipping message with undecodable body",
				"ticket", t.Number(), "message_id", msg.ID(), "error", err)
			warnings = append(warnings, err)
			continue
		}

		for _, img := range images {
			if _, seen := composed.InlineNames[img.Name]; seen {
				continue
			}
			ref, refErr := ticket.NewInlineAttachment(img.Name, img.URL)
			if refErr != nil {
				continue
			}
			composed.InlineRefs = append(composed.InlineRefs, ref)
			composed.InlineNames[img.Name] = img.URL
		}

		if description == "" {
			description = c.submitterPanel(t) + "\n\n" + body
			continue
		}
		composed.Comments = append(composed.Comments, dm.CommentPayload{Body: body})
	}

	if description == "" {
		description = c.submitterPanel(t) + "\n\n" + t.Subject()
	}

	// The destination caps description length; overflow is carried as extra
	// comments after the thread.
	if len(description) > c.maxDescriptionLen {
		head, chunks := splitDescription(description, c.maxDescriptionLen)
		description = head
		for _, chunk := range chunks {
			composed.Comments = append(composed.Comments, dm.CommentPayload{Body: chunk})
		}
		c.logger.Warnw("description too long, overflow posted as comments",
			"ticket", t.Number(), "chunks", len(chunks))
	}

	composed.Create.Description = description
	return composed, warnings
}

// renderMessage converts one message body to wiki markup with its header.
// Internal notes are wrapped in a restricted-visibility panel so they never
// render as plain public text.
func (c *Composer) renderMessage(msg *ticket.Message, first bool, resolve wikitext.NameResolver) (string, []wikitext.InlineImage, error) {
	doc, err := c.wikitext.Convert(msg.Body(), resolve)
	if err != nil {
		return "", nil, apperrors.NewMalformedBody(
			fmt.Sprintf("message %d body cannot be decoded", msg.ID()), err)
	}

	verb := "Commented"
	if first {
		verb = "Originally created"
	}
	header := fmt.Sprintf("*%s by %s on %s*", verb, msg.AuthorName(), biztime.FormatHeader(msg.CreatedAt()))

	body := c.wikitext.Render(doc)
	text := header
	if body != "" {
		text = header + "\n\n" + body
	}

	if msg.IsInternal() {
		text = fmt.Sprintf("{panel:title=Internal Note|bgColor=#DEEBFF}\n%s\n{panel}", text)
	}
	return text, doc.InlineImages(), nil
}

func (c *Composer) submitterPanel(t *ticket.Ticket) string {
	return fmt.Sprintf("{panel:title=Submitter|bgColor=#EAE6FF}\nSubmitted by: *%s*\n{panel}", t.SubmitterName())
}

// splitDescription cuts an oversized description into a head that fits plus
// overflow chunks. Cuts land on rune boundaries so no chunk carries a torn
// multibyte sequence.
func splitDescription(s string, max int) (string, []string) {
	head, tail := cutAtRuneBoundary(s, max)
	var chunks []string
	for len(tail) > 0 {
		var chunk string
		chunk, tail = cutAtRuneBoundary(tail, max)
		chunks = append(chunks, chunk)
	}
	return head, chunks
}

func cutAtRuneBoundary(s string, n int) (string, string) {
	if len(s) <= n {
		return s, ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n], s[n:]
}
