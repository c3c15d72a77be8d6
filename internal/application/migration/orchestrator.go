package migration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	dm "tixport/internal/domain/migration"
	"tixport/internal/domain/ticket"
	vo "tixport/internal/domain/ticket/valueobjects"
	apperrors "tixport/internal/shared/errors"
	"tixport/internal/shared/goroutine"
	"tixport/internal/shared/logger"
)

// RunMode selects how the ticket set for a run is chosen.
type RunMode string

const (
	// ModeSingle migrates exactly one ticket, addressed by its number.
	ModeSingle RunMode = "single"
	// ModeAll migrates every ticket in the source store.
	ModeAll RunMode = "all"
)

// RunRequest describes one migration invocation.
type RunRequest struct {
	Mode                   RunMode
	TicketNumber           string
	FetchStoredAttachments bool
}

// Orchestrator drives each ticket through the migration pipeline. Tickets are
// processed sequentially; only attachment uploads within a ticket run
// concurrently. A run-fatal error aborts the run with the partial summary.
type Orchestrator struct {
	source           ticket.SourceRepository
	destination      dm.Destination
	composer         *Composer
	fetcher          *Fetcher
	priorities       vo.PriorityMap
	labelPrefix      string
	doneTransitionID string
	uploadWorkers    int
	logger           logger.Interface
}

func NewOrchestrator(
	source ticket.SourceRepository,
	destination dm.Destination,
	composer *Composer,
	fetcher *Fetcher,
	priorities vo.PriorityMap,
	labelPrefix string,
	doneTransitionID string,
	uploadWorkers int,
	log logger.Interface,
) *Orchestrator {
	if uploadWorkers <= 0 {
		uploadWorkers = 5
	}
	return &Orchestrator{
		source:           source,
		destination:      destination,
		composer:         composer,
		fetcher:          fetcher,
		priorities:       priorities,
		labelPrefix:      labelPrefix,
		doneTransitionID: doneTransitionID,
		uploadWorkers:    uploadWorkers,
		logger:           log,
	}
}

// Run executes one migration run and returns its summary. The summary is
// returned even when the run aborts early, covering the tickets processed so
// far. The returned error is non-nil only for run-fatal conditions.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) (*dm.RunSummary, error) {
	runID := uuid.NewString()[:8]
	summary := dm.NewRunSummary(runID)

	o.logger.Infow("migration run starting", "run_id", runID, "mode", string(req.Mode))

	if req.Mode == ModeSingle {
		t, err := o.source.GetByNumber(ctx, req.TicketNumber)
		if err != nil {
			return summary, err
		}
		result := o.runTicket(ctx, t, req.FetchStoredAttachments)
		summary.Add(result)
		if apperrors.IsRunFatal(result.Err()) {
			return summary, result.Err()
		}
		return summary, nil
	}

	ids, err := o.source.ListTicketIDs(ctx)
	if err != nil {
		return summary, err
	}
	o.logger.Infow("source tickets enumerated", "run_id", runID, "count", len(ids))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		t, err := o.source.GetByID(ctx, id)
		if err != nil {
			return summary, err
		}

		result := o.runTicket(ctx, t, req.FetchStoredAttachments)
		summary.Add(result)
		if apperrors.IsRunFatal(result.Err()) {
			o.logger.Errorw("run-fatal error, aborting run",
				"run_id", runID, "ticket", t.Number(), "error", result.Err())
			return summary, result.Err()
		}
	}

	o.logger.Infow("migration run finished",
		"run_id", runID,
		"attempted", summary.Attempted(),
		"succeeded", summary.Succeeded(),
		"skipped", summary.Skipped(),
		"failed", summary.Failed())
	return summary, nil
}

// runTicket isolates one ticket's migration: a panic anywhere in the pipeline
// fails that ticket instead of the run.
func (o *Orchestrator) runTicket(ctx context.Context, t *ticket.Ticket, fetchStored bool) *dm.TicketResult {
	var result *dm.TicketResult
	err := goroutine.SafeCall(o.logger, "migrate ticket "+t.Number(), func() {
		result = o.migrateTicket(ctx, t, fetchStored)
	})
	if err != nil {
		result = dm.NewTicketResult(t.Number())
		result.Fail(err)
	}
	return result
}

// migrateTicket runs the pipeline for one ticket. Failures in one ticket
// never leak into the next: everything non-fatal lands in the result as a
// warning and the pipeline presses on.
func (o *Orchestrator) migrateTicket(ctx context.Context, t *ticket.Ticket, fetchStored bool) *dm.TicketResult {
	result := dm.NewTicketResult(t.Number())
	log := o.logger.With("ticket", t.Number())

	label := SourceLabel(o.labelPrefix, t.Number())
	existingKey, found, err := o.destination.FindIssueByLabel(ctx, label)
	if err != nil {
		result.Fail(err)
		return result
	}
	if found {
		log.Infow("ticket already migrated, skipping", "issue", existingKey)
		result.MarkSkipped(existingKey)
		return result
	}

	storedRefs, err := o.source.GetStoredAttachments(ctx, t.ID())
	if err != nil {
		result.Fail(err)
		return result
	}
	hashNames := make(map[string]string, len(storedRefs))
	for _, ref := range storedRefs {
		hashNames[ref.UploadHash()] = ref.Name()
	}

	composed, composeWarnings := o.composer.Compose(t, hashNames)
	for _, w := range composeWarnings {
		result.AddWarning(w)
	}

	issueKey, err := o.destination.CreateIssue(ctx, composed.Create)
	if err != nil {
		if apperrors.GetMigrationError(err) == nil {
			err = apperrors.NewIssueCreateFailed(
				fmt.Sprintf("failed to create issue for ticket %s", t.Number()), err)
		}
		result.Fail(err)
		return result
	}
	result.SetIssueKey(issueKey)
	log = log.With("issue", issueKey)
	log.Infow("issue created")
	if err := result.Advance(dm.StateIssueCreated); err != nil {
		result.Fail(err)
		return result
	}

	commentIDs := o.postComments(ctx, issueKey, composed, result, log)
	if result.State() == dm.StateFailed {
		return result
	}
	if err := result.Advance(dm.StateCommentsPosted); err != nil {
		result.Fail(err)
		return result
	}

	failedInline := o.uploadAttachments(ctx, issueKey, t, storedRefs, composed, fetchStored, result, log)
	if result.State() == dm.StateFailed {
		return result
	}
	if err := result.Advance(dm.StateAttachmentsUploaded); err != nil {
		result.Fail(err)
		return result
	}

	if len(failedInline) > 0 {
		o.degradeInlinePlaceholders(ctx, issueKey, composed, commentIDs, failedInline, result, log)
		if result.State() == dm.StateFailed {
			return result
		}
	}

	priorityLabel := o.priorities.Label(t.PriorityCode())
	if err := o.destination.UpdatePriority(ctx, issueKey, priorityLabel); err != nil {
		if apperrors.IsRunFatal(err) {
			result.Fail(err)
			return result
		}
		result.AddWarning(apperrors.NewFieldUpdateFailed(
			fmt.Sprintf("failed to set priority %s", priorityLabel), err))
	}
	if err := result.Advance(dm.StatePrioritySet); err != nil {
		result.Fail(err)
		return result
	}

	o.transitionToDone(ctx, issueKey, result, log)
	if result.State() == dm.StateFailed {
		return result
	}
	if err := result.Advance(dm.StateTransitioned); err != nil {
		result.Fail(err)
		return result
	}

	// Both timestamps are backdated to the ticket's original creation time.
	if err := o.destination.SetTimestamps(ctx, issueKey, t.CreatedAt(), t.CreatedAt()); err != nil {
		if apperrors.IsRunFatal(err) {
			result.Fail(err)
			return result
		}
		result.AddWarning(apperrors.NewTimestampOverwriteFailed(
			"failed to overwrite issue timestamps", err))
	}

	if err := result.Advance(dm.StateDone); err != nil {
		result.Fail(err)
		return result
	}
	log.Infow("ticket migrated", "warnings", len(result.Warnings()))
	return result
}

// postComments posts the composed comments in thread order. A failed comment
// is recorded and skipped; its slot in the returned ID slice stays empty so
// later placeholder edits know there is nothing to update.
func (o *Orchestrator) postComments(
	ctx context.Context,
	issueKey string,
	composed *dm.ComposedIssue,
	result *dm.TicketResult,
	log logger.Interface,
) []string {
	commentIDs := make([]string, len(composed.Comments))
	for i, comment := range composed.Comments {
		id, err := o.destination.AddComment(ctx, issueKey, comment.Body)
		if err != nil {
			if apperrors.IsRunFatal(err) {
				result.Fail(err)
				return commentIDs
			}
			log.Warnw("failed to post comment", "index", i, "error", err)
			result.AddWarning(apperrors.NewCommentPostFailed(
				fmt.Sprintf("failed to post comment %d of %d", i+1, len(composed.Comments)), err))
			continue
		}
		commentIDs[i] = id
	}
	return commentIDs
}

// uploadAttachments fetches and uploads every attachment with bounded
// concurrency. Individual failures are recorded; only run-fatal errors stop
// the ticket. The returned set names the inline images that never made it up.
func (o *Orchestrator) uploadAttachments(
	ctx context.Context,
	issueKey string,
	t *ticket.Ticket,
	storedRefs []ticket.AttachmentRef,
	composed *dm.ComposedIssue,
	fetchStored bool,
	result *dm.TicketResult,
	log logger.Interface,
) map[string]bool {
	var refs []ticket.AttachmentRef
	seen := make(map[string]bool)
	appendRef := func(ref ticket.AttachmentRef) {
		key := ref.URL()
		if !ref.IsInline() {
			key = ref.UploadHash()
		}
		if seen[key] {
			return
		}
		seen[key] = true
		refs = append(refs, ref)
	}
	if fetchStored {
		for _, ref := range storedRefs {
			appendRef(ref)
		}
	}
	for _, ref := range composed.InlineRefs {
		appendRef(ref)
	}
	if len(refs) == 0 {
		return nil
	}

	var mu sync.Mutex
	failedInline := make(map[string]bool)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.uploadWorkers)
	for _, ref := range refs {
		ref := ref
		group.Go(func() error {
			err := o.uploadOne(groupCtx, issueKey, ref)
			if err == nil {
				return nil
			}
			if apperrors.IsRunFatal(err) {
				return err
			}
			mu.Lock()
			result.AddWarning(err)
			if ref.IsInline() {
				failedInline[ref.Name()] = true
			}
			mu.Unlock()
			log.Warnw("attachment not uploaded", "name", ref.Name(), "error", err)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		result.Fail(err)
		return failedInline
	}
	return failedInline
}

func (o *Orchestrator) uploadOne(ctx context.Context, issueKey string, ref ticket.AttachmentRef) error {
	file, err := o.fetcher.Fetch(ctx, ref)
	if err != nil {
		return err
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return apperrors.NewAttachmentUploadFailed(
			fmt.Sprintf("failed to open staged file for %s", ref.Name()), err)
	}
	defer f.Close()

	if err := o.destination.UploadAttachment(ctx, issueKey, file.Name, f); err != nil {
		if apperrors.IsRunFatal(err) {
			return err
		}
		return apperrors.NewAttachmentUploadFailed(
			fmt.Sprintf("failed to upload %s", ref.Name()), err)
	}
	return nil
}

// degradeInlinePlaceholders rewrites image placeholders whose upload failed
// back into plain links to the original resource, so bodies never render a
// broken embed.
func (o *Orchestrator) degradeInlinePlaceholders(
	ctx context.Context,
	issueKey string,
	composed *dm.ComposedIssue,
	commentIDs []string,
	failedInline map[string]bool,
	result *dm.TicketResult,
	log logger.Interface,
) {
	replace := func(body string) (string, bool) {
		changed := false
		for name := range failedInline {
			placeholder := "!" + name + "!"
			if !strings.Contains(body, placeholder) {
				continue
			}
			url := composed.InlineNames[name]
			if url == "" {
				url = name
			}
			body = strings.ReplaceAll(body, placeholder, url)
			changed = true
		}
		return body, changed
	}

	if body, changed := replace(composed.Create.Description); changed {
		if err := o.destination.UpdateDescription(ctx, issueKey, body); err != nil {
			if apperrors.IsRunFatal(err) {
				result.Fail(err)
				return
			}
			result.AddWarning(apperrors.NewFieldUpdateFailed(
				"failed to rewrite image placeholders in description", err))
		}
	}

	for i, comment := range composed.Comments {
		if commentIDs[i] == "" {
			continue
		}
		body, changed := replace(comment.Body)
		if !changed {
			continue
		}
		if err := o.destination.UpdateComment(ctx, issueKey, commentIDs[i], body); err != nil {
			if apperrors.IsRunFatal(err) {
				result.Fail(err)
				return
			}
			log.Warnw("failed to rewrite image placeholders in comment", "comment_id", commentIDs[i], "error", err)
			result.AddWarning(apperrors.NewFieldUpdateFailed(
				fmt.Sprintf("failed to rewrite image placeholders in comment %s", commentIDs[i]), err))
		}
	}
}

// transitionToDone closes the issue. The transition ID comes from config when
// set, otherwise it is discovered from the issue's available transitions.
func (o *Orchestrator) transitionToDone(
	ctx context.Context,
	issueKey string,
	result *dm.TicketResult,
	log logger.Interface,
) {
	transitionID := o.doneTransitionID
	if transitionID == "" {
		discovered, err := o.destination.DiscoverDoneTransition(ctx, issueKey)
		if err != nil {
			if apperrors.IsRunFatal(err) {
				result.Fail(err)
				return
			}
			result.AddWarning(apperrors.NewTransitionFailed(
				"failed to discover a done transition", err))
			return
		}
		transitionID = discovered
	}

	if err := o.destination.Transition(ctx, issueKey, transitionID); err != nil {
		if apperrors.IsRunFatal(err) {
			result.Fail(err)
			return
		}
		log.Warnw("failed to transition issue", "transition_id", transitionID, "error", err)
		result.AddWarning(apperrors.NewTransitionFailed(
			fmt.Sprintf("failed to apply transition %s", transitionID), err))
	}
}
