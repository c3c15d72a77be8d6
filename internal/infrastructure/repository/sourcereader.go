package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tixport/internal/domain/ticket"
	"tixport/internal/infrastructure/persistence/mappers"
	"tixport/internal/infrastructure/persistence/models"
	apperrors "tixport/internal/shared/errors"
)

// SourceReader implements ticket.SourceRepository over the helpdesk MySQL
// schema. All queries are read-only.
type SourceReader struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewSourceReader(db *gorm.DB) *SourceReader {
	return &SourceReader{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *SourceReader) ListTicketIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.NewSourceUnavailable("failed to list tickets", err)
	}
	return ids, nil
}

func (r *SourceReader) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	var row models.TicketModel
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewSourceUnavailable(fmt.Sprintf("ticket %d not found", id), err)
		}
		return nil, apperrors.NewSourceUnavailable("failed to load ticket", err)
	}
	return r.load(ctx, &row)
}

func (r *SourceReader) GetByNumber(ctx context.Context, number string) (*ticket.Ticket, error) {
	var row models.TicketModel
	if err := r.db.WithContext(ctx).
		Where("number = ?", number).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewSourceUnavailable(fmt.Sprintf("ticket %s not found", number), err)
		}
		return nil, apperrors.NewSourceUnavailable("failed to load ticket", err)
	}
	return r.load(ctx, &row)
}

func (r *SourceReader) GetStoredAttachments(ctx context.Context, ticketID uint) ([]ticket.AttachmentRef, error) {
	var rows []models.TicketAttachmentModel
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, apperrors.NewSourceUnavailable("failed to load attachment metadata", err)
	}

	refs := make([]ticket.AttachmentRef, 0, len(rows))
	for i := range rows {
		ref, err := r.mapper.ToStoredAttachment(&rows[i])
		if err != nil {
			return nil, apperrors.NewSourceUnavailable("invalid attachment metadata", err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// load assembles a full domain ticket: submitter, messages in creation order,
// and the author rows the mapper needs for name resolution.
func (r *SourceReader) load(ctx context.Context, row *models.TicketModel) (*ticket.Ticket, error) {
	submitter, err := r.findUser(ctx, row.UserID)
	if err != nil {
		return nil, err
	}

	var messages []models.TicketMessageModel
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ?", row.ID).
		Order("created_at, id").
		Find(&messages).Error; err != nil {
		return nil, apperrors.NewSourceUnavailable("failed to load ticket messages", err)
	}

	authors, err := r.findAuthors(ctx, messages)
	if err != nil {
		return nil, err
	}

	t, err := r.mapper.ToDomain(row, submitter, messages, authors)
	if err != nil {
		return nil, apperrors.NewSourceUnavailable("invalid ticket row", err)
	}
	return t, nil
}

func (r *SourceReader) findUser(ctx context.Context, id uint) (*models.UserModel, error) {
	if id == 0 {
		return nil, nil
	}
	var user models.UserModel
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewSourceUnavailable("failed to load user", err)
	}
	return &user, nil
}

func (r *SourceReader) findAuthors(ctx context.Context, messages []models.TicketMessageModel) (map[uint]models.UserModel, error) {
	ids := make([]uint, 0, len(messages))
	seen := make(map[uint]bool, len(messages))
	for _, m := range messages {
		if m.UserID != 0 && !seen[m.UserID] {
			seen[m.UserID] = true
			ids = append(ids, m.UserID)
		}
	}
	if len(ids) == 0 {
		return map[uint]models.UserModel{}, nil
	}

	var users []models.UserModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, apperrors.NewSourceUnavailable("failed to load message authors", err)
	}

	authors := make(map[uint]models.UserModel, len(users))
	for _, u := range users {
		authors[u.ID] = u
	}
	return authors, nil
}
