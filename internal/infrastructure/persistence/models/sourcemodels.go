// Package models mirrors the source helpdesk tables read by the migration.
// The schema is owned by the helpdesk application; these models are read-only
// projections of the columns the pipeline needs.
package models

type TicketModel struct {
	ID         uint   `gorm:"column:id;primaryKey"`
	Number     string `gorm:"column:number"`
	Subject    string `gorm:"column:subject"`
	PriorityID int    `gorm:"column:priority_id"`
	StatusID   int    `gorm:"column:status_id"`
	UserID     uint   `gorm:"column:user_id"`
	CreatedAt  int64  `gorm:"column:created_at"` // unix seconds
}

func (TicketModel) TableName() string {
	return "ticket"
}

type TicketMessageModel struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	TicketID  uint   `gorm:"column:ticket_id"`
	UserID    uint   `gorm:"column:user_id"`
	UserName  string `gorm:"column:user_name"`
	Text      string `gorm:"column:text"`
	Type      int    `gorm:"column:type"` // 0 public reply, 1 internal note
	CreatedAt int64  `gorm:"column:created_at"` // unix seconds
}

func (TicketMessageModel) TableName() string {
	return "ticket_message"
}

type TicketAttachmentModel struct {
	ID           uint   `gorm:"column:id;primaryKey"`
	TicketID     uint   `gorm:"column:ticket_id"`
	UploadHash   string `gorm:"column:upload_hash"`
	OriginalName string `gorm:"column:original_name"`
}

func (TicketAttachmentModel) TableName() string {
	return "ticket_attachment"
}

type UserModel struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	FirstName string `gorm:"column:firstname"`
	LastName  string `gorm:"column:lastname"`
	Email     string `gorm:"column:email"`
}

func (UserModel) TableName() string {
	return "user"
}
