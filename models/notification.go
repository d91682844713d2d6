package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification type constants
const (
	NotificationTypeApproval     = "aprovacao"
	NotificationTypeStatusChange = "mudanca_status"
)

// PendingNotification is an outbox row written in the same transaction as
// the order update it describes. The dispatcher publishes pending rows to
// the messaging broker and marks them sent; failed publishes keep the row
// with an incremented attempt count so the retry loop picks them up again.
type PendingNotification struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	OSID      string     `gorm:"column:os_id;size:36;not null;index" json:"os_id"`
	EmpresaID string     `gorm:"column:empresa_id;size:36" json:"empresa_id"`
	Tipo      string     `gorm:"size:40;not null" json:"tipo"`
	Status    string     `gorm:"size:40" json:"status"` // new general status, for the status-change case
	Attempts  int        `gorm:"not null;default:0" json:"attempts"`
	LastError string     `gorm:"column:last_error;type:text" json:"last_error,omitempty"`
	SentAt    *time.Time `gorm:"column:sent_at;index" json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the PendingNotification model
func (PendingNotification) TableName() string {
	return "notificacoes_pendentes"
}

func (n *PendingNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
