package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a message in an order's support conversation
type Comment struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	OSID      string         `gorm:"column:os_id;size:36;not null;index" json:"os_id"`
	Order     Order          `gorm:"foreignKey:OSID" json:"-"` // don't include full order in JSON
	UsuarioID string         `gorm:"column:usuario_id;size:36;not null;index" json:"usuario_id"`
	Usuario   User           `gorm:"foreignKey:UsuarioID" json:"usuario"`
	Texto     string         `gorm:"type:text;not null" json:"texto"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Comment model
func (Comment) TableName() string {
	return "comentarios"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
