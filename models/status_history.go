package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusHistory is an append-only audit row recorded whenever an update
// actually changes one of the order's status fields.
type StatusHistory struct {
	ID                    string    `gorm:"primaryKey;size:36" json:"id"`
	OSID                  string    `gorm:"column:os_id;size:36;not null;index" json:"os_id"`
	EmpresaID             string    `gorm:"column:empresa_id;size:36;index" json:"empresa_id"`
	StatusAnterior        string    `gorm:"column:status_anterior;size:40" json:"status_anterior"`
	StatusNovo            string    `gorm:"column:status_novo;size:40" json:"status_novo"`
	StatusTecnicoAnterior string    `gorm:"column:status_tecnico_anterior;size:40" json:"status_tecnico_anterior"`
	StatusTecnicoNovo     string    `gorm:"column:status_tecnico_novo;size:40" json:"status_tecnico_novo"`
	Usuario               string    `gorm:"size:120" json:"usuario"`
	Motivo                string    `gorm:"size:255" json:"motivo"`
	Observacao            string    `gorm:"type:text" json:"observacao"`
	CreatedAt             time.Time `json:"created_at"`
}

// TableName specifies the table name for the StatusHistory model
func (StatusHistory) TableName() string {
	return "historico_status"
}

func (h *StatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
