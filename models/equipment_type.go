package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EquipmentType is a per-tenant catalog entry with a cached count of how
// many live orders reference its label. The count is recomputed whenever an
// order's equipment label changes, and can be rebuilt in full through the
// recount endpoint.
type EquipmentType struct {
	ID                    string    `gorm:"primaryKey;size:36" json:"id"`
	EmpresaID             string    `gorm:"column:empresa_id;size:36;not null;uniqueIndex:idx_equipamento_empresa_nome" json:"empresa_id"`
	Nome                  string    `gorm:"size:120;not null;uniqueIndex:idx_equipamento_empresa_nome" json:"nome"`
	QuantidadeCadastrada  int64     `gorm:"column:quantidade_cadastrada;not null;default:0" json:"quantidade_cadastrada"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName specifies the table name for the EquipmentType model
func (EquipmentType) TableName() string {
	return "tipos_equipamento"
}

func (e *EquipmentType) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
