package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionConfig holds the commission rule for a technician (TecnicoID set)
// or the tenant-wide default (TecnicoID nil). Resolution order is technician
// override, then tenant default, then the hardcoded 10% fallback.
type CommissionConfig struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	EmpresaID    string          `gorm:"column:empresa_id;size:36;not null;uniqueIndex:idx_config_empresa_tecnico" json:"empresa_id"`
	TecnicoID    *string         `gorm:"column:tecnico_id;size:36;uniqueIndex:idx_config_empresa_tecnico" json:"tecnico_id"`
	TipoComissao string          `gorm:"column:tipo_comissao;size:20;not null" json:"tipo_comissao"`
	Valor        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"valor"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the CommissionConfig model
func (CommissionConfig) TableName() string {
	return "configuracoes_comissao"
}

func (c *CommissionConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
