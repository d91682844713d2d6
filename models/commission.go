package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Commission type constants
const (
	CommissionTypeFlat       = "fixa"
	CommissionTypePercentage = "porcentagem"
)

// Commission is the historical payout record created when an order is
// finalized with an eligible technician. The unique index on OSID is the
// duplicate guard: a concurrent finalization can only insert one row.
type Commission struct {
	ID                 string          `gorm:"primaryKey;size:36" json:"id"`
	OSID               string          `gorm:"column:os_id;size:36;not null;uniqueIndex" json:"os_id"`
	TecnicoID          string          `gorm:"column:tecnico_id;size:36;not null;index" json:"tecnico_id"`
	EmpresaID          string          `gorm:"column:empresa_id;size:36;not null;index" json:"empresa_id"`
	ClienteID          *string         `gorm:"column:cliente_id;size:36" json:"cliente_id"`
	ValorServico       decimal.Decimal `gorm:"column:valor_servico;type:numeric(12,2)" json:"valor_servico"`
	ValorPeca          decimal.Decimal `gorm:"column:valor_peca;type:numeric(12,2)" json:"valor_peca"`
	ValorTotal         decimal.Decimal `gorm:"column:valor_total;type:numeric(12,2)" json:"valor_total"`
	TipoComissao       string          `gorm:"column:tipo_comissao;size:20;not null" json:"tipo_comissao"`
	ValorComissao      decimal.Decimal `gorm:"column:valor_comissao;type:numeric(12,2)" json:"valor_comissao"`
	PercentualComissao decimal.Decimal `gorm:"column:percentual_comissao;type:numeric(5,2);not null" json:"percentual_comissao"`
	ValorComissaoFixa  decimal.Decimal `gorm:"column:valor_comissao_fixa;type:numeric(12,2);not null" json:"valor_comissao_fixa"`
	DataEntrega        *time.Time      `gorm:"column:data_entrega" json:"data_entrega"`
	CalculadoEm        time.Time       `gorm:"column:calculado_em" json:"calculado_em"`
	Status             string          `gorm:"size:20;not null;default:'pendente'" json:"status"`
	TipoOrdem          string          `gorm:"column:tipo_ordem;size:40" json:"tipo_ordem"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Commission model
func (Commission) TableName() string {
	return "comissoes"
}

func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
