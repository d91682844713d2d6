package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a service order (ordem de serviço) for a piece of
// customer equipment. Monetary fields use decimal to avoid float drift in
// commission math. Wire names are the product's Portuguese field names.
type Order struct {
	ID               string          `gorm:"primaryKey;size:36" json:"id"`
	EmpresaID        string          `gorm:"column:empresa_id;size:36;not null;index" json:"empresa_id"`
	NumeroOS         string          `gorm:"column:numero_os;size:20;index" json:"numero_os"`
	Status           string          `gorm:"size:40;not null;default:'ABERTA'" json:"status"`
	StatusTecnico    string          `gorm:"column:status_tecnico;size:40" json:"status_tecnico"`
	TecnicoID        *string         `gorm:"column:tecnico_id;size:36;index" json:"tecnico_id"`
	Tecnico          *User           `gorm:"foreignKey:TecnicoID" json:"tecnico,omitempty"`
	ClienteID        *string         `gorm:"column:cliente_id;size:36;index" json:"cliente_id"`
	Equipamento      string          `gorm:"size:120" json:"equipamento"`
	ValorServico     decimal.Decimal `gorm:"column:valor_servico;type:numeric(12,2)" json:"valor_servico"`
	ValorPeca        decimal.Decimal `gorm:"column:valor_peca;type:numeric(12,2)" json:"valor_peca"`
	ValorFaturado    decimal.Decimal `gorm:"column:valor_faturado;type:numeric(12,2)" json:"valor_faturado"`
	DataEntrega      *time.Time      `gorm:"column:data_entrega" json:"data_entrega"`
	ClienteRecusou   bool            `gorm:"column:cliente_recusou;not null;default:false" json:"cliente_recusou"`
	DescricaoPeca    string          `gorm:"column:descricao_peca;type:text" json:"descricao_peca"`
	DescricaoServico string          `gorm:"column:descricao_servico;type:text" json:"descricao_servico"`
	Checklist        string          `gorm:"type:text" json:"checklist"`
	LaudoS3Key       *string         `gorm:"column:laudo_s3_key" json:"laudo_s3_key,omitempty"`
	LaudoURL         *string         `gorm:"-" json:"laudo_url,omitempty"` // computed, presigned URL for the report photo
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "ordens"
}

// BeforeCreate assigns a UUID key so the model works on both the postgres
// and the in-memory sqlite driver.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
