package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agilizaos/consert-api/models"
)

// defaultCommissionPercentage applies when neither the technician nor the
// tenant has a commission configuration.
var defaultCommissionPercentage = decimal.NewFromInt(10)

var oneHundred = decimal.NewFromInt(100)

// CalculateCommission records the payout for a newly finalized order.
// Preconditions (checked in order): the order is finalized, has a completion
// date, has an assigned technician, and the customer did not decline
// service. Returns true when a commission row was inserted.
//
// The unique index on comissoes.os_id plus ON CONFLICT DO NOTHING makes the
// insert idempotent; the existence pre-check is only a short circuit.
func CalculateCommission(tx *gorm.DB, order *models.Order, clienteRecusou bool) (bool, error) {
	if !IsFinalizing(order.Status, order.StatusTecnico) {
		return false, nil
	}
	if order.DataEntrega == nil {
		return false, nil
	}
	if order.TecnicoID == nil || *order.TecnicoID == "" {
		return false, nil
	}
	if clienteRecusou || order.ClienteRecusou {
		return false, nil
	}

	var existing int64
	if err := tx.Model(&models.Commission{}).Where("os_id = ?", order.ID).Count(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to check for existing commission: %w", err)
	}
	if existing > 0 {
		return false, nil
	}

	tecnico, err := resolveTecnico(tx, *order.TecnicoID)
	if err != nil {
		return false, err
	}

	tipo, valor, err := resolveCommissionRule(tx, order.EmpresaID, tecnico.ID)
	if err != nil {
		return false, err
	}

	commission := models.Commission{
		OSID:         order.ID,
		TecnicoID:    tecnico.ID,
		EmpresaID:    order.EmpresaID,
		ClienteID:    order.ClienteID,
		ValorServico: order.ValorServico,
		ValorPeca:    order.ValorPeca,
		ValorTotal:   order.ValorFaturado,
		TipoComissao: tipo,
		DataEntrega:  order.DataEntrega,
		CalculadoEm:  time.Now().UTC(),
		Status:       "pendente",
		TipoOrdem:    order.Equipamento,
	}

	// Both rate columns are always populated; the inactive one stays zero
	// to satisfy the NOT NULL schema constraint.
	switch tipo {
	case models.CommissionTypeFlat:
		commission.ValorComissao = valor
		commission.ValorComissaoFixa = valor
		commission.PercentualComissao = decimal.Zero
	default:
		commission.ValorComissao = order.ValorFaturado.Mul(valor).Div(oneHundred)
		commission.PercentualComissao = valor
		commission.ValorComissaoFixa = decimal.Zero
	}

	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "os_id"}},
		DoNothing: true,
	}).Create(&commission)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert commission: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// resolveTecnico finds the technician row by primary key, falling back to
// the auth0_id column. Some callers still send the auth-provider identity
// instead of the internal id, so both shapes must resolve.
func resolveTecnico(tx *gorm.DB, tecnicoID string) (*models.User, error) {
	var tecnico models.User
	err := tx.Where("id = ?", tecnicoID).First(&tecnico).Error
	if err == nil {
		return &tecnico, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up technician: %w", err)
	}

	if err := tx.Where("auth0_id = ?", tecnicoID).First(&tecnico).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("technician %s not found by id or auth0_id", tecnicoID)
		}
		return nil, fmt.Errorf("failed to look up technician: %w", err)
	}
	return &tecnico, nil
}

// resolveCommissionRule resolves the commission type and value: technician
// override first, then the tenant default, then 10% percentage.
func resolveCommissionRule(tx *gorm.DB, empresaID, tecnicoID string) (string, decimal.Decimal, error) {
	var cfg models.CommissionConfig
	err := tx.Where("empresa_id = ? AND tecnico_id = ?", empresaID, tecnicoID).First(&cfg).Error
	if err == nil {
		return cfg.TipoComissao, cfg.Valor, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", decimal.Zero, fmt.Errorf("failed to look up technician commission config: %w", err)
	}

	err = tx.Where("empresa_id = ? AND tecnico_id IS NULL", empresaID).First(&cfg).Error
	if err == nil {
		return cfg.TipoComissao, cfg.Valor, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", decimal.Zero, fmt.Errorf("failed to look up company commission config: %w", err)
	}

	return models.CommissionTypePercentage, defaultCommissionPercentage, nil
}
