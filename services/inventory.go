package services

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agilizaos/consert-api/models"
)

// RecountEquipment recomputes the cached order count for the given
// equipment labels of a tenant from the live order rows and upserts the
// catalog entries. Soft-deleted orders are excluded by the default scope.
func RecountEquipment(tx *gorm.DB, empresaID string, labels ...string) error {
	for _, label := range labels {
		if label == "" {
			continue
		}

		var count int64
		if err := tx.Model(&models.Order{}).
			Where("empresa_id = ? AND equipamento = ?", empresaID, label).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count orders for equipment %q: %w", label, err)
		}

		entry := models.EquipmentType{
			EmpresaID:            empresaID,
			Nome:                 label,
			QuantidadeCadastrada: count,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "empresa_id"}, {Name: "nome"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"quantidade_cadastrada": count}),
		}).Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to update equipment count for %q: %w", label, err)
		}
	}
	return nil
}

// RecountAllEquipment rebuilds every catalog entry of a tenant. This is the
// reconciliation path for counts that drifted while updates bypassed the
// pipeline.
func RecountAllEquipment(tx *gorm.DB, empresaID string) (int, error) {
	var entries []models.EquipmentType
	if err := tx.Where("empresa_id = ?", empresaID).Find(&entries).Error; err != nil {
		return 0, fmt.Errorf("failed to list equipment types: %w", err)
	}

	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, e.Nome)
	}
	if err := RecountEquipment(tx, empresaID, labels...); err != nil {
		return 0, err
	}
	return len(labels), nil
}
