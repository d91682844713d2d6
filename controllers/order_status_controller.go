package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agilizaos/consert-api/config"
	"github.com/agilizaos/consert-api/models"
	"github.com/agilizaos/consert-api/services"
)

// controlKeys are the envelope fields of the update-status payload; every
// other key is treated as an order field and goes through the sanitizer.
var controlKeys = map[string]bool{
	"osId":          true,
	"empresa_id":    true,
	"newStatus":     true,
	"newTechStatus": true,
	"usuario":       true,
	"motivo":        true,
	"observacao":    true,
}

// UpdateOrderStatus handles POST /api/ordens/update-status - the order
// finalization pipeline. Within one transaction it applies the sanitized
// update, records the commission for a newly finalized eligible order,
// recounts equipment catalog entries when the label changed, appends the
// status audit row, and enqueues the outbound notification. Notification
// delivery itself happens after commit and is best effort.
func UpdateOrderStatus(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	identifier := stringField(payload, "osId")
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_IDENTIFIER",
				"message": "osId is required",
			},
		})
		return
	}

	empresaID := stringField(payload, "empresa_id")
	newStatus := stringField(payload, "newStatus")
	newTechStatus := stringField(payload, "newTechStatus")
	clienteRecusou := services.Truthy(payload["cliente_recusou"])

	db := config.GetDB()

	snapshot, err := services.ResolveOrder(db, identifier, empresaID)
	if err != nil {
		var notFound *services.OrderNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "ORDER_NOT_FOUND",
					"message":    fmt.Sprintf("No order found for identifier %q", notFound.Identifier),
					"empresa_id": notFound.EmpresaID,
					"samples":    notFound.Samples,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to resolve order",
			},
		})
		return
	}

	// Build the order-field update from everything that isn't envelope
	fields := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if !controlKeys[k] {
			fields[k] = v
		}
	}
	if newStatus != "" {
		fields["status"] = newStatus
	}
	if newTechStatus != "" {
		fields["status_tecnico"] = newTechStatus
	}
	updates := services.SanitizeOrderUpdate(fields)

	// Classify the transition from the incoming payload and stamp the
	// completion date for a finalizing update that didn't supply one
	effectiveStatus := snapshot.Status
	if newStatus != "" {
		effectiveStatus = newStatus
	}
	effectiveTech := snapshot.StatusTecnico
	if newTechStatus != "" {
		effectiveTech = newTechStatus
	}
	finalizing := services.IsFinalizing(effectiveStatus, effectiveTech)
	if finalizing {
		if _, supplied := updates["data_entrega"]; !supplied && snapshot.DataEntrega == nil {
			now := time.Now().UTC()
			updates["data_entrega"] = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		}
	}

	if newStatus != "" && !services.CanTransition(snapshot.Status, newStatus) {
		log.Printf("order %s: unusual status transition %q -> %q", snapshot.ID, snapshot.Status, newStatus)
	}

	var updated models.Order
	var commissionCreated bool

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Order{}).Where("id = ?", snapshot.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
		}

		if err := tx.Where("id = ?", snapshot.ID).First(&updated).Error; err != nil {
			return fmt.Errorf("failed to reload order: %w", err)
		}

		created, err := services.CalculateCommission(tx, &updated, clienteRecusou)
		if err != nil {
			return err
		}
		commissionCreated = created

		if snapshot.Equipamento != updated.Equipamento {
			if err := services.RecountEquipment(tx, updated.EmpresaID, snapshot.Equipamento, updated.Equipamento); err != nil {
				return err
			}
		}

		if snapshot.Status != updated.Status || snapshot.StatusTecnico != updated.StatusTecnico {
			history := models.StatusHistory{
				OSID:                  updated.ID,
				EmpresaID:             updated.EmpresaID,
				StatusAnterior:        snapshot.Status,
				StatusNovo:            updated.Status,
				StatusTecnicoAnterior: snapshot.StatusTecnico,
				StatusTecnicoNovo:     updated.StatusTecnico,
				Usuario:               stringField(payload, "usuario"),
				Motivo:                stringField(payload, "motivo"),
				Observacao:            stringField(payload, "observacao"),
			}
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("failed to record status history: %w", err)
			}
		}

		if newStatus != "" && services.NormalizeStatus(newStatus) != services.NormalizeStatus(snapshot.Status) {
			tipo := models.NotificationTypeStatusChange
			if services.IsApproved(newStatus) {
				tipo = models.NotificationTypeApproval
			}
			if err := services.EnqueueNotification(tx, &updated, tipo, updated.Status); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		log.Printf("order %s update-status failed: %v", snapshot.ID, txErr)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": txErr.Error(),
			},
		})
		return
	}

	if notifier := services.GetNotifier(); notifier != nil {
		notifier.FlushAsync()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":              updated,
			"finalizing":         finalizing,
			"commission_created": commissionCreated,
		},
	})
}

// stringField reads a payload value as a string, coercing JSON numbers so
// callers can send an order sequence number unquoted.
func stringField(payload map[string]interface{}, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
