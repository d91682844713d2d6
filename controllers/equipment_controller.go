package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agilizaos/consert-api/config"
	"github.com/agilizaos/consert-api/models"
	"github.com/agilizaos/consert-api/services"
)

// ListEquipmentTypes handles GET /api/equipamentos - lists the equipment
// catalog of a tenant with the cached order counts
func ListEquipmentTypes(c *gin.Context) {
	empresaID := c.Query("empresa_id")
	if empresaID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_EMPRESA",
				"message": "empresa_id is required",
			},
		})
		return
	}

	var entries []models.EquipmentType
	if err := config.GetDB().Where("empresa_id = ?", empresaID).
		Order("nome").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list equipment types",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}

// RecountRequest represents the request body for a catalog recount
type RecountRequest struct {
	EmpresaID string `json:"empresa_id" binding:"required"`
}

// RecountEquipmentTypes handles POST /api/equipamentos/recount - rebuilds
// every cached count of a tenant from the live order rows. This is the
// reconciliation path for counts that drifted outside the update pipeline.
func RecountEquipmentTypes(c *gin.Context) {
	var req RecountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	var recounted int
	txErr := config.GetDB().Transaction(func(tx *gorm.DB) error {
		n, err := services.RecountAllEquipment(tx, req.EmpresaID)
		recounted = n
		return err
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to recount equipment types",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"recounted": recounted,
		},
	})
}
