package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/agilizaos/consert-api/config"
	"github.com/agilizaos/consert-api/models"
)

// ListCommissions handles GET /api/comissoes - lists commission records for
// a tenant, optionally filtered by technician, with the running total
func ListCommissions(c *gin.Context) {
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

	db := config.GetDB()
	query := db.Where("empresa_id = ?", empresaID)
	if tecnicoID := c.Query("tecnico_id"); tecnicoID != "" {
		query = query.Where("tecnico_id = ?", tecnicoID)
	}

	var commissions []models.Commission
	if err := query.Order("calculado_em desc").Find(&commissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list commissions",
			},
		})
		return
	}

	total := decimal.Zero
	for _, commission := range commissions {
		total = total.Add(commission.ValorComissao)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"comissoes": commissions,
			"total":     total,
		},
	})
}
