package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agilizaos/consert-api/config"
	"github.com/agilizaos/consert-api/models"
	"github.com/agilizaos/consert-api/services"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	EmpresaID        string          `json:"empresa_id" binding:"required"`
	ClienteID        *string         `json:"cliente_id"`
	TecnicoID        *string         `json:"tecnico_id"`
	Equipamento      string          `json:"equipamento" binding:"required"`
	DescricaoServico string          `json:"descricao_servico"`
	DescricaoPeca    string          `json:"descricao_peca"`
	ValorServico     decimal.Decimal `json:"valor_servico"`
	ValorPeca        decimal.Decimal `json:"valor_peca"`
	Checklist        string          `json:"checklist"`
}

// CreateOrder handles POST /api/ordens - creates a new service order.
// The per-tenant sequence number is assigned inside the insert transaction
// so concurrent creates cannot share a number.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
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

	db := config.GetDB()

	order := models.Order{
		EmpresaID:        req.EmpresaID,
		ClienteID:        req.ClienteID,
		TecnicoID:        req.TecnicoID,
		Equipamento:      req.Equipamento,
		DescricaoServico: req.DescricaoServico,
		DescricaoPeca:    req.DescricaoPeca,
		ValorServico:     req.ValorServico,
		ValorPeca:        req.ValorPeca,
		Checklist:        req.Checklist,
		Status:           services.StatusAberta,
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		numero, err := nextNumeroOS(tx, req.EmpresaID)
		if err != nil {
			return err
		}
		order.NumeroOS = numero

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Keep the equipment catalog count in step with the new order
		return services.RecountEquipment(tx, order.EmpresaID, order.Equipamento)
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/ordens - lists orders for a tenant with
// optional status, technician and equipment filters
func ListOrders(c *gin.Context) {
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

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", services.NormalizeStatus(status))
	}
	if tecnicoID := c.Query("tecnico_id"); tecnicoID != "" {
		query = query.Where("tecnico_id = ?", tecnicoID)
	}
	if equipamento := c.Query("equipamento"); equipamento != "" {
		query = query.Where("equipamento = ?", equipamento)
	}

	var orders []models.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/ordens/:id - returns a single order, resolving
// the identifier the same way the update pipeline does and attaching a
// presigned report-photo URL when one exists
func GetOrder(c *gin.Context) {
	db := config.GetDB()

	order, err := services.ResolveOrder(db, c.Param("id"), c.Query("empresa_id"))
	if err != nil {
		var notFound *services.OrderNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": fmt.Sprintf("No order found for identifier %q", notFound.Identifier),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order",
			},
		})
		return
	}

	if order.LaudoS3Key != nil {
		if laudoService := services.GetLaudoService(); laudoService != nil {
			if url, err := laudoService.GetLaudoURL(*order.LaudoS3Key); err == nil && url != "" {
				order.LaudoURL = &url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// nextNumeroOS returns the next sequence number for a tenant (max + 1)
func nextNumeroOS(tx *gorm.DB, empresaID string) (string, error) {
	var last models.Order
	err := tx.Where("empresa_id = ?", empresaID).
		Order("CAST(numero_os AS INTEGER) DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "1", nil
		}
		return "", err
	}

	n, convErr := strconv.Atoi(last.NumeroOS)
	if convErr != nil {
		n = 0
	}
	return strconv.Itoa(n + 1), nil
}
