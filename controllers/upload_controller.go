package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agilizaos/consert-api/config"
	"github.com/agilizaos/consert-api/models"
	"github.com/agilizaos/consert-api/services"
	"github.com/agilizaos/consert-api/utils"
)

// UploadLaudo handles POST /api/ordens/:id/laudo - attaches a report photo
// to an order. Stored on S3 when configured, on local disk otherwise.
func UploadLaudo(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	if err := db.Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("laudo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A file named 'laudo' is required",
			},
		})
		return
	}

	var laudoKey string
	if laudoService := services.GetLaudoService(); laudoService != nil {
		laudoKey, err = laudoService.UploadLaudo(order.ID, fileHeader)
	} else {
		// Local-disk fallback for development without S3
		if err = utils.ValidateImageFile(fileHeader); err == nil {
			var filename string
			filename, err = utils.SaveUploadedFile(fileHeader, utils.UploadDir)
			laudoKey = filename
		}
	}
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to store report photo",
			},
		})
		return
	}

	if err := db.Model(&order).Update("laudo_s3_key", laudoKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to link report photo to order",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"os_id":     order.ID,
			"laudo_key": laudoKey,
		},
	})
}

// GetUploadedLaudo handles GET /api/uploads/:filename - serves report
// photos stored on local disk by the development fallback
func GetUploadedLaudo(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Filename is required",
			},
		})
		return
	}

	// Prevent directory traversal
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILENAME",
				"message": "Invalid filename",
			},
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !utils.AllowedImageFormats[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": "Only PNG and JPEG files are supported",
			},
		})
		return
	}

	filePath := filepath.Join(utils.UploadDir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "File not found",
			},
		})
		return
	}

	c.File(filePath)
}
