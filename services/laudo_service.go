package services

import (
	"fmt"
	"mime/multipart"

	"github.com/agilizaos/consert-api/utils"
)

// LaudoService handles report-photo operations: validation, upload,
// retrieval and deletion.
type LaudoService interface {
	// UploadLaudo validates and uploads a report photo, returns the storage key
	UploadLaudo(osID string, fileHeader *multipart.FileHeader) (string, error)

	// GetLaudoURL generates a URL for accessing an uploaded report photo
	GetLaudoURL(laudoKey string) (string, error)

	// DeleteLaudo removes a report photo from storage
	DeleteLaudo(laudoKey string) error
}

// S3LaudoService implements LaudoService using AWS S3 for storage
type S3LaudoService struct {
	s3Service S3Interface
}

var laudoServiceInstance LaudoService

// InitLaudoService initializes the laudo service with S3 backend
func InitLaudoService(s3Service S3Interface) LaudoService {
	laudoServiceInstance = &S3LaudoService{
		s3Service: s3Service,
	}
	return laudoServiceInstance
}

// GetLaudoService returns the initialized laudo service instance
func GetLaudoService() LaudoService {
	return laudoServiceInstance
}

// SetLaudoService sets the laudo service instance (primarily for testing)
func SetLaudoService(service LaudoService) {
	laudoServiceInstance = service
}

// UploadLaudo validates and uploads a report photo to S3
func (s *S3LaudoService) UploadLaudo(osID string, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadLaudo(osID, fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload report photo: %w", err)
	}

	return s3Key, nil
}

// GetLaudoURL generates a presigned URL for accessing a report photo
func (s *S3LaudoService) GetLaudoURL(laudoKey string) (string, error) {
	if laudoKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(laudoKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate report photo URL: %w", err)
	}

	return url, nil
}

// DeleteLaudo removes a report photo from S3
func (s *S3LaudoService) DeleteLaudo(laudoKey string) error {
	if laudoKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(laudoKey); err != nil {
		return fmt.Errorf("failed to delete report photo: %w", err)
	}

	return nil
}
