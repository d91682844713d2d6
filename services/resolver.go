package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agilizaos/consert-api/models"
)

// OrderRef is a trimmed order row included in resolution errors so the
// caller can return diagnostic context instead of a bare not-found.
type OrderRef struct {
	ID        string `json:"id"`
	NumeroOS  string `json:"numero_os"`
	EmpresaID string `json:"empresa_id"`
	Status    string `json:"status"`
}

// OrderNotFoundError is returned when an identifier matches no order by id
// or by sequence number. Samples carry a few recent rows for diagnostics.
type OrderNotFoundError struct {
	Identifier string
	EmpresaID  string
	Samples    []OrderRef
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order not found for identifier %q", e.Identifier)
}

// ResolveOrder resolves a raw identifier (canonical uuid or human-entered
// sequence number) to the order row. UUID-shaped identifiers are used
// verbatim and never looked up by sequence number. Sequence-number lookups
// are tenant-scoped when empresaID is given; with multiple matches the row
// matching the tenant wins, else the first. A failed lookup is retried with
// the identifier coerced to a number (drops leading zeros and whitespace).
func ResolveOrder(db *gorm.DB, identifier, empresaID string) (*models.Order, error) {
	raw := strings.TrimSpace(identifier)
	if raw == "" {
		return nil, notFound(db, raw, empresaID)
	}

	// Canonical-id shape: direct primary-key lookup only
	if _, err := uuid.Parse(raw); err == nil {
		var order models.Order
		if err := db.Where("id = ?", raw).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound(db, raw, empresaID)
			}
			return nil, err
		}
		return &order, nil
	}

	if order, err := lookupByNumero(db, raw, empresaID); err != nil || order != nil {
		return order, err
	}

	// Numeric coercion retry: "042" and " 42 " resolve to numero_os "42"
	if n, err := strconv.Atoi(raw); err == nil {
		coerced := strconv.Itoa(n)
		if coerced != raw {
			if order, err := lookupByNumero(db, coerced, empresaID); err != nil || order != nil {
				return order, err
			}
		}
	}

	return nil, notFound(db, raw, empresaID)
}

func lookupByNumero(db *gorm.DB, numero, empresaID string) (*models.Order, error) {
	// Sequence numbers are only unique per tenant, so the lookup stays
	// unscoped and the tenant preference below breaks ties.
	var matches []models.Order
	if err := db.Where("numero_os = ?", numero).Order("created_at").Find(&matches).Error; err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	// Disambiguate: prefer the row matching the given tenant, else the first
	if empresaID != "" {
		for i := range matches {
			if matches[i].EmpresaID == empresaID {
				return &matches[i], nil
			}
		}
	}
	return &matches[0], nil
}

func notFound(db *gorm.DB, identifier, empresaID string) error {
	nfErr := &OrderNotFoundError{Identifier: identifier, EmpresaID: empresaID}

	query := db.Model(&models.Order{})
	if empresaID != "" {
		query = query.Where("empresa_id = ?", empresaID)
	}
	var samples []models.Order
	if err := query.Order("created_at desc").Limit(5).Find(&samples).Error; err == nil {
		for _, s := range samples {
			nfErr.Samples = append(nfErr.Samples, OrderRef{
				ID:        s.ID,
				NumeroOS:  s.NumeroOS,
				EmpresaID: s.EmpresaID,
				Status:    s.Status,
			})
		}
	}
	return nfErr
}
