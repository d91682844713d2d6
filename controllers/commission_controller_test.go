package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agilizaos/consert-api/models"
)

func createCommissionRow(t *testing.T, db *gorm.DB, empresaID, tecnicoID string, valor int64) {
	t.Helper()
	order := models.Order{EmpresaID: empresaID, NumeroOS: "c-" + tecnicoID, Status: "ENTREGUE"}
	require.NoError(t, db.Create(&order).Error)

	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.Commission{
		OSID:               order.ID,
		TecnicoID:          tecnicoID,
		EmpresaID:          empresaID,
		TipoComissao:       models.CommissionTypePercentage,
		ValorComissao:      decimal.NewFromInt(valor),
		PercentualComissao: decimal.NewFromInt(10),
		ValorComissaoFixa:  decimal.Zero,
		DataEntrega:        &now,
		CalculadoEm:        now,
		Status:             "pendente",
	}).Error)
}

func TestListCommissionsWithTotal(t *testing.T) {
	db := setupControllerTestDB(t)
	createCommissionRow(t, db, "E1", "tec-1", 100)
	createCommissionRow(t, db, "E1", "tec-2", 50)
	createCommissionRow(t, db, "E2", "tec-3", 999)

	router := setupTestRouter()
	router.GET("/api/comissoes", ListCommissions)

	req, _ := http.NewRequest(http.MethodGet, "/api/comissoes?empresa_id=E1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Len(t, data["comissoes"], 2)
	assert.Equal(t, "150", data["total"])
}

func TestListCommissionsFilterByTechnician(t *testing.T) {
	db := setupControllerTestDB(t)
	createCommissionRow(t, db, "E1", "tec-1", 100)
	createCommissionRow(t, db, "E1", "tec-2", 50)

	router := setupTestRouter()
	router.GET("/api/comissoes", ListCommissions)

	req, _ := http.NewRequest(http.MethodGet, "/api/comissoes?empresa_id=E1&tecnico_id=tec-2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	comissoes := data["comissoes"].([]interface{})
	require.Len(t, comissoes, 1)
	first := comissoes[0].(map[string]interface{})
	assert.Equal(t, "tec-2", first["tecnico_id"])
	assert.Equal(t, "50", data["total"])
}

func TestListCommissionsRequiresTenant(t *testing.T) {
	setupControllerTestDB(t)

	router := setupTestRouter()
	router.GET("/api/comissoes", ListCommissions)

	req, _ := http.NewRequest(http.MethodGet, "/api/comissoes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
