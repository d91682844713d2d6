package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilizaos/consert-api/models"
)

func TestListEquipmentTypes(t *testing.T) {
	db := setupControllerTestDB(t)
	require.NoError(t, db.Create(&models.EquipmentType{EmpresaID: "E1", Nome: "Celular", QuantidadeCadastrada: 2}).Error)
	require.NoError(t, db.Create(&models.EquipmentType{EmpresaID: "E1", Nome: "Notebook", QuantidadeCadastrada: 5}).Error)
	require.NoError(t, db.Create(&models.EquipmentType{EmpresaID: "E2", Nome: "Tablet", QuantidadeCadastrada: 1}).Error)

	router := setupTestRouter()
	router.GET("/api/equipamentos", ListEquipmentTypes)

	req, _ := http.NewRequest(http.MethodGet, "/api/equipamentos?empresa_id=E1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	entries := response["data"].([]interface{})
	require.Len(t, entries, 2)
	first := entries[0].(map[string]interface{})
	assert.Equal(t, "Celular", first["nome"])
	assert.Equal(t, float64(2), first["quantidade_cadastrada"])
}

func TestListEquipmentTypesRequiresTenant(t *testing.T) {
	setupControllerTestDB(t)

	router := setupTestRouter()
	router.GET("/api/equipamentos", ListEquipmentTypes)

	req, _ := http.NewRequest(http.MethodGet, "/api/equipamentos", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecountEquipmentTypes(t *testing.T) {
	db := setupControllerTestDB(t)
	require.NoError(t, db.Create(&models.Order{EmpresaID: "E1", NumeroOS: "1", Status: "ABERTA", Equipamento: "Notebook"}).Error)
	require.NoError(t, db.Create(&models.Order{EmpresaID: "E1", NumeroOS: "2", Status: "ABERTA", Equipamento: "Notebook"}).Error)
	// Stale counter that drifted outside the pipeline
	require.NoError(t, db.Create(&models.EquipmentType{EmpresaID: "E1", Nome: "Notebook", QuantidadeCadastrada: 99}).Error)

	router := setupTestRouter()
	router.POST("/api/equipamentos/recount", RecountEquipmentTypes)

	w := postJSON(router, "/api/equipamentos/recount", map[string]interface{}{
		"empresa_id": "E1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["recounted"])

	var notebook models.EquipmentType
	require.NoError(t, db.Where("empresa_id = ? AND nome = ?", "E1", "Notebook").First(&notebook).Error)
	assert.Equal(t, int64(2), notebook.QuantidadeCadastrada)
}
