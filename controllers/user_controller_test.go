package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilizaos/consert-api/config"
	"github.com/agilizaos/consert-api/models"
)

// mockUserInfoServer mimics Auth0's /userinfo endpoint
func mockUserInfoServer(t *testing.T, info map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(info)
	}))
	t.Cleanup(server.Close)

	config.SetConfig(&config.Config{
		Auth0Domain:   server.URL,
		Auth0Audience: "https://api.consert.app",
	})
	t.Cleanup(func() { config.SetConfig(nil) })
	return server
}

func TestCreateUserProvisionsFromUserInfo(t *testing.T) {
	db := setupControllerTestDB(t)
	mockUserInfoServer(t, map[string]string{
		"sub":   "auth0|novo",
		"email": "novo@example.com",
		"name":  "Novo Usuário",
	})

	router := setupTestRouter()
	router.POST("/api/usuarios", mockAuthMiddleware("auth0|novo", "E1"), CreateUser)

	w := postJSON(router, "/api/usuarios", map[string]interface{}{})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Where("auth0_id = ?", "auth0|novo").First(&user).Error)
	assert.Equal(t, "novo@example.com", user.Email)
	assert.Equal(t, "Novo Usuário", user.Nome)
	assert.Equal(t, "E1", user.EmpresaID)
	assert.Equal(t, "atendente", user.Role)
}

func TestCreateUserDuplicate(t *testing.T) {
	db := setupControllerTestDB(t)
	mockUserInfoServer(t, map[string]string{
		"sub":   "auth0|repetido",
		"email": "repetido@example.com",
		"name":  "Repetido",
	})

	require.NoError(t, db.Create(&models.User{
		Auth0ID:   "auth0|repetido",
		EmpresaID: "E1",
		Nome:      "Repetido",
		Email:     "repetido@example.com",
	}).Error)

	router := setupTestRouter()
	router.POST("/api/usuarios", mockAuthMiddleware("auth0|repetido", "E1"), CreateUser)

	w := postJSON(router, "/api/usuarios", map[string]interface{}{})
	require.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "USER_EXISTS", errorData["code"])
}

func TestCreateUserMissingTenantClaim(t *testing.T) {
	setupControllerTestDB(t)
	mockUserInfoServer(t, map[string]string{
		"sub":   "auth0|semtenant",
		"email": "semtenant@example.com",
		"name":  "Sem Tenant",
	})

	router := setupTestRouter()
	router.POST("/api/usuarios", mockAuthMiddleware("auth0|semtenant", ""), CreateUser)

	w := postJSON(router, "/api/usuarios", map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "MISSING_EMPRESA", errorData["code"])
}

func TestGetCurrentUser(t *testing.T) {
	db := setupControllerTestDB(t)
	user := models.User{
		Auth0ID:   "auth0|eu",
		EmpresaID: "E1",
		Nome:      "Eu Mesmo",
		Email:     "eu@example.com",
		Role:      "tecnico",
	}
	require.NoError(t, db.Create(&user).Error)

	router := setupTestRouter()
	router.GET("/api/usuarios/me", mockAuthMiddleware("auth0|eu", "E1"), GetCurrentUser)

	req, _ := http.NewRequest(http.MethodGet, "/api/usuarios/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, user.ID, data["id"])
	assert.Equal(t, "tecnico", data["role"])
}

func TestGetCurrentUserWithoutProfile(t *testing.T) {
	setupControllerTestDB(t)

	router := setupTestRouter()
	router.GET("/api/usuarios/me", mockAuthMiddleware("auth0|fantasma", "E1"), GetCurrentUser)

	req, _ := http.NewRequest(http.MethodGet, "/api/usuarios/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
