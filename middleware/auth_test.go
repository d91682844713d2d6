package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCustomClaims_HasScope(t *testing.T) {
	tests := []struct {
		name          string
		scope         string
		expectedScope string
		want          bool
	}{
		{
			name:          "has exact scope",
			scope:         "read:ordens",
			expectedScope: "read:ordens",
			want:          true,
		},
		{
			name:          "has scope in multiple scopes",
			scope:         "read:ordens write:ordens read:comissoes",
			expectedScope: "write:ordens",
			want:          true,
		},
		{
			name:          "does not have scope",
			scope:         "read:ordens",
			expectedScope: "write:ordens",
			want:          false,
		},
		{
			name:          "empty scope",
			scope:         "",
			expectedScope: "read:ordens",
			want:          false,
		},
		{
			name:          "partial match should not work",
			scope:         "read:ordens",
			expectedScope: "read",
			want:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := CustomClaims{Scope: tt.scope}
			got := claims.HasScope(tt.expectedScope)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantID    string
		wantErr   bool
	}{
		{
			name: "successfully extracts user ID",
			setupFunc: func(c *gin.Context) {
				c.Set("user_id", "auth0|123456")
			},
			wantID:  "auth0|123456",
			wantErr: false,
		},
		{
			name:      "user ID not found in context",
			setupFunc: func(c *gin.Context) {},
			wantErr:   true,
		},
		{
			name: "user ID is not a string",
			setupFunc: func(c *gin.Context) {
				c.Set("user_id", 42)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			id, err := GetUserID(c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestGetAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("access_token", "raw-token")

	token, err := GetAccessToken(c)
	assert.NoError(t, err)
	assert.Equal(t, "raw-token", token)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	_, err = GetAccessToken(c)
	assert.Error(t, err)
}

func TestGetEmpresaID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		claims  *validator.ValidatedClaims
		want    string
		wantErr bool
	}{
		{
			name: "extracts tenant id from custom claims",
			claims: &validator.ValidatedClaims{
				CustomClaims: &CustomClaims{EmpresaID: "E1"},
			},
			want: "E1",
		},
		{
			name: "missing tenant id",
			claims: &validator.ValidatedClaims{
				CustomClaims: &CustomClaims{},
			},
			wantErr: true,
		},
		{
			name:    "no claims in context",
			claims:  nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			if tt.claims != nil {
				c.Set("validated_claims", tt.claims)
			}

			got, err := GetEmpresaID(c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireScope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	buildRouter := func(scope string) *gin.Engine {
		router := gin.New()
		router.GET("/protected",
			func(c *gin.Context) {
				c.Set("validated_claims", &validator.ValidatedClaims{
					CustomClaims: &CustomClaims{Scope: scope},
				})
				c.Next()
			},
			RequireScope("write:ordens"),
			func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"success": true})
			},
		)
		return router
	}

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)

	w := httptest.NewRecorder()
	buildRouter("read:ordens write:ordens").ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	buildRouter("read:ordens").ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
