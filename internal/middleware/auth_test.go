package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/pkg/auth"
)

func newTokenService() auth.JWTService {
	return auth.NewJWTService(auth.Config{
		Secret:    "middleware-test-secret",
		Issuer:    "clinic-api",
		Audience:  "clinic-clients",
		AccessTTL: time.Minute,
	})
}

func tokenFor(t *testing.T, tokens auth.JWTService, role model.Role) string {
	t.Helper()
	u := &model.User{Email: "t@example.com", Role: role}
	u.ID = primitive.NewObjectID()
	token, err := tokens.GenerateAccessToken(u)
	require.NoError(t, err)
	return token
}

func testRouter(tokens auth.JWTService, required model.Permission) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", Authenticate(tokens), RequirePermission(required), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func request(r *gin.Engine, authHeader, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded"+query, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateRejectsMissingAndBadTokens(t *testing.T) {
	tokens := newTokenService()
	r := testRouter(tokens, model.PermViewDoctors)

	assert.Equal(t, http.StatusUnauthorized, request(r, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "Bearer garbage", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "NotBearer abc", "").Code)
}

func TestAuthenticateAcceptsQueryToken(t *testing.T) {
	tokens := newTokenService()
	r := testRouter(tokens, model.PermViewDoctors)

	token := tokenFor(t, tokens, model.RolePatient)
	w := request(r, "", "?access_token="+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionGate(t *testing.T) {
	tokens := newTokenService()

	// A patient can view doctors but not create them.
	viewRouter := testRouter(tokens, model.PermViewDoctors)
	createRouter := testRouter(tokens, model.PermCreateDoctor)
	patientToken := "Bearer " + tokenFor(t, tokens, model.RolePatient)

	assert.Equal(t, http.StatusOK, request(viewRouter, patientToken, "").Code)
	assert.Equal(t, http.StatusForbidden, request(createRouter, patientToken, "").Code)

	adminToken := "Bearer " + tokenFor(t, tokens, model.RoleAdmin)
	assert.Equal(t, http.StatusOK, request(createRouter, adminToken, "").Code)
}

func TestRequirePermissionNeedsEveryBit(t *testing.T) {
	tokens := newTokenService()
	r := testRouter(tokens, model.PermViewDoctors|model.PermManageUsers)

	// Doctor holds the view bit but not manage-users.
	doctorToken := "Bearer " + tokenFor(t, tokens, model.RoleDoctor)
	assert.Equal(t, http.StatusForbidden, request(r, doctorToken, "").Code)

	adminToken := "Bearer " + tokenFor(t, tokens, model.RoleAdmin)
	assert.Equal(t, http.StatusOK, request(r, adminToken, "").Code)
}

func TestUnknownRoleIsDeniedEverything(t *testing.T) {
	tokens := newTokenService()
	r := testRouter(tokens, model.PermViewDoctors)

	token := "Bearer " + tokenFor(t, tokens, "Receptionist")
	assert.Equal(t, http.StatusForbidden, request(r, token, "").Code)
}
