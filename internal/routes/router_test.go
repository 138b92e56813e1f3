package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"commission_tracker/internal/config"
	"commission_tracker/internal/dbtest"
	"commission_tracker/internal/models"
)

func init() { gin.SetMode(gin.TestMode) }

type harness struct {
	t  *testing.T
	db *gorm.DB
	r  *gin.Engine
}

func newHarness(t *testing.T) *harness {
	db := dbtest.Open(t)
	cfg := config.Config{SecretKey: "test-secret", CORSOrigins: []string{"*"}}
	return &harness{t: t, db: db, r: SetupRouter(cfg, db, Options{HashCost: bcrypt.MinCost})}
}

func (h *harness) do(method, path, token string, body any) (int, map[string]any) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

// register returns the new user's id and token.
func (h *harness) register(username, password, role string) (string, string) {
	h.t.Helper()
	code, body := h.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username, "password": password, "role": role,
	})
	require.Equal(h.t, http.StatusOK, code, body)
	user := body["user"].(map[string]any)
	return user["id"].(string), body["token"].(string)
}

func stats(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	s, ok := body["stats"].(map[string]any)
	require.True(t, ok, body)
	return s
}

func TestPing(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	h.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRegisterSeedsLedger(t *testing.T) {
	h := newHarness(t)

	code, body := h.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "d1", "password": "p1", "role": "driver",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "d1", user["username"])
	assert.Equal(t, "driver", user["role"])
	assert.NotContains(t, user, "password")

	var rows []models.DeliveryRecord
	require.NoError(t, h.db.Where("user_id = ?", user["id"]).Find(&rows).Error)
	require.Len(t, rows, 6)
	for _, r := range rows {
		assert.Zero(t, r.Count)
	}
}

func TestRegisterDefaultsToDriver(t *testing.T) {
	h := newHarness(t)
	code, body := h.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "nobody", "password": "pw",
	})
	require.Equal(t, http.StatusOK, code, body)
	token := body["token"].(string)

	code, body = h.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "driver", body["role"])
}

func TestRegisterRoleMustMatchExactly(t *testing.T) {
	h := newHarness(t)

	for i, role := range []string{"", " admin ", "Admin", " driver"} {
		code, body := h.do(http.MethodPost, "/api/auth/register", "", gin.H{
			"username": fmt.Sprintf("u%d", i), "password": "pw", "role": role,
		})
		assert.Equal(t, http.StatusBadRequest, code, "role %q", role)
		assert.Contains(t, body["detail"], "Invalid role", "role %q", role)
	}

	var count int64
	require.NoError(t, h.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterErrors(t *testing.T) {
	h := newHarness(t)
	h.register("d1", "p1", "driver")

	code, body := h.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "d1", "password": "other", "role": "helper",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Username already exists", body["detail"])

	code, body = h.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "d2", "password": "p", "role": "owner",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["detail"], "Invalid role")

	code, body = h.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "d3"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body", body["detail"])

	code, _ = h.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "d4", "password": "", "role": "driver",
	})
	assert.Equal(t, http.StatusBadRequest, code, "empty passwords are not stored")
}

func TestLoginAndMe(t *testing.T) {
	h := newHarness(t)
	id, _ := h.register("h1", "secret", "helper")

	code, body := h.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "h1", "password": "secret"})
	require.Equal(t, http.StatusOK, code)
	token := body["token"].(string)

	code, me := h.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, me["id"])
	assert.Equal(t, "h1", me["username"])
	assert.Equal(t, "helper", me["role"])
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	h := newHarness(t)
	h.register("h1", "secret", "helper")

	wrongCode, wrongBody := h.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "h1", "password": "nope"})
	unknownCode, unknownBody := h.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "ghost", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrongCode)
	assert.Equal(t, wrongCode, unknownCode)
	assert.Equal(t, wrongBody, unknownBody)
}

func TestLoginBlankCredentialsUnauthenticated(t *testing.T) {
	h := newHarness(t)
	h.register("h1", "secret", "helper")

	wrongCode, wrongBody := h.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "h1", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, wrongCode)

	for name, creds := range map[string]gin.H{
		"empty password":   {"username": "h1", "password": ""},
		"missing password": {"username": "h1"},
		"empty body":       {},
	} {
		code, body := h.do(http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, code, name)
		assert.Equal(t, wrongBody, body, name)
	}
}

func TestMeRequiresToken(t *testing.T) {
	h := newHarness(t)

	code, _ := h.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do(http.MethodGet, "/api/deliveries/my", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestMyDeliveriesFreshUser(t *testing.T) {
	h := newHarness(t)
	_, token := h.register("d1", "p1", "driver")

	code, body := h.do(http.MethodGet, "/api/deliveries/my", token, nil)
	require.Equal(t, http.StatusOK, code)

	s := stats(t, body)
	assert.EqualValues(t, 0, s["total_deliveries"])
	assert.EqualValues(t, 0, s["total_commission"])
	byTruck := s["deliveries_by_truck"].(map[string]any)
	assert.Len(t, byTruck, 6)

	rates := body["commission_rates"].(map[string]any)
	assert.EqualValues(t, 3.5, rates["BKO"])
	assert.EqualValues(t, 10, rates["AUA"])
	assert.Equal(t, "d1", body["user"].(map[string]any)["username"])
}

func TestAdminUpdateEndToEnd(t *testing.T) {
	h := newHarness(t)
	d1, driverToken := h.register("d1", "p1", "driver")
	_, adminToken := h.register("boss", "pw", "admin")

	code, body := h.do(http.MethodPost, "/api/deliveries/update", adminToken, gin.H{
		"userId": d1, "truck_type": "AUA", "count": 2,
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Delivery updated successfully", body["message"])
	assert.EqualValues(t, 20, stats(t, body)["total_commission"])

	code, body = h.do(http.MethodPost, "/api/deliveries/update", adminToken, gin.H{
		"userId": d1, "truck_type": "BKO", "count": 5,
	})
	require.Equal(t, http.StatusOK, code, body)

	code, body = h.do(http.MethodGet, "/api/deliveries/my", driverToken, nil)
	require.Equal(t, http.StatusOK, code)
	s := stats(t, body)
	assert.EqualValues(t, 7, s["total_deliveries"])
	assert.EqualValues(t, 37.5, s["total_commission"])

	byTruck := s["deliveries_by_truck"].(map[string]any)
	assert.EqualValues(t, 2, byTruck["AUA"])
	assert.EqualValues(t, 5, byTruck["BKO"])
	for _, tt := range []string{"PYW", "NYC", "GKY", "GSD"} {
		assert.EqualValues(t, 0, byTruck[tt], tt)
	}
}

func TestAdminUpdateValidation(t *testing.T) {
	h := newHarness(t)
	d1, _ := h.register("d1", "p1", "driver")
	_, adminToken := h.register("boss", "pw", "admin")

	code, body := h.do(http.MethodPost, "/api/deliveries/update", adminToken, gin.H{
		"userId": d1, "truck_type": "XXX", "count": 1,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid truck type", body["detail"])

	code, body = h.do(http.MethodPost, "/api/deliveries/update", adminToken, gin.H{
		"userId": "no-such-user", "truck_type": "BKO", "count": 1,
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body["detail"])

	code, _ = h.do(http.MethodPost, "/api/deliveries/update", adminToken, gin.H{
		"userId": d1, "truck_type": "BKO", "count": -3,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.do(http.MethodPost, "/api/deliveries/update", adminToken, gin.H{
		"userId": d1, "truck_type": "BKO",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.do(http.MethodPost, "/api/deliveries/update", adminToken, gin.H{
		"userId": d1, "truck_type": "BKO", "count": 0,
	})
	assert.Equal(t, http.StatusOK, code, "explicit zero is a valid count")
}

func TestAdminEndpointsForbiddenForNonAdmins(t *testing.T) {
	h := newHarness(t)
	d1, driverToken := h.register("d1", "p1", "driver")
	_, helperToken := h.register("h1", "p1", "helper")

	for _, token := range []string{driverToken, helperToken} {
		code, body := h.do(http.MethodPost, "/api/deliveries/update", token, gin.H{
			"userId": d1, "truck_type": "BKO", "count": 1,
		})
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "Admin access required", body["detail"])

		// An invalid body still yields 403.
		code, _ = h.do(http.MethodPost, "/api/deliveries/update", token, gin.H{"truck_type": "nope"})
		assert.Equal(t, http.StatusForbidden, code)

		code, _ = h.do(http.MethodGet, "/api/deliveries/all-users", token, nil)
		assert.Equal(t, http.StatusForbidden, code)

		code, _ = h.do(http.MethodPost, "/api/deliveries/reset-month", token, nil)
		assert.Equal(t, http.StatusForbidden, code)
	}
}

func TestAdminListAll(t *testing.T) {
	h := newHarness(t)
	d1, _ := h.register("d1", "p1", "driver")
	h.register("h1", "p1", "helper")
	_, adminToken := h.register("boss", "pw", "admin")

	code, _ := h.do(http.MethodPost, "/api/deliveries/update", adminToken, gin.H{
		"userId": d1, "truck_type": "GKY", "count": 4,
	})
	require.Equal(t, http.StatusOK, code)

	code, body := h.do(http.MethodGet, "/api/deliveries/all-users", adminToken, nil)
	require.Equal(t, http.StatusOK, code)

	users := body["users"].([]any)
	require.Len(t, users, 2, "admins are not listed")

	byName := map[string]map[string]any{}
	for _, u := range users {
		m := u.(map[string]any)
		byName[m["username"].(string)] = m
	}
	require.Contains(t, byName, "d1")
	require.Contains(t, byName, "h1")
	assert.EqualValues(t, 4, byName["d1"]["total_deliveries"])
	assert.EqualValues(t, 30, byName["d1"]["total_commission"])
	assert.Equal(t, "driver", byName["d1"]["role"])
	assert.Len(t, byName["h1"]["deliveries_by_truck"], 6)
}

func TestAdminResetMonth(t *testing.T) {
	h := newHarness(t)
	d1, driverToken := h.register("d1", "p1", "driver")
	h1, helperToken := h.register("h1", "p1", "helper")
	_, adminToken := h.register("boss", "pw", "admin")

	for _, id := range []string{d1, h1} {
		code, _ := h.do(http.MethodPost, "/api/deliveries/update", adminToken, gin.H{
			"userId": id, "truck_type": "GSD", "count": 3,
		})
		require.Equal(t, http.StatusOK, code)
	}

	code, body := h.do(http.MethodPost, "/api/deliveries/reset-month", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "All deliveries reset successfully for the new month", body["message"])
	assert.EqualValues(t, 18, body["updated_count"], "three users with six rows each")

	for _, token := range []string{driverToken, helperToken} {
		code, body := h.do(http.MethodGet, "/api/deliveries/my", token, nil)
		require.Equal(t, http.StatusOK, code)
		s := stats(t, body)
		assert.EqualValues(t, 0, s["total_deliveries"])
		assert.EqualValues(t, 0, s["total_commission"])
		byTruck := s["deliveries_by_truck"].(map[string]any)
		assert.Len(t, byTruck, 6)
		for tt, v := range byTruck {
			assert.EqualValues(t, 0, v, tt)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	h.r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
