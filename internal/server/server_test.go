package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/hennahub/internal/config"
	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/testutil"
	"anoa.com/hennahub/pkg/storage"
	"anoa.com/hennahub/pkg/token"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

func (a apiClient) call(method, path, bearer string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

type authResult struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID uuid.UUID `json:"id"`
	} `json:"user"`
}

func (a apiClient) register(username, role string) authResult {
	a.t.Helper()
	w := a.call(http.MethodPost, "/api/auth/register", "", gin.H{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "password123",
		"password2": "password123",
		"user_type": role,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var res authResult
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(a.t, res.AccessToken)
	return res
}

func newTestServer(t *testing.T) (apiClient, *config.Config, *Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("CLOUDINARY_URL", "")

	cfg := &config.Config{AppEnv: "test", JWTSecret: "server-test", JWTTTL: time.Hour}
	images, err := storage.NewCloudinaryStorage("test")
	require.NoError(t, err)

	srv := NewServer(cfg, Dependencies{DB: testutil.NewDB(t), ImageStorage: images})
	return apiClient{t: t, engine: srv.Handler()}, cfg, srv
}

func TestBookingFlowOverHTTP(t *testing.T) {
	api, cfg, srv := newTestServer(t)

	customer := api.register("amna", entity.RoleCustomer)
	designer := api.register("sana", entity.RoleDesigner)

	admin := testutil.CreateUser(t, srv.db, entity.RoleAdmin)
	adminToken, _, err := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL).Generate(admin)
	require.NoError(t, err)

	booking := gin.H{
		"designer_id":    designer.User.ID,
		"booking_date":   time.Now().UTC().Add(72 * time.Hour).Format("2006-01-02"),
		"booking_time":   "10:00",
		"duration_hours": 2,
		"event_type":     "Mehndi",
		"location":       "Karachi",
	}

	w := api.call(http.MethodPost, "/api/bookings", customer.AccessToken, booking)
	assert.Equal(t, http.StatusBadRequest, w.Code, "unapproved designer")

	w = api.call(http.MethodGet, "/api/admin/dashboard", customer.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.call(http.MethodPost, "/api/admin/designers/"+designer.User.ID.String()+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.call(http.MethodPost, "/api/bookings", customer.AccessToken, booking)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, entity.BookingPending, created.Status)

	w = api.call(http.MethodGet, "/api/notifications/unread-count", designer.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unread_count":2}`, w.Body.String())

	w = api.call(http.MethodPatch, "/api/bookings/"+created.ID.String(), designer.AccessToken, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.call(http.MethodPost, "/api/bookings/"+created.ID.String()+"/cancel", customer.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.call(http.MethodPost, "/api/bookings/"+created.ID.String()+"/cancel", customer.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAnonymousAccess(t *testing.T) {
	api, _, _ := newTestServer(t)

	assert.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/designs", "", nil).Code)
	assert.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/categories", "", nil).Code)
	assert.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/designers", "", nil).Code)

	assert.Equal(t, http.StatusUnauthorized, api.call(http.MethodGet, "/api/bookings", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.call(http.MethodGet, "/api/notifications", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.call(http.MethodPost, "/api/designs/"+uuid.NewString()+"/like", "", nil).Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	api, _, _ := newTestServer(t)
	api.register("hira", entity.RoleCustomer)

	w := api.call(http.MethodPost, "/api/auth/login", "", gin.H{"username": "hira@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.call(http.MethodPost, "/api/auth/login", "", gin.H{"username": "hira", "password": "password123"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunReturnsWhenListenFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("CLOUDINARY_URL", "")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	images, err := storage.NewCloudinaryStorage("test")
	require.NoError(t, err)
	cfg := &config.Config{AppEnv: "test", JWTSecret: "server-test", JWTTTL: time.Hour}
	srv := NewServer(cfg, Dependencies{DB: testutil.NewDB(t), Redis: rdb, ImageStorage: images})

	// hold the port so ListenAndServe fails
	held, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = held.Close() })

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), held.Addr().String()) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the listener failed")
	}
}
