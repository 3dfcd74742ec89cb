package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resort-backend/controllers"
	"resort-backend/repository"
	"resort-backend/services"
	"resort-backend/testutil"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   int             `json:"count"`
}

type client struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (c *client) do(method, path string, body interface{}) (int, apiResponse) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}

	var resp apiResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

type server struct {
	router      *gin.Engine
	credentials *services.CredentialService
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)

	users := repository.NewGormUserRepository(db)
	categories := repository.NewGormCategoryRepository(db)
	offerings := repository.NewGormOfferingRepository(db)
	bookings := repository.NewGormBookingRepository(db)

	tokens, err := services.NewTokenService("test-secret", true, nil)
	require.NoError(t, err)
	credentials := services.NewCredentialService(users, services.BcryptHasher{Cost: bcrypt.MinCost})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := SetupRouter(Deps{
		Auth:       controllers.NewAuthController(credentials, tokens),
		Admin:      controllers.NewAdminController(credentials, tokens),
		Categories: controllers.NewCategoryController(services.NewCategoryService(categories, offerings)),
		Offerings:  controllers.NewOfferingController(services.NewOfferingService(offerings, categories, bookings, services.NewImageStore(t.TempDir()))),
		Bookings:   controllers.NewBookingController(services.NewBookingService(bookings, offerings, log)),
		Tokens:     tokens,
		Users:      credentials,
		Logger:     log,
	})
	return &server{router: router, credentials: credentials}
}

func (s *server) client(t *testing.T) *client {
	return &client{t: t, router: s.router, cookies: map[string]*http.Cookie{}}
}

func idOf(t *testing.T, raw json.RawMessage) uint {
	t.Helper()
	var v struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &v))
	require.NotZero(t, v.ID)
	return v.ID
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParseCorsOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, parseCorsOrigins(""))
	assert.Equal(t, []string{"*"}, parseCorsOrigins(" , "))
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, parseCorsOrigins("https://a.test, https://b.test,"))
}

func TestBookingFlow(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	_, err := s.credentials.EnsureAdmin(ctx, "Root", "root@resort.test", "rootpass")
	require.NoError(t, err)

	admin := s.client(t)
	guest := s.client(t)
	stranger := s.client(t)

	// accounts
	code, resp := guest.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ann", "email": "ann@example.com", "phone": "0800", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	assert.NotContains(t, string(resp.Data), "password")

	code, _ = guest.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ann", "email": "ANN@example.com", "phone": "0800", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = guest.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = guest.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = guest.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, guest.cookies, services.UserCookie)

	code, _ = guest.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = guest.do(http.MethodGet, "/api/admin/get", nil)
	assert.Equal(t, http.StatusUnauthorized, code, "the user cookie is not the admin cookie")

	code, _ = admin.do(http.MethodPost, "/api/admin/login", map[string]string{"email": "root@resort.test", "password": "rootpass"})
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, admin.cookies, services.AdminCookie)

	// the admin account cannot use the user cookie path
	admin.cookies[services.UserCookie] = &http.Cookie{Name: services.UserCookie, Value: admin.cookies[services.AdminCookie].Value}
	code, _ = admin.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusForbidden, code)
	delete(admin.cookies, services.UserCookie)

	// catalog
	code, resp = admin.do(http.MethodPost, "/api/admin/category/add", map[string]string{"name": "Rooms"})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	categoryID := idOf(t, resp.Data)

	code, _ = admin.do(http.MethodPost, "/api/admin/offering/add", map[string]interface{}{
		"name": "Villa", "categoryId": categoryID + 10, "description": "d", "image": "/v.jpg", "price": 100,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = admin.do(http.MethodPost, "/api/admin/offering/add", map[string]interface{}{
		"name": "Villa", "categoryId": categoryID, "description": "Sea view", "image": "/v.jpg", "price": 100,
		"amenities": []string{"wifi"},
	})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	offeringID := idOf(t, resp.Data)

	code, resp = guest.do(http.MethodGet, "/api/auth/offering", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, resp.Count)

	// bookings
	checkIn := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
	checkOut := time.Now().UTC().AddDate(0, 0, 12).Format("2006-01-02")
	booking := map[string]interface{}{
		"offeringId": offeringID, "name": "Ann", "phone": "0800", "email": "ann@example.com",
		"guests": 2, "checkIn": checkIn, "checkOut": checkOut,
	}

	code, resp = guest.do(http.MethodPost, "/api/auth/booking/create", booking)
	require.Equal(t, http.StatusCreated, code, resp.Message)
	bookingID := idOf(t, resp.Data)

	code, resp = guest.do(http.MethodPost, "/api/auth/booking/create", booking)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, resp.Success)

	code, resp = guest.do(http.MethodGet, "/api/auth/booking", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, resp.Count)

	code, _ = stranger.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Bob", "email": "bob@example.com", "phone": "1", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code)
	code, _ = stranger.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "bob@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, code)
	code, _ = stranger.do(http.MethodGet, "/api/auth/booking/"+itoa(bookingID), nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = stranger.do(http.MethodPatch, "/api/auth/booking/cancel/"+itoa(bookingID), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, resp = admin.do(http.MethodGet, "/api/admin/booking?search=vil", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, resp.Count)

	code, _ = admin.do(http.MethodPut, "/api/admin/booking/edit/"+itoa(bookingID), map[string]string{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = admin.do(http.MethodPut, "/api/admin/booking/edit/"+itoa(bookingID), map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = admin.do(http.MethodDelete, "/api/admin/offering/delete/"+itoa(offeringID), nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = guest.do(http.MethodPatch, "/api/auth/booking/cancel/"+itoa(bookingID), nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = guest.do(http.MethodPatch, "/api/auth/booking/cancel/"+itoa(bookingID), nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = guest.do(http.MethodGet, "/api/auth/booking/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// logout clears the cookie
	code, _ = guest.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.NotContains(t, guest.cookies, services.UserCookie)
	code, _ = guest.do(http.MethodGet, "/api/auth/booking", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp = admin.do(http.MethodGet, "/api/admin/user?search=example", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, resp.Count)
}

func TestRequestBinding(t *testing.T) {
	s := newServer(t)
	_, err := s.credentials.EnsureAdmin(context.Background(), "Root", "root@resort.test", "rootpass")
	require.NoError(t, err)

	guest := s.client(t)
	admin := s.client(t)

	registerCases := []struct {
		name string
		body map[string]string
		want string
	}{
		{"bad email", map[string]string{"name": "Ann", "email": "ann-at-example", "phone": "0800", "password": "secret123"}, "email must be a valid email"},
		{"short password", map[string]string{"name": "Ann", "email": "ann@example.com", "phone": "0800", "password": "abc"}, "password must be at least 6 characters"},
		{"missing phone", map[string]string{"name": "Ann", "email": "ann@example.com", "password": "secret123"}, "phone is required"},
	}
	for _, tc := range registerCases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := guest.do(http.MethodPost, "/api/auth/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.want, resp.Message)
		})
	}

	code, resp := guest.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "password is required", resp.Message)

	code, _ = guest.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ann", "email": "ann@example.com", "phone": "0800", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code)
	code, _ = guest.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, code)

	code, _ = admin.do(http.MethodPost, "/api/admin/login", map[string]string{"email": "root@resort.test", "password": "rootpass"})
	require.Equal(t, http.StatusOK, code)
	code, resp = admin.do(http.MethodPost, "/api/admin/category/add", map[string]string{"name": "Rooms"})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	categoryID := idOf(t, resp.Data)

	code, resp = admin.do(http.MethodPost, "/api/admin/offering/add", map[string]interface{}{
		"name": "Villa", "categoryId": categoryID, "description": "Sea view", "image": "/v.jpg", "price": -1,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "price cannot be negative", resp.Message)

	code, resp = admin.do(http.MethodPost, "/api/admin/offering/add", map[string]interface{}{
		"name": "Villa", "categoryId": categoryID, "description": "Sea view", "image": "/v.jpg",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "price is required", resp.Message)

	code, resp = admin.do(http.MethodPost, "/api/admin/offering/add", map[string]interface{}{
		"name": "Villa", "categoryId": categoryID, "description": "Sea view", "image": "/v.jpg", "price": 0,
	})
	require.Equal(t, http.StatusCreated, code, "a free offering is allowed: %s", resp.Message)
	offeringID := idOf(t, resp.Data)

	checkIn := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
	checkOut := time.Now().UTC().AddDate(0, 0, 12).Format("2006-01-02")
	bookingCases := []struct {
		name   string
		guests interface{}
		email  string
		want   string
	}{
		{"negative guests", -1, "ann@example.com", "guests must be at least 1"},
		{"zero guests", 0, "ann@example.com", "guests is required"},
		{"bad contact email", 2, "nope", "email must be a valid email"},
		{"guests not a number", "two", "ann@example.com", "Invalid request payload"},
	}
	for _, tc := range bookingCases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := guest.do(http.MethodPost, "/api/auth/booking/create", map[string]interface{}{
				"offeringId": offeringID, "name": "Ann", "phone": "0800", "email": tc.email,
				"guests": tc.guests, "checkIn": checkIn, "checkOut": checkOut,
			})
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tc.want, resp.Message)
		})
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
