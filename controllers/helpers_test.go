package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/ganges-support-api/config"
	"github.com/kendall-kelly/ganges-support-api/middleware"
	"github.com/kendall-kelly/ganges-support-api/services"
	"github.com/kendall-kelly/ganges-support-api/store"
	"github.com/kendall-kelly/ganges-support-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type chatTestEnv struct {
	db    *gorm.DB
	store *store.GormStore
	blobs *services.MockBlobStore
	svc   *services.ChatService
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// mockAuthMiddleware sets up the context exactly as EnsureValidToken does
func mockAuthMiddleware(auth0ID, role, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetAuthContext(c, testutil.MockValidatedClaims(auth0ID, role, nil), accessToken)
		c.Next()
	}
}

// setupChatTest wires a sqlite-backed chat service and mock blob store into the package singletons
func setupChatTest(t *testing.T) *chatTestEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	gormStore := store.NewGormStore(db)
	if err := gormStore.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	config.SetDB(db)

	blobs := services.NewMockBlobStore()
	blobs.SetAsMockForTesting()
	svc := services.NewChatService(gormStore, blobs, services.ChatOptions{})
	services.SetChatService(svc)
	t.Cleanup(func() { services.SetChatService(nil) })

	return &chatTestEnv{db: db, store: gormStore, blobs: blobs, svc: svc}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func decodeData(t *testing.T, resp apiResponse, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v))
}
