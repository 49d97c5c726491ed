package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/sotaworks/honne/config"
	"github.com/sotaworks/honne/models"
	"github.com/sotaworks/honne/routes"
)

func testConfig() config.AppConfig {
	return config.AppConfig{
		GinMode:            "test",
		RateLimitPerMinute: 100000,
		AllowedOrigins:     []string{"*"},
		Categories:         []string{"改善提案", "ぼやき", "質問", "アイデア"},
	}
}

// newTestRouter wires the real router against an in-memory SQLite store.
// Redis stays unconfigured, so the cache path is inert.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), config.NewTestConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// One connection, or the pool would hand out separate in-memory databases
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Suggestion{},
		&models.Discussion{},
		&models.TimelineEntry{},
		&models.PageView{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return routes.SetupRouter(testConfig(), db), db
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// createPost submits a suggestion through the API and returns its id.
func createPost(t *testing.T, r *gin.Engine, content, category string) string {
	t.Helper()

	body := map[string]string{"content": content}
	if category != "" {
		body["category"] = category
	}
	w := doRequest(t, r, http.MethodPost, "/api/posts", body)
	if w.Code != http.StatusOK {
		t.Fatalf("create post: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &resp)
	if resp.ID == "" {
		t.Fatal("create post: empty id")
	}
	return resp.ID
}

// createDiscussion escalates a post through the API and returns the discussion id.
func createDiscussion(t *testing.T, r *gin.Engine, postID, title string) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/discussions", map[string]string{
		"originalPostId": postID,
		"title":          title,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create discussion: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &resp)
	if resp.ID == "" {
		t.Fatal("create discussion: empty id")
	}
	return resp.ID
}
