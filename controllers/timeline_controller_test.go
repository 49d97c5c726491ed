package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sotaworks/honne/models"
)

func TestAppendTimelineEntry(t *testing.T) {
	r, _ := newTestRouter(t)
	postID := createPost(t, r, "p", "質問")
	id := createDiscussion(t, r, postID, "T")

	w := doRequest(t, r, http.MethodPost, "/api/discussions/"+id+"/timeline", map[string]string{"content": "対応を開始しました"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var entry struct {
		ID           string `json:"id"`
		DiscussionID string `json:"discussion_id"`
		Content      string `json:"content"`
		CreatedAt    string `json:"created_at"`
	}
	decodeBody(t, w, &entry)
	if entry.ID == "" || entry.DiscussionID != id || entry.Content != "対応を開始しました" {
		t.Errorf("entry = %+v, want server-assigned id bound to %s", entry, id)
	}
	if entry.CreatedAt == "" {
		t.Error("created_at not set")
	}
}

func TestAppendTimelineEntryValidation(t *testing.T) {
	r, db := newTestRouter(t)
	postID := createPost(t, r, "p", "質問")
	id := createDiscussion(t, r, postID, "T")

	if w := doRequest(t, r, http.MethodPost, "/api/discussions/"+id+"/timeline", map[string]string{"content": "  "}); w.Code != http.StatusBadRequest {
		t.Errorf("blank content: status = %d, want 400", w.Code)
	}

	// Unknown discussion: 404 and nothing persisted.
	w := doRequest(t, r, http.MethodPost, "/api/discussions/"+uuid.NewString()+"/timeline", map[string]string{"content": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown discussion: status = %d, want 404", w.Code)
	}
	var count int64
	if err := db.Model(&models.TimelineEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("entries persisted = %d, want 0", count)
	}
}

func TestListTimelineDescending(t *testing.T) {
	r, db := newTestRouter(t)
	postID := createPost(t, r, "p", "質問")
	id := createDiscussion(t, r, postID, "T")

	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		e := models.TimelineEntry{
			ID:           uuid.NewString(),
			DiscussionID: id,
			Content:      content,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&e).Error; err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	w := doRequest(t, r, http.MethodGet, "/api/discussions/"+id+"/timeline", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var entries []struct {
		Content   string `json:"content"`
		CreatedAt string `json:"created_at"`
	}
	decodeBody(t, w, &entries)
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	if entries[0].Content != "third" || entries[2].Content != "first" {
		t.Errorf("order = [%s %s %s], want most recent first", entries[0].Content, entries[1].Content, entries[2].Content)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].CreatedAt < entries[i].CreatedAt {
			t.Errorf("created_at not descending at index %d", i)
		}
	}
}

func TestListTimelineUnknownDiscussion(t *testing.T) {
	r, _ := newTestRouter(t)
	if w := doRequest(t, r, http.MethodGet, "/api/discussions/"+uuid.NewString()+"/timeline", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateTimelineEntry(t *testing.T) {
	r, _ := newTestRouter(t)
	postID := createPost(t, r, "p", "質問")
	id := createDiscussion(t, r, postID, "T")

	w := doRequest(t, r, http.MethodPost, "/api/discussions/"+id+"/timeline", map[string]string{"content": "drft"})
	var entry struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &entry)

	if w = doRequest(t, r, http.MethodPut, "/api/discussions/"+id+"/timeline/"+entry.ID, map[string]string{"content": " "}); w.Code != http.StatusBadRequest {
		t.Errorf("blank content: status = %d, want 400", w.Code)
	}

	w = doRequest(t, r, http.MethodPut, "/api/discussions/"+id+"/timeline/"+entry.ID, map[string]string{"content": "draft"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status = %d body %s", w.Code, w.Body.String())
	}
	var updated struct {
		Content string `json:"content"`
	}
	decodeBody(t, w, &updated)
	if updated.Content != "draft" {
		t.Errorf("content = %q, want draft", updated.Content)
	}
}

func TestTimelineCompoundMatch(t *testing.T) {
	r, _ := newTestRouter(t)
	postID := createPost(t, r, "p", "質問")
	discussionA := createDiscussion(t, r, postID, "A")
	discussionB := createDiscussion(t, r, postID, "B")

	w := doRequest(t, r, http.MethodPost, "/api/discussions/"+discussionA+"/timeline", map[string]string{"content": "belongs to A"})
	var entry struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &entry)

	// The entry exists, but under a different discussion: both must 404.
	if w = doRequest(t, r, http.MethodPut, "/api/discussions/"+discussionB+"/timeline/"+entry.ID, map[string]string{"content": "hijack"}); w.Code != http.StatusNotFound {
		t.Errorf("cross-discussion update: status = %d, want 404", w.Code)
	}
	if w = doRequest(t, r, http.MethodDelete, "/api/discussions/"+discussionB+"/timeline/"+entry.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("cross-discussion delete: status = %d, want 404", w.Code)
	}

	// The right pair still works.
	if w = doRequest(t, r, http.MethodGet, "/api/discussions/"+discussionA+"/timeline", nil); w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	var entries []struct {
		Content string `json:"content"`
	}
	decodeBody(t, w, &entries)
	if len(entries) != 1 || entries[0].Content != "belongs to A" {
		t.Errorf("entry damaged by cross-discussion attempts: %v", entries)
	}
}

func TestDeleteTimelineEntryIdempotentNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	postID := createPost(t, r, "p", "質問")
	id := createDiscussion(t, r, postID, "T")

	w := doRequest(t, r, http.MethodPost, "/api/discussions/"+id+"/timeline", map[string]string{"content": "temp"})
	var entry struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &entry)

	if w = doRequest(t, r, http.MethodDelete, "/api/discussions/"+id+"/timeline/"+entry.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", w.Code)
	}
	// A repeat delete reports the same 404, not success.
	for i := 0; i < 2; i++ {
		if w = doRequest(t, r, http.MethodDelete, "/api/discussions/"+id+"/timeline/"+entry.ID, nil); w.Code != http.StatusNotFound {
			t.Errorf("repeat delete %d: status = %d, want 404", i, w.Code)
		}
	}
}
