package controllers_test

import (
	"net/http"
	"testing"
)

func TestCreateSuggestionDefaultsCategory(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/posts", map[string]string{"content": "休憩室の椅子を増やしてほしい"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Category string `json:"category"`
		Likes    int64  `json:"likes"`
	}
	decodeBody(t, w, &resp)
	if resp.Category != "改善提案" {
		t.Errorf("category = %q, want 改善提案", resp.Category)
	}
	if resp.Likes != 0 {
		t.Errorf("likes = %d, want 0", resp.Likes)
	}
}

func TestCreateSuggestionValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	if w := doRequest(t, r, http.MethodPost, "/api/posts", map[string]string{"content": "   "}); w.Code != http.StatusBadRequest {
		t.Errorf("blank content: status = %d, want 400", w.Code)
	}
	if w := doRequest(t, r, http.MethodPost, "/api/posts", map[string]string{"content": "x", "category": "unknown"}); w.Code != http.StatusBadRequest {
		t.Errorf("unknown category: status = %d, want 400", w.Code)
	}
}

func TestLikeSuggestion(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createPost(t, r, "エアコンが強すぎる", "ぼやき")

	var likes int64
	for i := 1; i <= 3; i++ {
		w := doRequest(t, r, http.MethodPost, "/api/posts/"+id+"/like", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("like %d: status = %d, want 200", i, w.Code)
		}
		var resp struct {
			Likes int64 `json:"likes"`
		}
		decodeBody(t, w, &resp)
		likes = resp.Likes
	}
	if likes != 3 {
		t.Errorf("likes after 3 increments = %d, want 3", likes)
	}

	if w := doRequest(t, r, http.MethodPost, "/api/posts/99999/like", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown post: status = %d, want 404", w.Code)
	}
}

func TestSuggestionCounts(t *testing.T) {
	r, _ := newTestRouter(t)
	a := createPost(t, r, "first", "質問")
	createPost(t, r, "second", "アイデア")
	doRequest(t, r, http.MethodPost, "/api/posts/"+a+"/like", nil)
	doRequest(t, r, http.MethodPost, "/api/posts/"+a+"/like", nil)

	w := doRequest(t, r, http.MethodGet, "/api/posts/count", nil)
	var count struct {
		Count int64 `json:"count"`
	}
	decodeBody(t, w, &count)
	if count.Count != 2 {
		t.Errorf("post count = %d, want 2", count.Count)
	}

	w = doRequest(t, r, http.MethodGet, "/api/posts/likes/count", nil)
	decodeBody(t, w, &count)
	if count.Count != 2 {
		t.Errorf("likes count = %d, want 2", count.Count)
	}
}

func TestListSuggestionsNewestFirst(t *testing.T) {
	r, _ := newTestRouter(t)
	createPost(t, r, "older", "質問")
	createPost(t, r, "newer", "質問")

	w := doRequest(t, r, http.MethodGet, "/api/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var posts []struct {
		Content   string `json:"content"`
		Timestamp string `json:"timestamp"`
	}
	decodeBody(t, w, &posts)
	if len(posts) != 2 {
		t.Fatalf("len = %d, want 2", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i-1].Timestamp < posts[i].Timestamp {
			t.Errorf("posts not in descending created order: %q before %q", posts[i-1].Timestamp, posts[i].Timestamp)
		}
	}
}
