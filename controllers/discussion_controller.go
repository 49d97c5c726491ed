package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sotaworks/honne/models"
	"github.com/sotaworks/honne/utils"
)

// DiscussionController owns the discussion lifecycle: creation from an
// existing post, status/title/notes updates, and the transactional cascade
// delete of a discussion and its timeline.
type DiscussionController struct {
	db *gorm.DB
}

// NewDiscussionController creates a new DiscussionController instance.
func NewDiscussionController(db *gorm.DB) *DiscussionController {
	return &DiscussionController{db: db}
}

// detailQuery joins a discussion with its origin post's content and category.
// LEFT JOIN keeps a discussion readable even if its origin post disappears;
// the origin fields then come back empty.
func (d *DiscussionController) detailQuery() *gorm.DB {
	return d.db.Model(&models.Discussion{}).
		Select("discussions.*, suggestions.content AS original_content, suggestions.category AS original_category").
		Joins("LEFT JOIN suggestions ON suggestions.id = discussions.original_post_id")
}

// ListDiscussions returns a page of discussions joined with origin post
// fields, a total count, and a hasMore flag.
func (d *DiscussionController) ListDiscussions(ctx *gin.Context) {
	status := strings.TrimSpace(ctx.Query("status"))
	sortBy := ctx.DefaultQuery("sortBy", "created_at")
	sortOrder := strings.ToLower(ctx.DefaultQuery("sortOrder", "desc"))
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))
	offset := (page - 1) * limit

	// Sort keys come from the query string; only known discussion columns
	// may reach the ORDER BY clause.
	if !models.SortableColumn(sortBy) {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	cacheKey := fmt.Sprintf("cache:discussions:list:status=%s:sort=%s.%s:page=%d:limit=%d",
		status, sortBy, sortOrder, page, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var total int64
	countQuery := d.db.Model(&models.Discussion{})
	if status != "" {
		countQuery = countQuery.Where("discussions.status = ?", status)
	}
	if err := countQuery.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to count discussions")
		return
	}

	query := d.detailQuery()
	if status != "" {
		query = query.Where("discussions.status = ?", status)
	}
	var discussions []models.DiscussionDetail
	if err := query.
		Order(fmt.Sprintf("discussions.%s %s", sortBy, strings.ToUpper(sortOrder))).
		Offset(offset).
		Limit(limit).
		Find(&discussions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list discussions")
		return
	}

	payload := gin.H{
		"discussions": discussions,
		"total":       total,
		"hasMore":     total > int64(offset+limit),
	}
	utils.CacheSetJSON(cacheKey, payload, time.Minute)
	utils.Success(ctx, payload)
}

// CreateDiscussion escalates an existing post into a discussion. The origin
// post must exist at creation time; nothing is inserted otherwise.
func (d *DiscussionController) CreateDiscussion(ctx *gin.Context) {
	var req struct {
		OriginalPostID string `json:"originalPostId"`
		Title          string `json:"title"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" || strings.TrimSpace(req.OriginalPostID) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40011, "missing required fields")
		return
	}

	postID, err := strconv.ParseUint(strings.TrimSpace(req.OriginalPostID), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "original post not found")
		return
	}
	var origin models.Suggestion
	if err := d.db.Select("id").Take(&origin, "id = ?", uint(postID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "original post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load original post")
		return
	}

	discussion := models.Discussion{
		ID:             uuid.NewString(),
		OriginalPostID: uint(postID),
		Title:          title,
		Status:         models.StatusOpen,
	}
	if err := d.db.Create(&discussion).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to create discussion")
		return
	}

	var detail models.DiscussionDetail
	if err := d.detailQuery().Where("discussions.id = ?", discussion.ID).Take(&detail).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load discussion")
		return
	}

	utils.InvalidateByPrefix("cache:discussions:list:")
	utils.Success(ctx, detail)
}

// GetDiscussion returns a single discussion joined with its origin post.
func (d *DiscussionController) GetDiscussion(ctx *gin.Context) {
	id := ctx.Param("id")

	cacheKey := "cache:discussions:detail:" + id
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var detail models.DiscussionDetail
	if err := d.detailQuery().Where("discussions.id = ?", id).Take(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "discussion not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to load discussion")
		return
	}

	utils.CacheSetJSON(cacheKey, detail, time.Minute)
	utils.Success(ctx, detail)
}

// UpdateDiscussion applies status, title and optional decision notes in one
// update. Omitting free_space_content preserves the stored value. The paired
// status-change timeline note is the caller's second call, not written here.
func (d *DiscussionController) UpdateDiscussion(ctx *gin.Context) {
	var req struct {
		Status           string  `json:"status"`
		Title            string  `json:"title"`
		FreeSpaceContent *string `json:"free_space_content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid request payload")
		return
	}

	if !models.ValidStatus(req.Status) {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid status")
		return
	}
	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40014, "title cannot be empty")
		return
	}

	updates := map[string]interface{}{
		"status":     req.Status,
		"title":      title,
		"updated_at": time.Now().UTC(),
	}
	if req.FreeSpaceContent != nil {
		updates["free_space_content"] = utils.Sanitize(*req.FreeSpaceContent)
	}

	id := ctx.Param("id")
	res := d.db.Model(&models.Discussion{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to update discussion")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40410, "discussion not found")
		return
	}

	var detail models.DiscussionDetail
	if err := d.detailQuery().Where("discussions.id = ?", id).Take(&detail).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to load discussion")
		return
	}

	utils.InvalidateByPrefix("cache:discussions:")
	utils.Success(ctx, detail)
}

// UpdateFreeSpace replaces only the decision-notes field.
func (d *DiscussionController) UpdateFreeSpace(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40016, "content cannot be empty")
		return
	}

	id := ctx.Param("id")
	res := d.db.Model(&models.Discussion{}).Where("id = ?", id).Updates(map[string]interface{}{
		"free_space_content": content,
		"updated_at":         time.Now().UTC(),
	})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to update free space")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40410, "discussion not found")
		return
	}

	var discussion models.Discussion
	if err := d.db.Take(&discussion, "id = ?", id).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50019, "failed to load discussion")
		return
	}

	utils.InvalidateByPrefix("cache:discussions:")
	utils.Success(ctx, discussion)
}

// DeleteDiscussion removes a discussion and all of its timeline entries in
// one transaction: either both are gone or neither is. A missing discussion
// rolls back the entry deletes and answers 404, also on repeat deletes.
func (d *DiscussionController) DeleteDiscussion(ctx *gin.Context) {
	id := ctx.Param("id")

	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("discussion_id = ?", id).Delete(&models.TimelineEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Discussion{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "discussion not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to delete discussion")
		return
	}

	utils.InvalidateByPrefix("cache:discussions:")
	utils.Success(ctx, gin.H{"message": "discussion deleted successfully"})
}

func parsePagination(pageStr, limitStr string) (int, int) {
	page := 1
	limit := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}
