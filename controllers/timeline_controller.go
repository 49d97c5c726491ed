package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sotaworks/honne/models"
	"github.com/sotaworks/honne/utils"
)

// TimelineController owns a discussion's append-only timeline. Entries can
// only be touched through their (entry id, discussion id) pair, so an entry
// can never be edited or deleted through another discussion's URL.
type TimelineController struct {
	db *gorm.DB
}

// NewTimelineController creates a new TimelineController instance.
func NewTimelineController(db *gorm.DB) *TimelineController {
	return &TimelineController{db: db}
}

// ListTimeline returns all entries of a discussion, most recent first.
func (t *TimelineController) ListTimeline(ctx *gin.Context) {
	discussionID := ctx.Param("id")

	if !t.discussionExists(ctx, discussionID) {
		return
	}

	var entries []models.TimelineEntry
	if err := t.db.
		Where("discussion_id = ?", discussionID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to list timeline entries")
		return
	}

	utils.Success(ctx, entries)
}

// AppendTimelineEntry adds a new entry to a discussion's timeline with a
// server-assigned id and timestamps.
func (t *TimelineController) AppendTimelineEntry(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "content cannot be empty")
		return
	}

	discussionID := ctx.Param("id")
	if !t.discussionExists(ctx, discussionID) {
		return
	}

	entry := models.TimelineEntry{
		ID:           uuid.NewString(),
		DiscussionID: discussionID,
		Content:      content,
	}
	if err := t.db.Create(&entry).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create timeline entry")
		return
	}

	utils.Success(ctx, entry)
}

// UpdateTimelineEntry rewrites an entry's content. Both ids must match.
func (t *TimelineController) UpdateTimelineEntry(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "content cannot be empty")
		return
	}

	discussionID := ctx.Param("id")
	entryID := ctx.Param("entryId")

	res := t.db.Model(&models.TimelineEntry{}).
		Where("id = ? AND discussion_id = ?", entryID, discussionID).
		Updates(map[string]interface{}{
			"content":    content,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to update timeline entry")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40411, "timeline entry not found")
		return
	}

	var entry models.TimelineEntry
	if err := t.db.Take(&entry, "id = ?", entryID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load timeline entry")
		return
	}

	utils.Success(ctx, entry)
}

// DeleteTimelineEntry removes an entry. Both ids must match; repeating the
// delete keeps answering 404.
func (t *TimelineController) DeleteTimelineEntry(ctx *gin.Context) {
	discussionID := ctx.Param("id")
	entryID := ctx.Param("entryId")

	res := t.db.
		Where("id = ? AND discussion_id = ?", entryID, discussionID).
		Delete(&models.TimelineEntry{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to delete timeline entry")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40411, "timeline entry not found")
		return
	}

	utils.Success(ctx, gin.H{"message": "timeline entry deleted successfully"})
}

// discussionExists answers 404/500 itself and returns false when the handler
// should stop.
func (t *TimelineController) discussionExists(ctx *gin.Context, discussionID string) bool {
	var discussion models.Discussion
	err := t.db.Select("id").Take(&discussion, "id = ?", discussionID).Error
	if err == nil {
		return true
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40410, "discussion not found")
	} else {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to load discussion")
	}
	return false
}
