package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sotaworks/honne/config"
	"github.com/sotaworks/honne/models"
	"github.com/sotaworks/honne/utils"
)

// SuggestionController manages the anonymous feedback posts: submission,
// listing, like counters and board totals.
type SuggestionController struct {
	db  *gorm.DB
	cfg config.AppConfig
}

// NewSuggestionController creates a new SuggestionController instance.
func NewSuggestionController(cfg config.AppConfig, db *gorm.DB) *SuggestionController {
	return &SuggestionController{db: db, cfg: cfg}
}

type suggestionView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Likes     int64     `json:"likes"`
	Timestamp time.Time `json:"timestamp"`
}

func toSuggestionView(s models.Suggestion) suggestionView {
	return suggestionView{
		ID:        strconv.FormatUint(uint64(s.ID), 10),
		Content:   s.Content,
		Category:  s.Category,
		Likes:     s.Likes,
		Timestamp: s.CreatedAt,
	}
}

// ListSuggestions returns all posts, newest first.
func (s *SuggestionController) ListSuggestions(ctx *gin.Context) {
	const cacheKey = "cache:posts:list"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var suggestions []models.Suggestion
	if err := s.db.Order("created_at DESC").Find(&suggestions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to list posts")
		return
	}

	views := make([]suggestionView, 0, len(suggestions))
	for _, sg := range suggestions {
		views = append(views, toSuggestionView(sg))
	}

	utils.CacheSetJSON(cacheKey, views, time.Minute)
	utils.Success(ctx, views)
}

// CreateSuggestion records a new anonymous post.
func (s *SuggestionController) CreateSuggestion(ctx *gin.Context) {
	var req struct {
		Content  string `json:"content"`
		Category string `json:"category"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "content cannot be empty")
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = s.cfg.Categories[0]
	}
	if !s.validCategory(category) {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid category")
		return
	}

	suggestion := models.Suggestion{Content: content, Category: category}
	if err := s.db.Create(&suggestion).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list")
	utils.Success(ctx, toSuggestionView(suggestion))
}

// LikeSuggestion atomically increments a post's like counter and returns the
// updated post. The counter only ever moves through this single UPDATE, so
// concurrent likes cannot lose increments.
func (s *SuggestionController) LikeSuggestion(ctx *gin.Context) {
	id := ctx.Param("id")

	res := s.db.Model(&models.Suggestion{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to like post")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	var suggestion models.Suggestion
	if err := s.db.Take(&suggestion, "id = ?", id).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to load post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list")
	utils.Success(ctx, toSuggestionView(suggestion))
}

// CountSuggestions returns the total number of posts.
func (s *SuggestionController) CountSuggestions(ctx *gin.Context) {
	var count int64
	if err := s.db.Model(&models.Suggestion{}).Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to count posts")
		return
	}
	utils.Success(ctx, gin.H{"count": count})
}

// CountLikes returns the sum of likes across all posts.
func (s *SuggestionController) CountLikes(ctx *gin.Context) {
	var likes int64
	if err := s.db.Model(&models.Suggestion{}).
		Select("COALESCE(SUM(likes),0)").
		Scan(&likes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to count likes")
		return
	}
	utils.Success(ctx, gin.H{"count": likes})
}

func (s *SuggestionController) validCategory(category string) bool {
	for _, c := range s.cfg.Categories {
		if c == category {
			return true
		}
	}
	return false
}
