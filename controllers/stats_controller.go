package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sotaworks/honne/models"
	"github.com/sotaworks/honne/utils"
)

// StatsController provides board statistics: post and like totals,
// discussions per status, and today's page views.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the board. Individual failures
// fall back to 0 instead of failing the whole endpoint.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var postCount int64
	if err := s.db.Model(&models.Suggestion{}).Count(&postCount).Error; err != nil {
		postCount = 0
	}

	var likeCount int64
	if err := s.db.Model(&models.Suggestion{}).
		Select("COALESCE(SUM(likes),0)").
		Scan(&likeCount).Error; err != nil {
		likeCount = 0
	}

	discussionCounts := map[string]int64{
		models.StatusOpen:       0,
		models.StatusInProgress: 0,
		models.StatusResolved:   0,
		models.StatusClosed:     0,
	}
	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.Model(&models.Discussion{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err == nil {
		for _, r := range rows {
			discussionCounts[r.Status] = r.Count
		}
	}

	var dailyViews int64
	today := time.Now().UTC().Format("2006-01-02")
	if err := s.db.Model(&models.PageView{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&dailyViews).Error; err != nil {
		dailyViews = 0
	}

	utils.Success(ctx, gin.H{
		"post_count":       postCount,
		"like_count":       likeCount,
		"discussion_count": discussionCounts,
		"daily_view_count": dailyViews,
	})
}
