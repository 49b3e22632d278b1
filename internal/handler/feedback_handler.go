package handler

import (
	"log"
	"net/http"

	"unimart/internal/middleware"
	"unimart/internal/models"
	"unimart/internal/repository"
	"unimart/pkg/mailer"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackRepo *repository.FeedbackRepository
	userRepo     *repository.UserRepository
	mailer       mailer.Mailer
}

func NewFeedbackHandler(feedbackRepo *repository.FeedbackRepository, userRepo *repository.UserRepository, m mailer.Mailer) *FeedbackHandler {
	return &FeedbackHandler{feedbackRepo: feedbackRepo, userRepo: userRepo, mailer: m}
}

// Create stores the feedback row, then forwards it by mail. Mail failure is
// logged, never surfaced: the row is the source of truth.
func (h *FeedbackHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating between 1 and 5 is required"})
		return
	}
	fb := &models.Feedback{
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.feedbackRepo.Create(fb); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save feedback"})
		return
	}
	if h.mailer != nil {
		if u, err := h.userRepo.GetByID(userID); err == nil {
			if err := h.mailer.SendFeedback(c.Request.Context(), u.Name, u.Email, req.Rating, req.Comment); err != nil {
				log.Printf("[Feedback] mail forward failed for feedback %d: %v", fb.ID, err)
			}
		}
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}
