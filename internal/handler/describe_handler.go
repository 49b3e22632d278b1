package handler

import (
	"net/http"

	"unimart/pkg/ai"

	"github.com/gin-gonic/gin"
)

type DescribeHandler struct {
	gemini *ai.GeminiClient
}

func NewDescribeHandler(gemini *ai.GeminiClient) *DescribeHandler {
	return &DescribeHandler{gemini: gemini}
}

// Describe generates a title, description and category for a listing from a
// base64-encoded product photo.
func (h *DescribeHandler) Describe(c *gin.Context) {
	if h.gemini == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI description not configured"})
		return
	}
	var req struct {
		ImageData string `json:"image_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_data required"})
		return
	}
	d, err := h.gemini.Describe(c.Request.Context(), req.ImageData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "description generation failed"})
		return
	}
	c.JSON(http.StatusOK, d)
}
