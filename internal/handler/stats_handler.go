package handler

import (
	"net/http"

	"unimart/internal/repository"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	userRepo    *repository.UserRepository
	productRepo *repository.ProductRepository
	connRepo    *repository.ConnectionRepository
}

func NewStatsHandler(userRepo *repository.UserRepository, productRepo *repository.ProductRepository, connRepo *repository.ConnectionRepository) *StatsHandler {
	return &StatsHandler{userRepo: userRepo, productRepo: productRepo, connRepo: connRepo}
}

// Platform returns the landing-page counters. Public, unauthenticated.
func (h *StatsHandler) Platform(c *gin.Context) {
	users, _ := h.userRepo.Count()
	products, _ := h.productRepo.Count()
	available, _ := h.productRepo.CountAvailable()
	connections, _ := h.connRepo.Count()
	c.JSON(http.StatusOK, gin.H{
		"users":              users,
		"products":           products,
		"products_available": available,
		"connections":        connections,
	})
}
