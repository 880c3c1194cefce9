package handler

import (
	"net/http"

	"github.com/codereviewlab/backend/internal/dto"
	"github.com/codereviewlab/backend/internal/service"
	"github.com/codereviewlab/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	service service.AIService
}

func NewAIHandler(service service.AIService) *AIHandler {
	return &AIHandler{service: service}
}

func (h *AIHandler) Analyze(c *gin.Context) {
	var req dto.AIAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	analysis, err := h.service.Analyze(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *AIHandler) Quota(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	quota, err := h.service.Quota(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, quota)
}
