package handler

import (
	"net/http"

	"github.com/codereviewlab/backend/internal/service"
	"github.com/codereviewlab/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VideoHandler struct {
	service service.VideoService
}

func NewVideoHandler(service service.VideoService) *VideoHandler {
	return &VideoHandler{service: service}
}

type uploadVideoForm struct {
	SubmissionID string `form:"submission_id" binding:"required,uuid"`
}

// Upload is the strict path: unlike the optional video on submission
// creation, failures here surface to the caller.
func (h *VideoHandler) Upload(c *gin.Context) {
	var form uploadVideoForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}
	submissionID := uuid.MustParse(form.SubmissionID)

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	fh, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video file is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer f.Close()

	url, err := h.service.Upload(c.Request.Context(), userID, submissionID, &service.VideoFile{
		Reader:      f,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "video uploaded successfully",
		"video_url":     url,
		"submission_id": submissionID,
	})
}

func (h *VideoHandler) Delete(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, submissionID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "video deleted successfully"})
}
