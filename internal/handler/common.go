package handler

import (
	"net/http"

	"github.com/codereviewlab/backend/pkg/validator"
	"github.com/gin-gonic/gin"
)

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}
