package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/middleware"
	"github.com/fcode/course-platform-backend/services"
	"github.com/fcode/course-platform-backend/utils"
)

const serverErrorMessage = "Server error"

// statusFor maps a service error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrAlreadyEnrolled):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrNotEnrolled):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// respondError writes {"message": ...}. Unexpected errors are logged and
// hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		utils.LoggerFromContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(status, gin.H{"message": serverErrorMessage})
		return
	}

	body := gin.H{"message": err.Error()}
	var se *services.Error
	if errors.As(err, &se) {
		body["message"] = se.Message
	}
	switch {
	case errors.Is(err, services.ErrNotEnrolled):
		body["code"] = "NOT_ENROLLED"
	case errors.Is(err, services.ErrNotFound):
		body["code"] = "NOT_FOUND"
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}

// bindJSON decodes the body into dst. An empty body is accepted when
// allowEmpty is set.
func bindJSON(c *gin.Context, dst interface{}, allowEmpty bool) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		badRequest(c, "Invalid request body")
		return false
	}
	return true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// actor returns the authenticated caller. Routes using it sit behind
// AuthMiddleware, so a missing actor is answered like a missing token.
func actor(c *gin.Context) (services.Actor, bool) {
	a, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "No token, access denied!"})
	}
	return a, ok
}
