package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fcode/course-platform-backend/services"
)

type CreateReviewInput struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

func (ctl *ReviewController) List(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	reviews, err := ctl.reviews.ListReviews(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (ctl *ReviewController) Summary(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	summary, err := ctl.reviews.GetRatingSummary(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (ctl *ReviewController) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	var input CreateReviewInput
	if !bindJSON(c, &input, false) {
		return
	}
	review, err := ctl.reviews.CreateReview(c.Request.Context(), a.ID, courseID, input.Rating, input.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (ctl *ReviewController) Update(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	reviewID, ok := uuidParam(c, "reviewId")
	if !ok {
		return
	}
	var input UpdateReviewInput
	if !bindJSON(c, &input, false) {
		return
	}
	review, err := ctl.reviews.UpdateReview(c.Request.Context(), a.ID, reviewID, input.Rating, input.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (ctl *ReviewController) Delete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	reviewID, ok := uuidParam(c, "reviewId")
	if !ok {
		return
	}
	if err := ctl.reviews.DeleteReview(c.Request.Context(), a.ID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
