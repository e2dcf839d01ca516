package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/services"
)

type EnrollInput struct {
	CourseID      string `json:"courseId"`
	CourseIDSnake string `json:"course_id"`
}

type ProgressInput struct {
	LastWatchedSecond *int `json:"last_watched_second"`
}

// LearningController serves enrollment and per-lesson progress.
type LearningController struct {
	enrollments *services.EnrollmentService
}

func NewLearningController(enrollments *services.EnrollmentService) *LearningController {
	return &LearningController{enrollments: enrollments}
}

func (ctl *LearningController) Enroll(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input EnrollInput
	if !bindJSON(c, &input, false) {
		return
	}
	raw := input.CourseID
	if raw == "" {
		raw = input.CourseIDSnake
	}
	courseID, err := uuid.Parse(raw)
	if err != nil {
		badRequest(c, "courseId is required")
		return
	}
	enrollment, err := ctl.enrollments.Enroll(c.Request.Context(), a.ID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Enrolled successfully",
		"enrollment": enrollment,
	})
}

func (ctl *LearningController) EnrolledDetail(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	detail, err := ctl.enrollments.GetEnrolledCourseDetail(c.Request.Context(), a.ID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (ctl *LearningController) MyEnrolled(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	courses, err := ctl.enrollments.ListMyEnrolledCourses(c.Request.Context(), a.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (ctl *LearningController) LessonDetail(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	lessonID, ok := uuidParam(c, "lessonId")
	if !ok {
		return
	}
	lesson, err := ctl.enrollments.GetLessonDetail(c.Request.Context(), a.ID, lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (ctl *LearningController) Complete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	lessonID, ok := uuidParam(c, "lessonId")
	if !ok {
		return
	}
	progress, err := ctl.enrollments.MarkLessonComplete(c.Request.Context(), a.ID, lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Lesson marked as completed",
		"progress": progress,
	})
}

// Progress records the playback position. A missing value counts as 0.
func (ctl *LearningController) Progress(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	lessonID, ok := uuidParam(c, "lessonId")
	if !ok {
		return
	}
	var input ProgressInput
	if !bindJSON(c, &input, true) {
		return
	}
	progress, err := ctl.enrollments.UpdateLessonProgress(c.Request.Context(), a.ID, lessonID, input.LastWatchedSecond)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Progress updated",
		"progress": progress,
	})
}
