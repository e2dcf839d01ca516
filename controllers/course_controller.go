package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fcode/course-platform-backend/middleware"
	"github.com/fcode/course-platform-backend/services"
)

type CourseController struct {
	courses     *services.CourseService
	enrollments *services.EnrollmentService
}

func NewCourseController(courses *services.CourseService, enrollments *services.EnrollmentService) *CourseController {
	return &CourseController{courses: courses, enrollments: enrollments}
}

func (ctl *CourseController) List(c *gin.Context) {
	courses, err := ctl.courses.ListCourses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

type courseDetailResponse struct {
	*services.CourseDetail
	IsEnrolled bool `json:"is_enrolled"`
}

// Detail is public; a valid token only adds is_enrolled.
func (ctl *CourseController) Detail(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	detail, err := ctl.courses.GetCourseDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := courseDetailResponse{CourseDetail: detail}
	if a, ok := middleware.CurrentActor(c); ok {
		if resp.IsEnrolled, err = ctl.enrollments.IsEnrolled(c.Request.Context(), a.ID, id); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (ctl *CourseController) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input services.CreateCourseInput
	if !bindJSON(c, &input, false) {
		return
	}
	course, err := ctl.courses.CreateCourse(c.Request.Context(), a, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Course created successfully",
		"course":  course,
	})
}

func (ctl *CourseController) Update(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var input services.UpdateCourseInput
	if !bindJSON(c, &input, false) {
		return
	}
	course, err := ctl.courses.UpdateCourse(c.Request.Context(), a, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Course updated successfully",
		"course":  course,
	})
}

func (ctl *CourseController) Delete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.courses.DeleteCourse(c.Request.Context(), a, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}

func (ctl *CourseController) MyCourses(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	courses, err := ctl.courses.ListTeachingCourses(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}
