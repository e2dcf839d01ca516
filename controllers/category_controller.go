package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fcode/course-platform-backend/services"
)

type CategoryInput struct {
	Name string `json:"name"`
}

type CategoryController struct {
	courses *services.CourseService
}

func NewCategoryController(courses *services.CourseService) *CategoryController {
	return &CategoryController{courses: courses}
}

func (ctl *CategoryController) List(c *gin.Context) {
	categories, err := ctl.courses.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Create is admin only; the slug is derived from the name.
func (ctl *CategoryController) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input CategoryInput
	if !bindJSON(c, &input, false) {
		return
	}
	category, err := ctl.courses.CreateCategory(c.Request.Context(), a, input.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}
