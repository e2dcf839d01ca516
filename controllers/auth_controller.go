package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fcode/course-platform-backend/models"
	"github.com/fcode/course-platform-backend/services"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"full_name": u.FullName,
		"email":     u.Email,
		"role":      u.Role,
		"avatar":    u.AvatarURL,
		"bio":       u.Bio,
	}
}

func (ctl *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if !bindJSON(c, &input, false) {
		return
	}
	user, err := ctl.auth.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userJSON(user),
	})
}

func (ctl *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input, false) {
		return
	}
	token, user, err := ctl.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userJSON(user),
	})
}

func (ctl *AuthController) Me(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	user, err := ctl.auth.Me(c.Request.Context(), a.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input services.ProfileInput
	if !bindJSON(c, &input, false) {
		return
	}
	user, err := ctl.auth.UpdateProfile(c.Request.Context(), a.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    userJSON(user),
	})
}
