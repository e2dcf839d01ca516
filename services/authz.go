package services

import (
	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/models"
)

// Actor is the authenticated caller as decoded from the bearer token.
type Actor struct {
	ID   uuid.UUID
	Role models.UserRole
}

func canAuthorCourses(role models.UserRole) bool {
	switch role {
	case models.RoleTeacher, models.RoleAdmin:
		return true
	case models.RoleStudent:
		return false
	}
	return false
}

func canManageCourse(actor Actor, course *models.Course) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher, models.RoleStudent:
		return course.TeacherID == actor.ID
	}
	return false
}

func canManageCategories(role models.UserRole) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher, models.RoleStudent:
		return false
	}
	return false
}
