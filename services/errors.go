package services

import (
	"errors"
	"fmt"
)

// Kinds. Controllers map these to HTTP status codes with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrNotEnrolled     = errors.New("not enrolled")
	ErrAlreadyEnrolled = errors.New("already enrolled")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrRateLimited     = errors.New("rate limited")
)

// Error carries a client-facing message on top of one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func validationf(format string, args ...interface{}) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

var (
	ErrCourseNotFound     = newError(ErrNotFound, "Course not found")
	ErrLessonNotFound     = newError(ErrNotFound, "Lesson not found")
	ErrReviewNotFound     = newError(ErrNotFound, "Review not found")
	ErrUserNotFound       = newError(ErrNotFound, "User not found")
	ErrEnrollmentRequired = newError(ErrNotEnrolled, "You are not enrolled in this course")
	ErrEnrollmentExists   = newError(ErrAlreadyEnrolled, "You are already enrolled in this course")

	ErrDuplicateReview = newError(ErrValidation, "You have already reviewed this course")
	ErrInvalidRating   = newError(ErrValidation, "Rating must be between 1 and 5")

	ErrEmailTaken         = newError(ErrValidation, "Email already exists")
	ErrInvalidCredentials = newError(ErrValidation, "Email or password is incorrect")
	ErrNotCourseAuthor    = newError(ErrForbidden, "Only teachers can create courses")
	ErrNotCourseOwner     = newError(ErrForbidden, "You can only modify your own courses")
	ErrNotReviewOwnerEdit = newError(ErrForbidden, "You can only update your own reviews")
	ErrNotReviewOwnerDel  = newError(ErrForbidden, "You can only delete your own reviews")
	ErrAdminOnly          = newError(ErrForbidden, "Admin access required")
	ErrChatLoginRequired  = newError(ErrUnauthenticated, "Please log in to chat")
	ErrChatTooFast        = newError(ErrRateLimited, "You are sending messages too fast")
	ErrCategoryExists     = newError(ErrValidation, "Category already exists")
	ErrCategoryNotFound   = newError(ErrValidation, "Category not found")
	ErrAdminSelfRegister  = newError(ErrValidation, "Invalid role")
)
