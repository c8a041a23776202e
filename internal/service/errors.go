package service

import (
	"errors"

	"gurukul/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("role must be student, teacher or parent")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrForbidden          = errors.New("forbidden")

	ErrCourseNotFound   = errors.New("course not found")
	ErrModuleNotFound   = errors.New("module not found")
	ErrAlreadyEnrolled  = errors.New("already enrolled in this course")
	ErrNotEnrolled      = errors.New("not enrolled in this course")
	ErrStudentsOnly     = errors.New("only students can enroll")
	ErrInvalidQuiz      = errors.New("invalid assessment")

	ErrAssessmentNotFound = errors.New("assessment not found")

	ErrMediaNotFound    = errors.New("media not found")
	ErrFileTooLarge     = errors.New("file exceeds the upload limit")
	ErrUploadIncomplete = errors.New("uploaded file not found in storage")
	ErrInvalidUpload    = errors.New("media is not awaiting upload")

	ErrPostNotFound = errors.New("post not found")

	ErrEventNotFound     = errors.New("event not found")
	ErrInvalidEventRange = errors.New("event must end after it starts")
	ErrEventEnded        = errors.New("event has ended")
	ErrAlreadyJoined     = repository.ErrAlreadyJoined
	ErrEventFull         = repository.ErrEventFull
)
