package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haxsilu/science-zone/internal/repository"
	"github.com/haxsilu/science-zone/internal/utils"
)

// AuthHandler implements login for staff accounts and the register-or-login
// flow for students.  Students authenticate with their name, phone and
// grade: an unknown phone number registers a new candidate record, a known
// one refreshes the stored profile.  Both flows issue HS256 access tokens.
type AuthHandler struct {
	Users        *repository.UserRepo
	Students     *repository.StudentRepo
	JWTSecret    string
	AccessTTLMin int
}

// NewAuthHandler constructs an AuthHandler.  All dependencies must be
// non-nil.
func NewAuthHandler(users *repository.UserRepo, students *repository.StudentRepo, jwtSecret string, accessTTLMin int) *AuthHandler {
	if users == nil || students == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Users: users, Students: students, JWTSecret: jwtSecret, AccessTTLMin: accessTTLMin}
}

// Login handles POST /v1/auth/login for staff accounts.  Unknown usernames
// and wrong passwords both answer 401 without revealing which was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Username == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}
	user, err := h.Users.GetByUsername(c.Request().Context(), body.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !utils.VerifyPassword(user.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, err := utils.NewAccessToken(h.JWTSecret, user.ID, user.Role, 0, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
		"role":         user.Role,
	})
}

// StudentLogin handles POST /v1/auth/student.  It registers the student
// when the phone number is new, refreshes name and grade when it is known,
// and issues a student access token either way.
func (h *AuthHandler) StudentLogin(c echo.Context) error {
	var body struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Grade string `json:"grade"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Phone = strings.TrimSpace(body.Phone)
	body.Grade = strings.TrimSpace(body.Grade)
	if body.Name == "" || body.Phone == "" || body.Grade == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, phone and grade are required"})
	}

	ctx := c.Request().Context()
	student, err := h.Students.GetByPhone(ctx, body.Phone)
	switch {
	case err == nil:
		if student.Name != body.Name || student.Grade != body.Grade {
			if err := h.Students.UpdateProfile(ctx, student.ID, body.Name, body.Grade); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
			}
			if student, err = h.Students.GetByID(ctx, student.ID); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}
		}
	case errors.Is(err, repository.ErrStudentNotFound):
		if student, err = h.Students.Create(ctx, body.Name, body.Phone, body.Grade); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
		}
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tok, err := utils.NewAccessToken(h.JWTSecret, student.ID, "student", student.ID, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
		"role":         "student",
		"student": echo.Map{
			"id":    student.ID,
			"name":  student.Name,
			"phone": student.Phone,
			"grade": student.Grade,
		},
	})
}
