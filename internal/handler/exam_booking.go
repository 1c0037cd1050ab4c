package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haxsilu/science-zone/internal/booking"
	"github.com/haxsilu/science-zone/internal/model"
	"github.com/haxsilu/science-zone/internal/queue"
	"github.com/haxsilu/science-zone/internal/repository"
	queuepublisher "github.com/haxsilu/science-zone/internal/service"
)

// BookingHandler exposes the exam seat booking flow: the seat grid with
// current occupancy, seat claims by students, a student's own booking and
// administrative seat removal.  All seat state changes go through the
// booking engine; this handler only translates between HTTP and the
// engine's typed failures.
type BookingHandler struct {
	Engine   *booking.Engine
	Sessions *repository.SessionRepo
	Students *repository.StudentRepo
	Bookings *repository.BookingRepo
	// AllowedGrades restricts who may claim seats; empty means no
	// restriction.
	AllowedGrades map[string]bool
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(engine *booking.Engine, sessions *repository.SessionRepo, students *repository.StudentRepo, bookings *repository.BookingRepo, allowedGrades []string) *BookingHandler {
	if engine == nil || sessions == nil || students == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	allowed := make(map[string]bool, len(allowedGrades))
	for _, g := range allowedGrades {
		allowed[g] = true
	}
	return &BookingHandler{
		Engine:        engine,
		Sessions:      sessions,
		Students:      students,
		Bookings:      bookings,
		AllowedGrades: allowed,
	}
}

// SessionLayout handles GET /v1/exam/sessions/:id/layout.  It returns the
// session, the hall grid description and all current bookings so both the
// admin and the student view can render the seat map.
func (h *BookingHandler) SessionLayout(c echo.Context) error {
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || sessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx := c.Request().Context()
	s, err := h.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	bookings, err := h.Engine.Occupancy(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	l := h.Engine.Layout()
	return c.JSON(http.StatusOK, echo.Map{
		"session": echo.Map{
			"id":         s.ID,
			"label":      s.Label,
			"start_time": s.StartTime.UTC().Format(time.RFC3339),
			"end_time":   s.EndTime.UTC().Format(time.RFC3339),
			"capacity":   l.TotalSeats(),
		},
		"layout": echo.Map{
			"rows":              l.Rows(),
			"visual_sections":   l.Sections(),
			"total_seats":       l.TotalSeats(),
			"max_seats_per_row": l.MaxSeatsPerRow(),
		},
		"bookings": bookings,
	})
}

// Claim handles POST /v1/exam/book (students only).  The candidate's name
// and grade come from their student record, not the request, so the
// adjacency rule cannot be gamed by sending a different grade.
func (h *BookingHandler) Claim(c echo.Context) error {
	sid, ok := studentID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		SessionID uint64 `json:"session_id"`
		Row       int    `json:"row"`
		Pos       int    `json:"pos"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.SessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id is required"})
	}

	ctx := c.Request().Context()
	student, err := h.Students.GetByID(ctx, sid)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if len(h.AllowedGrades) > 0 && !h.AllowedGrades[student.Grade] {
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": fmt.Sprintf("only %s students can book exam seats", h.allowedGradesText()),
		})
	}

	b, err := h.Engine.ClaimSeat(ctx, booking.ClaimRequest{
		SessionID:      body.SessionID,
		Row:            body.Row,
		Pos:            body.Pos,
		CandidateID:    student.ID,
		CandidateName:  student.Name,
		CandidateGrade: student.Grade,
	})
	if err != nil {
		return claimError(c, err)
	}

	h.publishSeatEvent(queue.ActionClaimed, b)
	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// claimError maps the engine's failure taxonomy onto HTTP responses.  Every
// rejection carries enough detail for the student to correct their request.
func claimError(c echo.Context, err error) error {
	var dup *booking.DuplicateBookingError
	var adj *booking.AdjacencyError
	switch {
	case errors.Is(err, booking.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	case errors.Is(err, booking.ErrInvalidSeat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat position"})
	case errors.As(err, &dup):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":         dup.Error(),
			"session_label": dup.SessionLabel,
		})
	case errors.Is(err, booking.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken"})
	case errors.As(err, &adj):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": adj.Error(),
			"conflict": echo.Map{
				"row":   adj.Row,
				"pos":   adj.Pos,
				"grade": adj.Grade,
			},
		})
	case errors.Is(err, booking.ErrBusy):
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking is busy, please retry"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to book seat"})
}

// MyBooking handles GET /v1/exam/my-booking (students only).  It returns
// the student's booking with session details, or a null booking when none
// exists.
func (h *BookingHandler) MyBooking(c echo.Context) error {
	sid, ok := studentID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	detail, err := h.Bookings.FindDetailByCandidate(ctx, sid)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"booking": nil})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": detail})
}

// Remove handles DELETE /v1/exam/bookings/:id (admin only).  Releasing a
// seat frees it immediately; a repeated delete answers 404 so the admin UI
// can tell "already removed" from "removed now".
func (h *BookingHandler) Remove(c echo.Context) error {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	// Snapshot the booking first so the audit event can name the freed seat.
	b, _ := h.Bookings.GetByID(ctx, bookingID)

	if err := h.Engine.ReleaseSeat(ctx, bookingID); err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove booking"})
	}
	if b != nil {
		h.publishSeatEvent(queue.ActionReleased, b)
	}
	return c.NoContent(http.StatusNoContent)
}

// publishSeatEvent sends a seat audit event in the background.  Publishing
// is best effort: a broker outage must not fail the booking request.
func (h *BookingHandler) publishSeatEvent(action string, b *model.Booking) {
	label := ""
	if s, err := h.Sessions.GetByID(context.Background(), b.SessionID); err == nil {
		label = s.Label
	}
	ev := queue.SeatEvent{
		Action:         action,
		BookingID:      b.ID,
		SessionID:      b.SessionID,
		SessionLabel:   label,
		Row:            b.Row,
		Pos:            b.Pos,
		CandidateID:    b.CandidateID,
		CandidateName:  b.CandidateName,
		CandidateGrade: b.CandidateGrade,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queuepublisher.PublishSeatEvent(ctx, ev)
	}()
}

func (h *BookingHandler) allowedGradesText() string {
	grades := make([]string, 0, len(h.AllowedGrades))
	for g := range h.AllowedGrades {
		grades = append(grades, g)
	}
	// Stable wording regardless of map order.
	for i := 1; i < len(grades); i++ {
		for j := i; j > 0 && grades[j-1] > grades[j]; j-- {
			grades[j-1], grades[j] = grades[j], grades[j-1]
		}
	}
	return strings.Join(grades, " and ")
}
