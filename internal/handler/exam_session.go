package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haxsilu/science-zone/internal/layout"
	"github.com/haxsilu/science-zone/internal/model"
	"github.com/haxsilu/science-zone/internal/repository"
)

// SessionHandler exposes exam session listing and creation.  Capacity is
// never read from storage: it is derived from the hall layout on every
// response, so a layout change is reflected for all sessions at once.
type SessionHandler struct {
	Sessions *repository.SessionRepo
	Layout   *layout.SeatLayout
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sessions *repository.SessionRepo, l *layout.SeatLayout) *SessionHandler {
	if sessions == nil || l == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	return &SessionHandler{Sessions: sessions, Layout: l}
}

// sessionView is the JSON shape of an exam session with derived capacity.
type sessionView struct {
	ID        uint64 `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Capacity  int    `json:"capacity"`
}

func (h *SessionHandler) view(s *model.ExamSession) sessionView {
	return sessionView{
		ID:        s.ID,
		Label:     s.Label,
		StartTime: s.StartTime.UTC().Format(time.RFC3339),
		EndTime:   s.EndTime.UTC().Format(time.RFC3339),
		Capacity:  h.Layout.TotalSeats(),
	}
}

// List handles GET /v1/exam/sessions.  Sessions are ordered by start time.
func (h *SessionHandler) List(c echo.Context) error {
	sessions, err := h.Sessions.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sessions"})
	}
	items := make([]sessionView, 0, len(sessions))
	for i := range sessions {
		items = append(items, h.view(&sessions[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /v1/exam/sessions (admin only).  Times must be
// RFC3339 and the window must be non-empty.
func (h *SessionHandler) Create(c echo.Context) error {
	var body struct {
		Label     string `json:"label"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Label == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "label is required"})
	}
	start, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC3339"})
	}
	end, err := time.Parse(time.RFC3339, body.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be RFC3339"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}
	s, err := h.Sessions.Create(c.Request().Context(), body.Label, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create session"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": h.view(s)})
}
