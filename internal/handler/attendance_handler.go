package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rollcall-go-api/internal/dto"
	"github.com/noah-isme/rollcall-go-api/internal/service"
	"github.com/noah-isme/rollcall-go-api/internal/utils"
)

// AttendanceHandler wires attendance and absentee endpoints.
type AttendanceHandler struct {
	attendance   service.AttendanceService
	notification service.NotificationService
	logger       zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(attendance service.AttendanceService, notification service.NotificationService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendance:   attendance,
		notification: notification,
		logger:       logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches attendance routes to the router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Post("/:stream/:semester/subjects/:code/attendance", h.mark)
	router.Get("/:stream/:semester/subjects/:code/attendance/:date", h.listDay)
	router.Get("/:stream/:semester/subjects/:code/absentees/:date", h.absentees)
	router.Post("/:stream/:semester/subjects/:code/absentees/:date/notify", h.notify)
}

func (h *AttendanceHandler) mark(c *fiber.Ctx) error {
	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	var payload dto.MarkAttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entries, err := h.attendance.MarkDay(c.Context(), streamParam(c), semester, c.Params("code"), payload)
	if err != nil {
		if isBadAttendanceInput(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to record attendance")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to record attendance")
	}

	return utils.SendSuccess(c, "attendance recorded", entries)
}

func (h *AttendanceHandler) listDay(c *fiber.Ctx) error {
	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	entries, err := h.attendance.ListDay(c.Context(), streamParam(c), semester, c.Params("code"), c.Params("date"))
	if err != nil {
		if isBadAttendanceInput(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list attendance")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list attendance")
	}

	return utils.SendSuccess(c, "attendance retrieved", entries)
}

func (h *AttendanceHandler) absentees(c *fiber.Ctx) error {
	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	report, err := h.attendance.Absentees(c.Context(), streamParam(c), semester, c.Params("code"), c.Params("date"))
	if err != nil {
		if isBadAttendanceInput(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute absentees")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute absentees")
	}

	return utils.SendSuccess(c, "absentees computed", report)
}

func (h *AttendanceHandler) notify(c *fiber.Ctx) error {
	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	report, err := h.notification.NotifyAbsentees(c.Context(), streamParam(c), semester, c.Params("code"), c.Params("date"))
	if err != nil {
		if isBadAttendanceInput(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to dispatch absentee notifications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to dispatch absentee notifications")
	}

	return utils.SendSuccess(c, "absentee notifications dispatched", report)
}

func isBadAttendanceInput(err error) bool {
	return errors.Is(err, service.ErrInvalidDate) ||
		errors.Is(err, service.ErrUnknownStudents) ||
		errors.Is(err, service.ErrInvalidAttendance) ||
		errors.Is(err, service.ErrInvalidSubject) ||
		isBadRosterInput(err)
}
