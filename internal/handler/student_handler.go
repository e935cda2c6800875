package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rollcall-go-api/internal/dto"
	"github.com/noah-isme/rollcall-go-api/internal/service"
	"github.com/noah-isme/rollcall-go-api/internal/utils"
)

// StudentHandler wires per-bucket roster endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches roster routes to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Post("/:stream/:semester/students", h.enroll)
	router.Get("/:stream/:semester/students", h.list)
	router.Get("/:stream/:semester/students/:studentID", h.get)
	router.Patch("/:stream/:semester/students/:studentID", h.update)
}

func (h *StudentHandler) enroll(c *fiber.Ctx) error {
	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Enroll(c.Context(), streamParam(c), semester, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentExists):
			return utils.SendError(c, fiber.StatusConflict, "student already enrolled")
		case isBadRosterInput(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to enroll student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to enroll student")
		}
	}

	return utils.SendCreated(c, "student enrolled", student)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	activeOnly := c.QueryBool("active", true)
	students, err := h.service.List(c.Context(), streamParam(c), semester, activeOnly)
	if err != nil {
		if isBadRosterInput(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	student, err := h.service.Get(c.Context(), streamParam(c), semester, c.Params("studentID"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case isBadRosterInput(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch student")
		}
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Update(c.Context(), streamParam(c), semester, c.Params("studentID"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case isBadRosterInput(err) || isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update student")
		}
	}

	return utils.SendSuccess(c, "student updated", student)
}

func isBadRosterInput(err error) bool {
	return errors.Is(err, service.ErrUnknownStream) ||
		errors.Is(err, service.ErrInvalidSemester) ||
		errors.Is(err, service.ErrInvalidStudentID) ||
		errors.Is(err, service.ErrInvalidLanguage) ||
		errors.Is(err, service.ErrInvalidPhone) ||
		isValidationError(err)
}
