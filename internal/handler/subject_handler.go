package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rollcall-go-api/internal/dto"
	"github.com/noah-isme/rollcall-go-api/internal/service"
	"github.com/noah-isme/rollcall-go-api/internal/utils"
)

// SubjectHandler wires per-bucket subject endpoints.
type SubjectHandler struct {
	service service.SubjectService
	logger  zerolog.Logger
}

// NewSubjectHandler constructs the handler.
func NewSubjectHandler(service service.SubjectService, logger zerolog.Logger) *SubjectHandler {
	return &SubjectHandler{
		service: service,
		logger:  logger.With().Str("component", "subject_handler").Logger(),
	}
}

// Register attaches subject routes to the router group.
func (h *SubjectHandler) Register(router fiber.Router) {
	router.Post("/:stream/:semester/subjects", h.create)
	router.Get("/:stream/:semester/subjects", h.list)
	router.Delete("/:stream/:semester/subjects/:code", h.delete)
}

func (h *SubjectHandler) create(c *fiber.Ctx) error {
	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	var payload dto.SubjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	subject, err := h.service.Create(c.Context(), streamParam(c), semester, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectExists):
			return utils.SendError(c, fiber.StatusConflict, "subject already registered")
		case errors.Is(err, service.ErrInvalidSubject) || isBadRosterInput(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to register subject")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to register subject")
		}
	}

	return utils.SendCreated(c, "subject registered", subject)
}

func (h *SubjectHandler) list(c *fiber.Ctx) error {
	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	subjects, err := h.service.List(c.Context(), streamParam(c), semester)
	if err != nil {
		if isBadRosterInput(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list subjects")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list subjects")
	}

	return utils.SendSuccess(c, "subjects retrieved", subjects)
}

func (h *SubjectHandler) delete(c *fiber.Ctx) error {
	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	if err := h.service.Delete(c.Context(), streamParam(c), semester, c.Params("code")); err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		case errors.Is(err, service.ErrInvalidSubject) || isBadRosterInput(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete subject")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete subject")
		}
	}

	return utils.SendSuccess(c, "subject deleted", fiber.Map{"code": c.Params("code")})
}
