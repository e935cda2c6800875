package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rollcall-go-api/internal/service"
	"github.com/noah-isme/rollcall-go-api/internal/utils"
)

// PromotionHandler wires the semester promotion endpoint.
type PromotionHandler struct {
	service service.PromotionService
	logger  zerolog.Logger
}

// NewPromotionHandler constructs the handler.
func NewPromotionHandler(service service.PromotionService, logger zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		logger:  logger.With().Str("component", "promotion_handler").Logger(),
	}
}

// Register attaches promotion routes to the router group.
func (h *PromotionHandler) Register(router fiber.Router) {
	router.Post("/:stream/promote", h.promote)
}

func (h *PromotionHandler) promote(c *fiber.Ctx) error {
	stream := streamParam(c)
	if stream == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "stream is required")
	}

	report, err := h.service.Promote(c.Context(), stream)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownStream):
			return utils.SendError(c, fiber.StatusBadRequest, "unrecognized stream")
		case errors.Is(err, service.ErrPromotionInProgress):
			return utils.SendError(c, fiber.StatusConflict, "promotion already running for this stream")
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("stream", stream).Msg("promotion run failed")
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccess(c, "promotion completed", report)
}
