package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rollcall-go-api/internal/middleware"
)

func parseSemesterParam(c *fiber.Ctx) (int, error) {
	value := strings.TrimSpace(c.Params("semester"))
	semester, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return semester, nil
}

func streamParam(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Params("stream"))
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
