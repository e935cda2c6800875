package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/rollcall-go-api/internal/handler"
	"github.com/noah-isme/rollcall-go-api/internal/repository"
	"github.com/noah-isme/rollcall-go-api/internal/roster"
	"github.com/noah-isme/rollcall-go-api/internal/service"
)

func studentApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	logger := zerolog.New(io.Discard)
	registry := roster.NewRegistry(db, logger)
	repo := repository.NewStudentRosterRepository(registry)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := service.NewStudentService(repo, validate, logger)

	app := fiber.New()
	h := handler.NewStudentHandler(svc, logger)
	h.Register(app.Group("/api/v1/roster"))
	return app
}

func TestStudentEndpointsRoundTrip(t *testing.T) {
	app := studentApp(t)

	body, err := json.Marshal(fiber.Map{
		"student_id":       "bca21001",
		"name":             "Asha Rao",
		"language_subject": "HINDI",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/roster/BCA/3/students", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	envelope := decodeEnvelope(t, resp.Body)
	require.True(t, envelope.Success)
	student, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "BCA21001", student["student_id"])
	require.Equal(t, "BCA-SEM3-HINDI", student["language_group"])

	// Duplicate enrollment is a conflict.
	req = httptest.NewRequest(fiber.MethodPost, "/api/v1/roster/BCA/3/students", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/roster/BCA/3/students", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	envelope = decodeEnvelope(t, resp.Body)
	listing, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, listing, 1)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/roster/BCA/3/students/BCA21001", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/roster/BCA/3/students/BCA21999", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStudentEndpointsRejectBadInput(t *testing.T) {
	app := studentApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/roster/MBA/3/students", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/roster/BCA/nine/students", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/roster/PGDM/2/students", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "PGDM has no semester 2")
}

func TestStudentUpdateEndpoint(t *testing.T) {
	app := studentApp(t)

	body, err := json.Marshal(fiber.Map{"student_id": "BCA21001", "name": "Asha"})
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/roster/BCA/3/students", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	patch, err := json.Marshal(fiber.Map{"status": "inactive"})
	require.NoError(t, err)
	req = httptest.NewRequest(fiber.MethodPatch, "/api/v1/roster/BCA/3/students/BCA21001", bytes.NewReader(patch))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp.Body)
	student, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "inactive", student["status"])

	bad, err := json.Marshal(fiber.Map{"status": "expelled"})
	require.NoError(t, err)
	req = httptest.NewRequest(fiber.MethodPatch, "/api/v1/roster/BCA/3/students/BCA21001", bytes.NewReader(bad))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
