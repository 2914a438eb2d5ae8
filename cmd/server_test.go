package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/errx"
	"github.com/Abraxas-365/jobtrack/pkg/fsx"
	"github.com/Abraxas-365/jobtrack/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: globalErrorHandler})
	app.Get("/errx", func(c *fiber.Ctx) error {
		return fmt.Errorf("wrapped: %w", annotation.ErrEditorBusy())
	})
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrTeapot })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("boom") })

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/errx", http.StatusConflict, string(annotation.CodeEditorBusy)},
		{"/fiber", http.StatusTeapot, ""},
		{"/plain", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.code != "" {
				var body errx.HTTPResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.code, body.Code)
			}
		})
	}
}

func TestMemFileHandler(t *testing.T) {
	mem := fsxmem.New("http://localhost/files")
	require.NoError(t, mem.WriteFile(context.Background(), "resumes/cv.pdf", []byte("%PDF-1.4")))

	app := fiber.New(fiber.Config{ErrorHandler: globalErrorHandler})
	app.Get("/files/*", memFileHandler(mem))

	url, err := mem.SignedURL(context.Background(), "resumes/cv.pdf", time.Minute, fsx.SignOptions{DownloadName: "cv.pdf"})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "cv.pdf")

	expired := fmt.Sprintf("/files/resumes/cv.pdf?expires=%d", time.Now().Add(-time.Minute).Unix())
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, expired, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	missing := fmt.Sprintf("/files/resumes/none.pdf?expires=%d", time.Now().Add(time.Minute).Unix())
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, missing, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
