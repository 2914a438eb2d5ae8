package resume

import (
	"net/http"

	"github.com/Abraxas-365/jobtrack/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("RESUME")

// Error codes - Resume Operations
var (
	CodeResumeNotFound    = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Resume not found")
	CodeAccessDenied      = ErrRegistry.Register("ACCESS_DENIED", errx.TypeAuthorization, http.StatusForbidden, "You don't have permission to access this resume")
	CodeRepositoryFailed  = ErrRegistry.Register("REPOSITORY_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to load resume")
	CodeInvalidResumeData = ErrRegistry.Register("INVALID_DATA", errx.TypeValidation, http.StatusBadRequest, "Invalid resume data")
	CodeFileNotFound      = ErrRegistry.Register("FILE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Resume file not found")
	CodeFileReadFailed    = ErrRegistry.Register("FILE_READ_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to read resume file")
	CodeSignedURLFailed   = ErrRegistry.Register("SIGNED_URL_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to generate download URL")
	CodeInvalidFileFormat = ErrRegistry.Register("INVALID_FILE_FORMAT", errx.TypeValidation, http.StatusUnprocessableEntity, "Resume file is not a readable PDF")
	CodeInvalidPage       = ErrRegistry.Register("INVALID_PAGE", errx.TypeValidation, http.StatusBadRequest, "Page is outside the document")
	CodeInvalidScale      = ErrRegistry.Register("INVALID_SCALE", errx.TypeValidation, http.StatusBadRequest, "Scale is outside the allowed range")
	CodePageRenderFailed  = ErrRegistry.Register("RENDER_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to render page")
)

// Helper functions - Resume Operations
func ErrResumeNotFound() *errx.Error {
	return ErrRegistry.New(CodeResumeNotFound)
}

func ErrAccessDenied() *errx.Error {
	return ErrRegistry.New(CodeAccessDenied)
}

func ErrInvalidResumeData() *errx.Error {
	return ErrRegistry.New(CodeInvalidResumeData)
}

func ErrFileNotFound() *errx.Error {
	return ErrRegistry.New(CodeFileNotFound)
}

func ErrFileReadFailed() *errx.Error {
	return ErrRegistry.New(CodeFileReadFailed)
}

func ErrSignedURLFailed() *errx.Error {
	return ErrRegistry.New(CodeSignedURLFailed)
}

func ErrInvalidFileFormat() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileFormat)
}

func ErrInvalidPage() *errx.Error {
	return ErrRegistry.New(CodeInvalidPage)
}

func ErrInvalidScale() *errx.Error {
	return ErrRegistry.New(CodeInvalidScale)
}

func ErrPageRenderFailed() *errx.Error {
	return ErrRegistry.New(CodePageRenderFailed)
}
