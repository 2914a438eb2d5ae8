package annotation

import (
	"net/http"

	"github.com/Abraxas-365/jobtrack/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("ANNOTATION")

// Error codes - Editor
var (
	CodeInvalidTool        = ErrRegistry.Register("INVALID_TOOL", errx.TypeValidation, http.StatusBadRequest, "Unknown editor tool")
	CodeInvalidPage        = ErrRegistry.Register("INVALID_PAGE", errx.TypeValidation, http.StatusBadRequest, "Page is outside the document")
	CodeInvalidColor       = ErrRegistry.Register("INVALID_COLOR", errx.TypeValidation, http.StatusBadRequest, "Color must be a hex color")
	CodeInvalidFontSize    = ErrRegistry.Register("INVALID_FONT_SIZE", errx.TypeValidation, http.StatusBadRequest, "Font size is out of range")
	CodeInvalidAnnotation  = ErrRegistry.Register("INVALID_ANNOTATION", errx.TypeValidation, http.StatusBadRequest, "Invalid annotation data")
	CodeInvalidDocument    = ErrRegistry.Register("INVALID_DOCUMENT", errx.TypeValidation, http.StatusUnprocessableEntity, "Document has no pages")
	CodeInvalidState       = ErrRegistry.Register("INVALID_STATE", errx.TypeInternal, http.StatusInternalServerError, "Stored editor state is corrupt")
	CodeAnnotationNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Annotation not found on the current page")
	CodeEditorBusy         = ErrRegistry.Register("EDITOR_BUSY", errx.TypeConflict, http.StatusConflict, "Editor is saving, try again when the save completes")
	CodeSaveInProgress     = ErrRegistry.Register("SAVE_IN_PROGRESS", errx.TypeConflict, http.StatusConflict, "A save is already in progress")
)

// Error codes - Sessions and persistence
var (
	CodeSessionNotFound       = ErrRegistry.Register("SESSION_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Editor session not found")
	CodeSessionAlreadyExists  = ErrRegistry.Register("SESSION_ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Editor session already exists")
	CodeSessionAccessDenied   = ErrRegistry.Register("SESSION_ACCESS_DENIED", errx.TypeAuthorization, http.StatusForbidden, "Editor session belongs to another user")
	CodeSessionStoreFailed    = ErrRegistry.Register("SESSION_STORE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to access editor session store")
	CodeDocumentUnavailable   = ErrRegistry.Register("DOCUMENT_UNAVAILABLE", errx.TypeExternal, http.StatusBadGateway, "Document could not be loaded")
	CodeSaveFailed            = ErrRegistry.Register("SAVE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Annotations could not be saved")
	CodeAnnotationsNotFound   = ErrRegistry.Register("SET_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "No saved annotations for this resume")
	CodeRepositoryFailed      = ErrRegistry.Register("REPOSITORY_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Annotation storage failed")
	CodeInvalidRequest        = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeValidationFailed      = ErrRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Request validation failed")
	CodeResumeNotFoundForSave = ErrRegistry.Register("RESUME_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Resume no longer exists")
)

// Helper functions - Editor
func ErrInvalidTool() *errx.Error {
	return ErrRegistry.New(CodeInvalidTool)
}

func ErrInvalidPage() *errx.Error {
	return ErrRegistry.New(CodeInvalidPage)
}

func ErrInvalidColor() *errx.Error {
	return ErrRegistry.New(CodeInvalidColor)
}

func ErrInvalidFontSize() *errx.Error {
	return ErrRegistry.New(CodeInvalidFontSize)
}

func ErrInvalidAnnotation() *errx.Error {
	return ErrRegistry.New(CodeInvalidAnnotation)
}

func ErrInvalidDocument() *errx.Error {
	return ErrRegistry.New(CodeInvalidDocument)
}

func ErrInvalidState() *errx.Error {
	return ErrRegistry.New(CodeInvalidState)
}

func ErrAnnotationNotFound() *errx.Error {
	return ErrRegistry.New(CodeAnnotationNotFound)
}

func ErrEditorBusy() *errx.Error {
	return ErrRegistry.New(CodeEditorBusy)
}

func ErrSaveInProgress() *errx.Error {
	return ErrRegistry.New(CodeSaveInProgress)
}

// Helper functions - Sessions and persistence
func ErrSessionNotFound() *errx.Error {
	return ErrRegistry.New(CodeSessionNotFound)
}

func ErrSessionAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeSessionAlreadyExists)
}

func ErrSessionAccessDenied() *errx.Error {
	return ErrRegistry.New(CodeSessionAccessDenied)
}

func ErrSaveFailed() *errx.Error {
	return ErrRegistry.New(CodeSaveFailed).WithDetail("retryable", true)
}

func ErrAnnotationsNotFound() *errx.Error {
	return ErrRegistry.New(CodeAnnotationsNotFound)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrValidationFailed() *errx.Error {
	return ErrRegistry.New(CodeValidationFailed)
}
