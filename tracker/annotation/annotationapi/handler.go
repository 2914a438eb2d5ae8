package annotationapi

import (
	"errors"

	"github.com/Abraxas-365/jobtrack/pkg/iam/auth"
	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
	"github.com/Abraxas-365/jobtrack/tracker/annotation/annotationsrv"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for annotation editor sessions
type Handlers struct {
	service  *annotationsrv.Service
	validate *validator.Validate
}

// NewHandlers creates a new annotation handlers instance
func NewHandlers(service *annotationsrv.Service) *Handlers {
	validate := validator.New()
	// request colors follow the same rule as annotation.Color
	if err := validate.RegisterValidation("annotation_color", func(fl validator.FieldLevel) bool {
		return annotation.Color(fl.Field().String()).IsValid()
	}); err != nil {
		panic(err)
	}

	return &Handlers{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes mounts the editor routes under /api/annotation-sessions and the
// saved annotation read-back under /api/resumes
func RegisterRoutes(app *fiber.App, h *Handlers, authMiddleware *auth.TokenMiddleware) {
	read := authMiddleware.RequireScope(auth.ScopeAnnotationsRead)
	write := authMiddleware.RequireScope(auth.ScopeAnnotationsWrite)

	sessions := app.Group("/api/annotation-sessions", authMiddleware.Authenticate())

	sessions.Post("/", write, h.OpenSession)
	sessions.Get("/:id", read, h.GetSession)
	sessions.Delete("/:id", write, h.CloseSession)

	// View state
	sessions.Put("/:id/tool", write, h.SelectTool)
	sessions.Put("/:id/page", write, h.SetPage)
	sessions.Put("/:id/zoom", write, h.Zoom)
	sessions.Put("/:id/text-style", write, h.SetTextStyle)
	sessions.Put("/:id/highlight-color", write, h.SetHighlightColor)
	sessions.Put("/:id/selection", write, h.Select)
	sessions.Delete("/:id/selection", write, h.ClearSelection)

	// Pointer input
	sessions.Post("/:id/click", write, h.Click)
	sessions.Post("/:id/pointer-down", write, h.PointerDown)
	sessions.Post("/:id/pointer-up", write, h.PointerUp)

	// Annotation mutations
	sessions.Post("/:id/annotations/text", write, h.CreateText)
	sessions.Post("/:id/annotations/highlight", write, h.CreateHighlight)
	sessions.Post("/:id/annotations/commit-text", write, h.CommitText)
	sessions.Put("/:id/annotations/:annotationId/text", write, h.UpdateText)
	sessions.Delete("/:id/annotations/:annotationId", write, h.DeleteAnnotation)
	sessions.Post("/:id/delete-selected", write, h.DeleteSelected)
	sessions.Post("/:id/undo", write, h.Undo)
	sessions.Post("/:id/redo", write, h.Redo)
	sessions.Post("/:id/save", write, h.Save)

	app.Get("/api/resumes/:id/annotations", authMiddleware.Authenticate(), read, h.GetSavedAnnotations)
}

// ============================================================================
// Session Lifecycle
// ============================================================================

// OpenSession opens an editor on one of the caller's resumes
// POST /api/annotation-sessions
func (h *Handlers) OpenSession(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req annotation.OpenSessionRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	response, err := h.service.OpenSession(c.Context(), authCtx.UserID, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// GetSession returns the current editor view
// GET /api/annotation-sessions/:id
func (h *Handlers) GetSession(c *fiber.Ctx) error {
	authCtx, sessionID, err := sessionParams(c)
	if err != nil {
		return err
	}

	response, err := h.service.GetSession(c.Context(), authCtx.UserID, sessionID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// CloseSession discards the editor without saving
// DELETE /api/annotation-sessions/:id
func (h *Handlers) CloseSession(c *fiber.Ctx) error {
	authCtx, sessionID, err := sessionParams(c)
	if err != nil {
		return err
	}

	if err := h.service.CloseSession(c.Context(), authCtx.UserID, sessionID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Save persists the annotations and closes the session
// POST /api/annotation-sessions/:id/save
func (h *Handlers) Save(c *fiber.Ctx) error {
	authCtx, sessionID, err := sessionParams(c)
	if err != nil {
		return err
	}

	response, err := h.service.Save(c.Context(), authCtx.UserID, sessionID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// GetSavedAnnotations returns the last saved annotations of a resume
// GET /api/resumes/:id/annotations
func (h *Handlers) GetSavedAnnotations(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	resumeID := kernel.ResumeID(c.Params("id"))
	if resumeID.IsEmpty() {
		return annotation.ErrInvalidRequest().WithDetail("resume_id", "missing or empty")
	}

	response, err := h.service.GetSavedAnnotations(c.Context(), authCtx.UserID, resumeID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// ============================================================================
// View State Handlers
// ============================================================================

// SelectTool switches the active tool
// PUT /api/annotation-sessions/:id/tool
func (h *Handlers) SelectTool(c *fiber.Ctx) error {
	var req annotation.SelectToolRequest
	return h.view(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.SessionResponse, error) {
		return h.service.SelectTool(c.Context(), authCtx.UserID, sessionID, req)
	})
}

// SetPage moves to another page
// PUT /api/annotation-sessions/:id/page
func (h *Handlers) SetPage(c *fiber.Ctx) error {
	var req annotation.SetPageRequest
	return h.view(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.SessionResponse, error) {
		return h.service.SetPage(c.Context(), authCtx.UserID, sessionID, req)
	})
}

// Zoom zooms in, out or to a given scale
// PUT /api/annotation-sessions/:id/zoom
func (h *Handlers) Zoom(c *fiber.Ctx) error {
	var req annotation.ZoomRequest
	return h.view(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.SessionResponse, error) {
		return h.service.Zoom(c.Context(), authCtx.UserID, sessionID, req)
	})
}

// SetTextStyle changes the defaults for new text annotations
// PUT /api/annotation-sessions/:id/text-style
func (h *Handlers) SetTextStyle(c *fiber.Ctx) error {
	var req annotation.TextStyleRequest
	return h.view(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.SessionResponse, error) {
		return h.service.SetTextStyle(c.Context(), authCtx.UserID, sessionID, req)
	})
}

// SetHighlightColor changes the color of new highlights
// PUT /api/annotation-sessions/:id/highlight-color
func (h *Handlers) SetHighlightColor(c *fiber.Ctx) error {
	var req annotation.HighlightColorRequest
	return h.view(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.SessionResponse, error) {
		return h.service.SetHighlightColor(c.Context(), authCtx.UserID, sessionID, req)
	})
}

// Select selects an annotation on the current page
// PUT /api/annotation-sessions/:id/selection
func (h *Handlers) Select(c *fiber.Ctx) error {
	var req annotation.SelectRequest
	return h.view(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.SessionResponse, error) {
		return h.service.Select(c.Context(), authCtx.UserID, sessionID, req)
	})
}

// ClearSelection
// DELETE /api/annotation-sessions/:id/selection
func (h *Handlers) ClearSelection(c *fiber.Ctx) error {
	return h.view(c, nil, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.SessionResponse, error) {
		return h.service.ClearSelection(c.Context(), authCtx.UserID, sessionID)
	})
}

// ============================================================================
// Pointer Handlers
// ============================================================================

// Click dispatches a click in screen coordinates to the active tool
// POST /api/annotation-sessions/:id/click
func (h *Handlers) Click(c *fiber.Ctx) error {
	var req annotation.PointerRequest
	return h.mutation(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
		return h.service.Click(c.Context(), authCtx.UserID, sessionID, req)
	})
}

// PointerDown starts a highlight drag
// POST /api/annotation-sessions/:id/pointer-down
func (h *Handlers) PointerDown(c *fiber.Ctx) error {
	var req annotation.PointerRequest
	return h.mutation(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
		return h.service.PointerDown(c.Context(), authCtx.UserID, sessionID, req)
	})
}

// PointerUp finishes a highlight drag
// POST /api/annotation-sessions/:id/pointer-up
func (h *Handlers) PointerUp(c *fiber.Ctx) error {
	var req annotation.PointerRequest
	return h.mutation(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
		return h.service.PointerUp(c.Context(), authCtx.UserID, sessionID, req)
	})
}

// ============================================================================
// Annotation Handlers
// ============================================================================

// CreateText places a text annotation at document coordinates
// POST /api/annotation-sessions/:id/annotations/text
func (h *Handlers) CreateText(c *fiber.Ctx) error {
	var req annotation.CreateTextRequest
	return h.mutation(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
		return h.service.CreateText(c.Context(), authCtx.UserID, sessionID, req)
	})
}

// CreateHighlight places a highlight at document coordinates
// POST /api/annotation-sessions/:id/annotations/highlight
func (h *Handlers) CreateHighlight(c *fiber.Ctx) error {
	var req annotation.CreateHighlightRequest
	return h.mutation(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
		return h.service.CreateHighlight(c.Context(), authCtx.UserID, sessionID, req)
	})
}

// UpdateText edits a text annotation in place
// PUT /api/annotation-sessions/:id/annotations/:annotationId/text
func (h *Handlers) UpdateText(c *fiber.Ctx) error {
	var req annotation.UpdateTextRequest
	annotationID := kernel.AnnotationID(c.Params("annotationId"))
	return h.mutation(c, &req, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
		return h.service.UpdateText(c.Context(), authCtx.UserID, sessionID, annotationID, req)
	})
}

// CommitText records finished text edits in the undo history
// POST /api/annotation-sessions/:id/annotations/commit-text
func (h *Handlers) CommitText(c *fiber.Ctx) error {
	return h.mutation(c, nil, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
		return h.service.CommitText(c.Context(), authCtx.UserID, sessionID)
	})
}

// DeleteAnnotation
// DELETE /api/annotation-sessions/:id/annotations/:annotationId
func (h *Handlers) DeleteAnnotation(c *fiber.Ctx) error {
	annotationID := kernel.AnnotationID(c.Params("annotationId"))
	return h.mutation(c, nil, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
		return h.service.Delete(c.Context(), authCtx.UserID, sessionID, annotationID)
	})
}

// DeleteSelected removes the selected annotation, if any
// POST /api/annotation-sessions/:id/delete-selected
func (h *Handlers) DeleteSelected(c *fiber.Ctx) error {
	return h.mutation(c, nil, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
		return h.service.DeleteSelected(c.Context(), authCtx.UserID, sessionID)
	})
}

// POST /api/annotation-sessions/:id/undo
func (h *Handlers) Undo(c *fiber.Ctx) error {
	return h.mutation(c, nil, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
		return h.service.Undo(c.Context(), authCtx.UserID, sessionID)
	})
}

// POST /api/annotation-sessions/:id/redo
func (h *Handlers) Redo(c *fiber.Ctx) error {
	return h.mutation(c, nil, func(authCtx *auth.AuthContext, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
		return h.service.Redo(c.Context(), authCtx.UserID, sessionID)
	})
}

// ============================================================================
// Helpers
// ============================================================================

func sessionParams(c *fiber.Ctx) (*auth.AuthContext, kernel.SessionID, error) {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return nil, "", auth.ErrUnauthorized()
	}

	sessionID := kernel.SessionID(c.Params("id"))
	if sessionID.IsEmpty() {
		return nil, "", annotation.ErrInvalidRequest().WithDetail("session_id", "missing or empty")
	}
	return authCtx, sessionID, nil
}

// bind parses the JSON body into req and validates it
func (h *Handlers) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return annotation.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	if err := h.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return annotation.ErrValidationFailed().WithDetail("error", err.Error())
		}
		fields := make(map[string]any, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Tag()
		}
		return annotation.ErrValidationFailed().WithDetail("fields", fields)
	}
	return nil
}

func (h *Handlers) view(c *fiber.Ctx, req any, fn func(*auth.AuthContext, kernel.SessionID) (*annotation.SessionResponse, error)) error {
	authCtx, sessionID, err := sessionParams(c)
	if err != nil {
		return err
	}
	if req != nil {
		if err := h.bind(c, req); err != nil {
			return err
		}
	}

	response, err := fn(authCtx, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

func (h *Handlers) mutation(c *fiber.Ctx, req any, fn func(*auth.AuthContext, kernel.SessionID) (*annotation.MutationResponse, error)) error {
	authCtx, sessionID, err := sessionParams(c)
	if err != nil {
		return err
	}
	if req != nil {
		if err := h.bind(c, req); err != nil {
			return err
		}
	}

	response, err := fn(authCtx, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(response)
}
