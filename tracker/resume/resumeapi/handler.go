package resumeapi

import (
	"strconv"

	"github.com/Abraxas-365/jobtrack/pkg/iam/auth"
	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/tracker/resume"
	"github.com/Abraxas-365/jobtrack/tracker/resume/resumesrv"
	"github.com/gofiber/fiber/v2"
)

type ResumeHandlers struct {
	service *resumesrv.Service
}

func NewResumeHandlers(service *resumesrv.Service) *ResumeHandlers {
	return &ResumeHandlers{service: service}
}

// RegisterRoutes mounts the resume routes under /api/resumes
func RegisterRoutes(app *fiber.App, h *ResumeHandlers, authMiddleware *auth.TokenMiddleware) {
	resumes := app.Group("/api/resumes", authMiddleware.Authenticate(), authMiddleware.RequireScope(auth.ScopeResumesRead))

	resumes.Get("/", h.ListResumes)
	resumes.Get("/:id", h.GetResume)
	resumes.Get("/:id/signed-url", h.GetSignedURL)
	resumes.Get("/:id/pages", h.GetPageInfo)
	resumes.Get("/:id/pages/:page/image", h.RenderPage)
}

// ============================================================================
// Resume Handlers
// ============================================================================

// ListResumes lists the caller's resumes
// GET /api/resumes
func (h *ResumeHandlers) ListResumes(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	req := resume.ListResumesRequest{
		UserID: authCtx.UserID,
		Pagination: kernel.PaginationOptions{
			Page:     c.QueryInt("page", 1),
			PageSize: c.QueryInt("page_size", kernel.DefaultPageSize),
		},
	}

	response, err := h.service.ListResumes(c.Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// GetResume retrieves a resume by ID
// GET /api/resumes/:id
func (h *ResumeHandlers) GetResume(c *fiber.Ctx) error {
	authCtx, resumeID, err := resumeParams(c)
	if err != nil {
		return err
	}

	response, err := h.service.GetResume(c.Context(), authCtx.UserID, resumeID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// GetSignedURL issues a short-lived link to the resume PDF
// GET /api/resumes/:id/signed-url?download=true
func (h *ResumeHandlers) GetSignedURL(c *fiber.Ctx) error {
	authCtx, resumeID, err := resumeParams(c)
	if err != nil {
		return err
	}

	response, err := h.service.GetSignedURL(c.Context(), authCtx.UserID, resumeID, c.QueryBool("download", false))
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// GetPageInfo returns page count and page sizes
// GET /api/resumes/:id/pages
func (h *ResumeHandlers) GetPageInfo(c *fiber.Ctx) error {
	authCtx, resumeID, err := resumeParams(c)
	if err != nil {
		return err
	}

	response, err := h.service.GetPageInfo(c.Context(), authCtx.UserID, resumeID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// RenderPage returns a JPEG preview of one page
// GET /api/resumes/:id/pages/:page/image?scale=1.5
func (h *ResumeHandlers) RenderPage(c *fiber.Ctx) error {
	authCtx, resumeID, err := resumeParams(c)
	if err != nil {
		return err
	}

	page, err := c.ParamsInt("page")
	if err != nil {
		return resume.ErrInvalidPage().WithDetail("page", c.Params("page"))
	}

	scale := resumesrv.DefaultRenderScale
	if raw := c.Query("scale"); raw != "" {
		scale, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return resume.ErrInvalidScale().WithDetail("scale", raw)
		}
	}

	img, err := h.service.RenderPage(c.Context(), authCtx.UserID, resumeID, page, scale)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(img)
}

func resumeParams(c *fiber.Ctx) (*auth.AuthContext, kernel.ResumeID, error) {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return nil, "", auth.ErrUnauthorized()
	}

	resumeID := kernel.ResumeID(c.Params("id"))
	if resumeID.IsEmpty() {
		return nil, "", resume.ErrInvalidResumeData().WithDetail("reason", "invalid resume ID")
	}
	return authCtx, resumeID, nil
}
