package annotationsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/errx"
	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/pkg/logx"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
	"github.com/google/uuid"
)

const (
	finishSaveAttempts = 3
	finishSaveBackoff  = 20 * time.Millisecond
)

// Service runs annotation editor sessions
type Service struct {
	sessions   annotation.SessionStore
	documents  annotation.DocumentSource
	repo       annotation.Repository
	metrics    *Metrics
	editorOpts []annotation.Option
	locks      *sessionLocks
}

// NewService creates the editor session service. metrics may be nil.
func NewService(
	sessions annotation.SessionStore,
	documents annotation.DocumentSource,
	repo annotation.Repository,
	metrics *Metrics,
	editorOpts ...annotation.Option,
) *Service {
	return &Service{
		sessions:   sessions,
		documents:  documents,
		repo:       repo,
		metrics:    metrics,
		editorOpts: editorOpts,
		locks:      newSessionLocks(),
	}
}

// ============================================================================
// Session Lifecycle
// ============================================================================

// OpenSession opens an empty editor on a resume the user owns
func (s *Service) OpenSession(ctx context.Context, userID kernel.UserID, req annotation.OpenSessionRequest) (*annotation.SessionResponse, error) {
	doc, err := s.documents.Open(ctx, userID, req.ResumeID)
	if err != nil {
		s.metrics.observe("open", err)
		if _, ok := errx.As(err); ok {
			return nil, err
		}
		return nil, annotation.ErrRegistry.NewWithCause(annotation.CodeDocumentUnavailable, err).
			WithDetail("resume_id", req.ResumeID)
	}

	editor, err := annotation.NewEditor(doc.PageCount, s.editorOpts...)
	if err != nil {
		s.metrics.observe("open", err)
		return nil, err
	}

	session := annotation.NewSession(kernel.NewSessionID(uuid.NewString()), userID, *doc, editor)
	if err := s.sessions.Create(ctx, session); err != nil {
		s.metrics.observe("open", err)
		return nil, errx.Wrap(err, "failed to create editor session", errx.TypeInternal)
	}

	s.metrics.observe("open", nil)
	logx.Infof("Opened annotation session %s on resume %s (%d pages)", session.ID, doc.ResumeID, doc.PageCount)

	return annotation.ToSessionResponse(session, editor), nil
}

// GetSession returns the current view of a session
func (s *Service) GetSession(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID) (*annotation.SessionResponse, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	editor, err := session.Editor(s.editorOpts...)
	if err != nil {
		return nil, err
	}
	return annotation.ToSessionResponse(session, editor), nil
}

// CloseSession discards a session and any unsaved annotations
func (s *Service) CloseSession(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	editor, err := session.Editor(s.editorOpts...)
	if err != nil {
		return err
	}
	if editor.Saving() {
		return annotation.ErrEditorBusy().WithDetail("session_id", sessionID)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.metrics.observe("close", err)
		return errx.Wrap(err, "failed to delete editor session", errx.TypeInternal)
	}

	if editor.Dirty() {
		logx.Infof("Closed annotation session %s discarding %d unsaved annotations", sessionID, len(editor.Annotations()))
	}
	s.metrics.observe("close", nil)
	return nil
}

// ============================================================================
// View State
// ============================================================================

func (s *Service) SelectTool(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, req annotation.SelectToolRequest) (*annotation.SessionResponse, error) {
	return s.apply(ctx, userID, sessionID, "select_tool", func(e *annotation.Editor) error {
		return e.SelectTool(req.Tool)
	})
}

func (s *Service) SetPage(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, req annotation.SetPageRequest) (*annotation.SessionResponse, error) {
	return s.apply(ctx, userID, sessionID, "set_page", func(e *annotation.Editor) error {
		return e.SetPage(req.Page)
	})
}

func (s *Service) Zoom(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, req annotation.ZoomRequest) (*annotation.SessionResponse, error) {
	return s.apply(ctx, userID, sessionID, "zoom", func(e *annotation.Editor) error {
		switch req.Action {
		case annotation.ZoomIn:
			e.ZoomIn()
		case annotation.ZoomOut:
			e.ZoomOut()
		case annotation.ZoomSet:
			if req.Scale <= 0 {
				return annotation.ErrInvalidRequest().WithDetail("scale", req.Scale)
			}
			e.SetScale(req.Scale)
		default:
			return annotation.ErrInvalidRequest().WithDetail("action", req.Action)
		}
		return nil
	})
}

func (s *Service) SetTextStyle(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, req annotation.TextStyleRequest) (*annotation.SessionResponse, error) {
	return s.apply(ctx, userID, sessionID, "set_text_style", func(e *annotation.Editor) error {
		return e.SetTextStyle(annotation.TextStyle{Text: req.Text, FontSize: req.FontSize, Color: req.Color})
	})
}

func (s *Service) SetHighlightColor(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, req annotation.HighlightColorRequest) (*annotation.SessionResponse, error) {
	return s.apply(ctx, userID, sessionID, "set_highlight_color", func(e *annotation.Editor) error {
		return e.SetHighlightColor(req.Color)
	})
}

func (s *Service) Select(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, req annotation.SelectRequest) (*annotation.SessionResponse, error) {
	return s.apply(ctx, userID, sessionID, "select", func(e *annotation.Editor) error {
		return e.Select(req.AnnotationID)
	})
}

func (s *Service) ClearSelection(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID) (*annotation.SessionResponse, error) {
	return s.apply(ctx, userID, sessionID, "clear_selection", func(e *annotation.Editor) error {
		e.ClearSelection()
		return nil
	})
}

// ============================================================================
// Pointer Input
// ============================================================================

func withOrigin(e *annotation.Editor, req annotation.PointerRequest) {
	if req.Origin != nil {
		e.SetCanvasOrigin(*req.Origin)
	}
}

// Click dispatches a click to the active tool
func (s *Service) Click(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, req annotation.PointerRequest) (*annotation.MutationResponse, error) {
	var res annotation.ClickResult
	view, err := s.apply(ctx, userID, sessionID, "click", func(e *annotation.Editor) error {
		withOrigin(e, req)
		var err error
		res, err = e.Click(req.Point())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &annotation.MutationResponse{
		Changed:      res.Action == annotation.ClickCreated,
		AnnotationID: res.AnnotationID,
		Action:       res.Action,
		Session:      view,
	}, nil
}

func (s *Service) PointerDown(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, req annotation.PointerRequest) (*annotation.MutationResponse, error) {
	view, err := s.apply(ctx, userID, sessionID, "pointer_down", func(e *annotation.Editor) error {
		withOrigin(e, req)
		e.PointerDown(req.Point())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &annotation.MutationResponse{Session: view}, nil
}

// PointerUp finishes a highlight drag
func (s *Service) PointerUp(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, req annotation.PointerRequest) (*annotation.MutationResponse, error) {
	var id kernel.AnnotationID
	view, err := s.apply(ctx, userID, sessionID, "pointer_up", func(e *annotation.Editor) error {
		withOrigin(e, req)
		var err error
		id, err = e.PointerUp(req.Point())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &annotation.MutationResponse{Changed: !id.IsEmpty(), AnnotationID: id, Session: view}, nil
}

// ============================================================================
// Annotation Mutations
// ============================================================================

func (s *Service) CreateText(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, req annotation.CreateTextRequest) (*annotation.MutationResponse, error) {
	var id kernel.AnnotationID
	view, err := s.apply(ctx, userID, sessionID, "create_text", func(e *annotation.Editor) error {
		var err error
		id, err = e.CreateText(req.Input())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &annotation.MutationResponse{Changed: true, AnnotationID: id, Session: view}, nil
}

func (s *Service) CreateHighlight(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, req annotation.CreateHighlightRequest) (*annotation.MutationResponse, error) {
	var id kernel.AnnotationID
	view, err := s.apply(ctx, userID, sessionID, "create_highlight", func(e *annotation.Editor) error {
		var err error
		id, err = e.CreateHighlight(req.Input())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &annotation.MutationResponse{Changed: !id.IsEmpty(), AnnotationID: id, Session: view}, nil
}

func (s *Service) UpdateText(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, annotationID kernel.AnnotationID, req annotation.UpdateTextRequest) (*annotation.MutationResponse, error) {
	return s.mutate(ctx, userID, sessionID, "update_text", annotationID, func(e *annotation.Editor) (bool, error) {
		return e.UpdateText(annotationID, req.Text)
	})
}

func (s *Service) CommitText(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
	return s.mutate(ctx, userID, sessionID, "commit_text", "", func(e *annotation.Editor) (bool, error) {
		return e.CommitText()
	})
}

func (s *Service) Delete(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, annotationID kernel.AnnotationID) (*annotation.MutationResponse, error) {
	return s.mutate(ctx, userID, sessionID, "delete", annotationID, func(e *annotation.Editor) (bool, error) {
		return e.Delete(annotationID)
	})
}

func (s *Service) DeleteSelected(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
	return s.mutate(ctx, userID, sessionID, "delete_selected", "", func(e *annotation.Editor) (bool, error) {
		return e.DeleteSelected()
	})
}

func (s *Service) Undo(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
	return s.mutate(ctx, userID, sessionID, "undo", "", func(e *annotation.Editor) (bool, error) {
		return e.Undo()
	})
}

func (s *Service) Redo(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID) (*annotation.MutationResponse, error) {
	return s.mutate(ctx, userID, sessionID, "redo", "", func(e *annotation.Editor) (bool, error) {
		return e.Redo()
	})
}

// ============================================================================
// Save
// ============================================================================

// Save hands the annotation list to the repository. The session stays locked against
// annotation changes while the write is in flight; on success it is closed, on failure
// it is left exactly as it was so the user can retry.
func (s *Service) Save(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID) (*annotation.SaveResponse, error) {
	unlock := s.locks.lock(sessionID)
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		unlock()
		return nil, err
	}
	editor, err := session.Editor(s.editorOpts...)
	if err != nil {
		unlock()
		return nil, err
	}
	list, err := editor.BeginSave()
	if err != nil {
		unlock()
		s.metrics.observeSave(err)
		return nil, err
	}
	session.Apply(editor)
	if err := s.sessions.Update(ctx, session); err != nil {
		unlock()
		return nil, errx.Wrap(err, "failed to mark session as saving", errx.TypeInternal)
	}
	unlock()

	set := session.AnnotationSet(list)
	saveErr := s.repo.Save(ctx, set)

	// The outcome must be recorded even if the caller went away mid-save
	finishCtx := context.WithoutCancel(ctx)

	unlock = s.locks.lock(sessionID)
	defer unlock()

	if saveErr != nil {
		logx.Warnf("Saving annotation session %s failed: %v", sessionID, saveErr)

		if err := s.finishSave(finishCtx, sessionID); err != nil {
			logx.Errorf("Failed to release annotation session %s after failed save, it stays busy until the save timeout: %v", sessionID, err)
		}
		if !errx.IsType(saveErr, errx.TypeNotFound) {
			saveErr = annotation.ErrSaveFailed().
				WithCause(saveErr).
				WithDetail("session_id", sessionID)
		}
		s.metrics.observeSave(saveErr)
		return nil, saveErr
	}

	if err := s.sessions.Delete(finishCtx, sessionID); err != nil {
		logx.Errorf("Saved annotation session %s but failed to close it: %v", sessionID, err)
	}
	s.metrics.observeSave(nil)
	logx.Infof("Saved %d annotations for resume %s", len(list), set.ResumeID)

	return &annotation.SaveResponse{
		SessionID: sessionID,
		ResumeID:  set.ResumeID,
		Count:     len(list),
		SavedAt:   set.SavedAt,
		Closed:    true,
	}, nil
}

// finishSave clears the busy flag on the latest stored state of a session, retrying
// store failures. A session that has gone away needs no release.
func (s *Service) finishSave(ctx context.Context, sessionID kernel.SessionID) error {
	var err error
	for attempt := 1; attempt <= finishSaveAttempts; attempt++ {
		if err = s.releaseSave(ctx, sessionID); err == nil || errx.IsCode(err, annotation.CodeSessionNotFound) {
			return nil
		}
		logx.Warnf("Releasing annotation session %s failed (attempt %d/%d): %v", sessionID, attempt, finishSaveAttempts, err)
		if attempt < finishSaveAttempts {
			time.Sleep(time.Duration(attempt) * finishSaveBackoff)
		}
	}
	return err
}

func (s *Service) releaseSave(ctx context.Context, sessionID kernel.SessionID) error {
	current, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	editor, err := current.Editor(s.editorOpts...)
	if err != nil {
		return err
	}
	editor.FinishSave()
	current.Apply(editor)
	return s.sessions.Update(ctx, current)
}

// GetSavedAnnotations returns the last saved annotations for a resume
func (s *Service) GetSavedAnnotations(ctx context.Context, userID kernel.UserID, resumeID kernel.ResumeID) (*annotation.AnnotationSetResponse, error) {
	set, err := s.repo.GetByResume(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}
	return annotation.ToAnnotationSetResponse(set), nil
}

// ============================================================================
// Helpers
// ============================================================================

func (s *Service) load(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID) (*annotation.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.BelongsTo(userID) {
		return nil, annotation.ErrSessionAccessDenied().WithDetail("session_id", sessionID)
	}
	return session, nil
}

// apply runs fn against the session's editor under the session lock and stores the result
func (s *Service) apply(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, op string, fn func(e *annotation.Editor) error) (*annotation.SessionResponse, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		s.metrics.observe(op, err)
		return nil, err
	}
	editor, err := session.Editor(s.editorOpts...)
	if err != nil {
		s.metrics.observe(op, err)
		return nil, err
	}

	if err := fn(editor); err != nil {
		s.metrics.observe(op, err)
		return nil, err
	}

	session.Apply(editor)
	if err := s.sessions.Update(ctx, session); err != nil {
		s.metrics.observe(op, err)
		return nil, errx.Wrap(err, "failed to store editor session", errx.TypeInternal)
	}

	s.metrics.observe(op, nil)
	return annotation.ToSessionResponse(session, editor), nil
}

func (s *Service) mutate(ctx context.Context, userID kernel.UserID, sessionID kernel.SessionID, op string, id kernel.AnnotationID, fn func(e *annotation.Editor) (bool, error)) (*annotation.MutationResponse, error) {
	var changed bool
	view, err := s.apply(ctx, userID, sessionID, op, func(e *annotation.Editor) error {
		var err error
		changed, err = fn(e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &annotation.MutationResponse{Changed: changed, AnnotationID: id, Session: view}, nil
}
