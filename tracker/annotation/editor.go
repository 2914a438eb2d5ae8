package annotation

import (
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
)

// DefaultHighlightThreshold is the extent, in document units, a drag must exceed on both axes
const DefaultHighlightThreshold = 5.0

// DefaultSaveTimeout is how long a save may hold the editor busy. A saving flag
// older than this was left behind by a save that never finished and is dropped.
const DefaultSaveTimeout = 2 * time.Minute

const maxIDAttempts = 8

// TextStyle holds the defaults applied when the text tool places an annotation
type TextStyle struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
	Color    Color   `json:"color"`
}

func DefaultTextStyle() TextStyle {
	return TextStyle{FontSize: DefaultFontSize, Color: DefaultTextColor}
}

func (s TextStyle) Validate() error {
	if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
		return ErrInvalidFontSize().WithDetails(map[string]any{
			"font_size": s.FontSize,
			"min":       MinFontSize,
			"max":       MaxFontSize,
		})
	}
	if !s.Color.IsValid() {
		return ErrInvalidColor().WithDetail("color", s.Color)
	}
	return nil
}

// TextInput places a text annotation. Zero font size or empty color fall back to the text tool defaults.
type TextInput struct {
	Page     int
	X, Y     float64
	Text     string
	FontSize float64
	Color    Color
}

// HighlightInput places a highlight. An empty color falls back to the highlight tool color.
type HighlightInput struct {
	Page          int
	X, Y          float64
	Width, Height float64
	Color         Color
}

type ClickAction string

const (
	ClickSelected ClickAction = "selected"
	ClickCleared  ClickAction = "cleared"
	ClickCreated  ClickAction = "created"
	ClickIgnored  ClickAction = "ignored"
)

// ClickResult tells the caller what a click did
type ClickResult struct {
	Action       ClickAction         `json:"action"`
	AnnotationID kernel.AnnotationID `json:"annotation_id,omitempty"`
}

type Option func(*Editor)

func WithZoom(z ZoomConfig) Option {
	return func(e *Editor) { e.zoom = z }
}

func WithIDGenerator(gen func(Type) kernel.AnnotationID) Option {
	return func(e *Editor) { e.newID = gen }
}

// WithSaveTimeout sets how long a save may hold the editor busy. Zero never releases it.
func WithSaveTimeout(d time.Duration) Option {
	return func(e *Editor) { e.saveTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

func WithHighlightThreshold(t float64) Option {
	return func(e *Editor) { e.threshold = t }
}

// Editor is the annotation editing state machine for one open document.
// It is not safe for concurrent use; callers serialise access per session.
type Editor struct {
	pageCount int
	tool      Tool
	page      int
	viewport  Viewport
	selected  kernel.AnnotationID

	annotations []Annotation
	history     *History

	textStyle      TextStyle
	highlightColor Color
	drag           *Point
	saving         bool
	savingSince    time.Time

	zoom        ZoomConfig
	threshold   float64
	saveTimeout time.Duration
	newID       func(Type) kernel.AnnotationID
	now         func() time.Time
}

// NewEditor opens an empty editor on a document with pageCount pages
func NewEditor(pageCount int, opts ...Option) (*Editor, error) {
	if pageCount < 1 {
		return nil, ErrInvalidDocument().WithDetail("page_count", pageCount)
	}

	e := &Editor{
		pageCount:      pageCount,
		tool:           ToolSelect,
		annotations:    []Annotation{},
		history:        NewHistory(),
		textStyle:      DefaultTextStyle(),
		highlightColor: DefaultHighlightColor,
		zoom:           DefaultZoom(),
		threshold:      DefaultHighlightThreshold,
		saveTimeout:    DefaultSaveTimeout,
		newID:          NewAnnotationID,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.viewport = Viewport{Scale: e.zoom.Initial}
	return e, nil
}

// ============================================================================
// Accessors
// ============================================================================

func (e *Editor) Tool() Tool                { return e.tool }
func (e *Editor) Page() int                 { return e.page }
func (e *Editor) PageCount() int            { return e.pageCount }
func (e *Editor) Scale() float64            { return e.viewport.Scale }
func (e *Editor) Viewport() Viewport        { return e.viewport }
func (e *Editor) TextStyle() TextStyle      { return e.textStyle }
func (e *Editor) HighlightColor() Color     { return e.highlightColor }
func (e *Editor) Drawing() bool             { return e.drag != nil }
func (e *Editor) CanUndo() bool             { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool             { return e.history.CanRedo() }
func (e *Editor) HistoryCursor() int        { return e.history.Cursor() }
func (e *Editor) HistoryLen() int           { return e.history.Len() }
func (e *Editor) Annotations() []Annotation { return cloneList(e.annotations) }

// Saving reports whether a save holds the editor busy
func (e *Editor) Saving() bool {
	e.releaseStaleSave()
	return e.saving
}

// Selected returns the selected annotation, if any
func (e *Editor) Selected() (Annotation, bool) {
	if e.selected.IsEmpty() {
		return Annotation{}, false
	}
	i := indexOf(e.annotations, e.selected)
	if i < 0 {
		return Annotation{}, false
	}
	return e.annotations[i], true
}

// Visible returns the annotations on the current page in list order
func (e *Editor) Visible() []Annotation {
	out := make([]Annotation, 0, len(e.annotations))
	for _, a := range e.annotations {
		if a.OnPage(e.page) {
			out = append(out, a)
		}
	}
	return out
}

// Dirty reports whether the live list differs from what the editor opened with
func (e *Editor) Dirty() bool {
	return len(e.annotations) > 0 || e.history.Len() > 1
}

// ============================================================================
// Session State (no history)
// ============================================================================

// SelectTool switches the tool and cancels any drag in progress
func (e *Editor) SelectTool(t Tool) error {
	if !t.IsValid() {
		return ErrInvalidTool().WithDetail("tool", t)
	}
	e.tool = t
	e.drag = nil
	return nil
}

// SetPage moves to a page. A selection on another page is cleared.
func (e *Editor) SetPage(page int) error {
	if page < 0 || page >= e.pageCount {
		return ErrInvalidPage().WithDetails(map[string]any{"page": page, "page_count": e.pageCount})
	}
	e.page = page
	e.drag = nil
	if sel, ok := e.Selected(); ok && !sel.OnPage(page) {
		e.selected = ""
	}
	return nil
}

func (e *Editor) ZoomIn() float64 {
	e.viewport.Scale = e.zoom.In(e.viewport.Scale)
	return e.viewport.Scale
}

func (e *Editor) ZoomOut() float64 {
	e.viewport.Scale = e.zoom.Out(e.viewport.Scale)
	return e.viewport.Scale
}

// SetScale sets the zoom, clamped to the configured bounds
func (e *Editor) SetScale(s float64) float64 {
	e.viewport.Scale = e.zoom.Clamp(s)
	return e.viewport.Scale
}

// SetCanvasOrigin records where the page canvas starts in the caller's screen space
func (e *Editor) SetCanvasOrigin(p Point) {
	e.viewport.Origin = p
}

func (e *Editor) SetTextStyle(s TextStyle) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.textStyle = s
	return nil
}

func (e *Editor) SetHighlightColor(c Color) error {
	if !c.IsValid() {
		return ErrInvalidColor().WithDetail("color", c)
	}
	e.highlightColor = c
	return nil
}

// Select selects an annotation on the current page
func (e *Editor) Select(id kernel.AnnotationID) error {
	i := indexOf(e.annotations, id)
	if i < 0 || !e.annotations[i].OnPage(e.page) {
		return ErrAnnotationNotFound().WithDetail("annotation_id", id)
	}
	e.selected = id
	return nil
}

func (e *Editor) ClearSelection() {
	e.selected = ""
}

// HitTest returns the topmost annotation on the current page under a screen point
func (e *Editor) HitTest(screen Point) (Annotation, bool) {
	doc := e.viewport.ToDocument(screen)
	for i := len(e.annotations) - 1; i >= 0; i-- {
		a := e.annotations[i]
		if a.OnPage(e.page) && a.Contains(doc) {
			return a, true
		}
	}
	return Annotation{}, false
}

// ============================================================================
// Pointer Input
// ============================================================================

// Click handles a click at a screen point according to the active tool
func (e *Editor) Click(screen Point) (ClickResult, error) {
	switch e.tool {
	case ToolText:
		doc := e.viewport.ToDocument(screen)
		id, err := e.CreateText(TextInput{Page: e.page, X: doc.X, Y: doc.Y})
		if err != nil {
			return ClickResult{}, err
		}
		e.tool = ToolSelect
		return ClickResult{Action: ClickCreated, AnnotationID: id}, nil

	case ToolSelect:
		if a, ok := e.HitTest(screen); ok {
			e.selected = a.ID
			return ClickResult{Action: ClickSelected, AnnotationID: a.ID}, nil
		}
		e.selected = ""
		return ClickResult{Action: ClickCleared}, nil

	default:
		// highlight placement happens on release
		return ClickResult{Action: ClickIgnored}, nil
	}
}

// PointerDown starts a highlight drag. It reports whether a drag started.
func (e *Editor) PointerDown(screen Point) bool {
	if e.tool != ToolHighlight {
		return false
	}
	start := e.viewport.ToDocument(screen)
	e.drag = &start
	return true
}

// PointerUp finishes a highlight drag. It returns the new id, or "" when nothing was created.
func (e *Editor) PointerUp(screen Point) (kernel.AnnotationID, error) {
	if e.drag == nil || e.tool != ToolHighlight {
		e.drag = nil
		return "", nil
	}
	if err := e.guard(); err != nil {
		return "", err
	}

	r := RectFromDrag(*e.drag, e.viewport.ToDocument(screen))
	e.drag = nil
	return e.CreateHighlight(HighlightInput{
		Page:   e.page,
		X:      r.X,
		Y:      r.Y,
		Width:  r.Width,
		Height: r.Height,
	})
}

// ============================================================================
// Annotation Mutations
// ============================================================================

func (e *Editor) guard() error {
	e.releaseStaleSave()
	if e.saving {
		return ErrEditorBusy()
	}
	return nil
}

func (e *Editor) checkPage(page int) error {
	if page < 0 || page >= e.pageCount {
		return ErrInvalidPage().WithDetails(map[string]any{"page": page, "page_count": e.pageCount})
	}
	return nil
}

func (e *Editor) nextID(t Type) kernel.AnnotationID {
	for i := 0; i < maxIDAttempts; i++ {
		id := e.newID(t)
		if !id.IsEmpty() && indexOf(e.annotations, id) < 0 && !e.history.contains(id) {
			return id
		}
	}
	return NewAnnotationID(t)
}

// commit records the live list as a new history entry
func (e *Editor) commit() {
	e.history.Push(e.annotations)
}

// CreateText appends a text annotation, records it and selects it
func (e *Editor) CreateText(in TextInput) (kernel.AnnotationID, error) {
	if err := e.guard(); err != nil {
		return "", err
	}
	if err := e.checkPage(in.Page); err != nil {
		return "", err
	}

	text := in.Text
	if text == "" {
		text = e.textStyle.Text
	}
	if text == "" {
		text = DefaultText
	}
	fontSize := in.FontSize
	if fontSize == 0 {
		fontSize = e.textStyle.FontSize
	}
	color := in.Color
	if color == "" {
		color = e.textStyle.Color
	}

	a := Annotation{
		ID:       e.nextID(TypeText),
		Type:     TypeText,
		Page:     in.Page,
		X:        in.X,
		Y:        in.Y,
		Color:    color,
		Text:     text,
		FontSize: fontSize,
	}
	if err := a.Validate(e.pageCount); err != nil {
		return "", err
	}

	e.annotations = append(e.annotations, a)
	e.commit()
	e.selected = a.ID
	return a.ID, nil
}

// CreateHighlight appends a highlight and records it. A rectangle not larger than the
// threshold on both axes creates nothing and returns "".
func (e *Editor) CreateHighlight(in HighlightInput) (kernel.AnnotationID, error) {
	if err := e.guard(); err != nil {
		return "", err
	}
	if err := e.checkPage(in.Page); err != nil {
		return "", err
	}
	if in.Width <= e.threshold || in.Height <= e.threshold {
		return "", nil
	}

	color := in.Color
	if color == "" {
		color = e.highlightColor
	}

	a := Annotation{
		ID:     e.nextID(TypeHighlight),
		Type:   TypeHighlight,
		Page:   in.Page,
		X:      in.X,
		Y:      in.Y,
		Color:  color,
		Width:  in.Width,
		Height: in.Height,
	}
	if err := a.Validate(e.pageCount); err != nil {
		return "", err
	}

	e.annotations = append(e.annotations, a)
	e.commit()
	return a.ID, nil
}

// UpdateText replaces the text of a text annotation without recording history.
// Unknown ids and highlights are ignored.
func (e *Editor) UpdateText(id kernel.AnnotationID, text string) (bool, error) {
	if err := e.guard(); err != nil {
		return false, err
	}
	i := indexOf(e.annotations, id)
	if i < 0 || !e.annotations[i].IsText() {
		return false, nil
	}
	if e.annotations[i].Text == text {
		return false, nil
	}

	updated := cloneList(e.annotations)
	updated[i].Text = text
	e.annotations = updated
	return true, nil
}

// CommitText records pending text edits as one history entry. It reports whether an entry was added.
func (e *Editor) CommitText() (bool, error) {
	if err := e.guard(); err != nil {
		return false, err
	}
	if e.history.matches(e.annotations) {
		return false, nil
	}
	e.commit()
	return true, nil
}

// Delete removes an annotation and records the result. Unknown ids are ignored.
func (e *Editor) Delete(id kernel.AnnotationID) (bool, error) {
	if err := e.guard(); err != nil {
		return false, err
	}
	i := indexOf(e.annotations, id)
	if i < 0 {
		return false, nil
	}

	remaining := make([]Annotation, 0, len(e.annotations)-1)
	remaining = append(remaining, e.annotations[:i]...)
	remaining = append(remaining, e.annotations[i+1:]...)
	e.annotations = remaining
	e.commit()

	if e.selected == id {
		e.selected = ""
	}
	return true, nil
}

func (e *Editor) DeleteSelected() (bool, error) {
	if e.selected.IsEmpty() {
		if err := e.guard(); err != nil {
			return false, err
		}
		return false, nil
	}
	return e.Delete(e.selected)
}

// Undo restores the previous snapshot
func (e *Editor) Undo() (bool, error) {
	if err := e.guard(); err != nil {
		return false, err
	}
	list, ok := e.history.Undo()
	if !ok {
		return false, nil
	}
	e.replace(list)
	return true, nil
}

// Redo restores the next snapshot
func (e *Editor) Redo() (bool, error) {
	if err := e.guard(); err != nil {
		return false, err
	}
	list, ok := e.history.Redo()
	if !ok {
		return false, nil
	}
	e.replace(list)
	return true, nil
}

func (e *Editor) replace(list []Annotation) {
	e.annotations = list
	if !e.selected.IsEmpty() && indexOf(list, e.selected) < 0 {
		e.selected = ""
	}
}

// ============================================================================
// Save Handshake
// ============================================================================

// BeginSave marks the editor busy and returns the list to hand to the sink
func (e *Editor) BeginSave() ([]Annotation, error) {
	e.releaseStaleSave()
	if e.saving {
		return nil, ErrSaveInProgress()
	}
	e.saving = true
	e.savingSince = e.now()
	e.drag = nil
	return cloneList(e.annotations), nil
}

// FinishSave clears the busy flag. The list and history are left as they were either way.
func (e *Editor) FinishSave() {
	e.saving = false
	e.savingSince = time.Time{}
}

// releaseStaleSave drops a saving flag that outlived the save timeout
func (e *Editor) releaseStaleSave() {
	if !e.saving || e.saveTimeout <= 0 {
		return
	}
	if e.savingSince.IsZero() || e.now().Sub(e.savingSince) > e.saveTimeout {
		e.FinishSave()
	}
}
