package annotation_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/errx"
	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annotationID(s string) kernel.AnnotationID {
	return kernel.AnnotationID(s)
}

// sequentialIDs yields text-1, highlight-2, ...
func sequentialIDs() annotation.Option {
	n := 0
	return annotation.WithIDGenerator(func(t annotation.Type) kernel.AnnotationID {
		n++
		return kernel.AnnotationID(fmt.Sprintf("%s-%d", t, n))
	})
}

func newEditor(t *testing.T, pages int, opts ...annotation.Option) *annotation.Editor {
	t.Helper()
	e, err := annotation.NewEditor(pages, append([]annotation.Option{sequentialIDs()}, opts...)...)
	require.NoError(t, err)
	return e
}

func drag(t *testing.T, e *annotation.Editor, from, to annotation.Point) kernel.AnnotationID {
	t.Helper()
	require.True(t, e.PointerDown(from))
	id, err := e.PointerUp(to)
	require.NoError(t, err)
	return id
}

func TestNewEditor_InitialState(t *testing.T) {
	e := newEditor(t, 2)

	assert.Equal(t, annotation.ToolSelect, e.Tool())
	assert.Equal(t, 0, e.Page())
	assert.Equal(t, 1.0, e.Scale())
	assert.Empty(t, e.Annotations())
	assert.Equal(t, 1, e.HistoryLen())
	assert.False(t, e.CanUndo())

	_, err := annotation.NewEditor(0)
	assert.True(t, errx.IsCode(err, annotation.CodeInvalidDocument))
}

func TestEditor_UndoToBoundaryRestoresEmpty_RedoRestoresLatest(t *testing.T) {
	e := newEditor(t, 1)
	require.NoError(t, e.SelectTool(annotation.ToolHighlight))
	drag(t, e, annotation.Point{X: 0, Y: 0}, annotation.Point{X: 50, Y: 50})
	drag(t, e, annotation.Point{X: 100, Y: 100}, annotation.Point{X: 150, Y: 150})
	_, err := e.CreateText(annotation.TextInput{Page: 0, X: 5, Y: 5, Text: "note"})
	require.NoError(t, err)
	latest := e.Annotations()
	require.Len(t, latest, 3)

	for i := 0; i < 5; i++ {
		_, err := e.Undo()
		require.NoError(t, err)
	}
	assert.Empty(t, e.Annotations())
	assert.False(t, e.CanUndo())

	for i := 0; i < 5; i++ {
		_, err := e.Redo()
		require.NoError(t, err)
	}
	assert.Equal(t, latest, e.Annotations())
	assert.False(t, e.CanRedo())
}

func TestEditor_CreateAfterUndoDiscardsRedo(t *testing.T) {
	e := newEditor(t, 1)
	_, err := e.CreateText(annotation.TextInput{X: 1, Y: 1, Text: "a"})
	require.NoError(t, err)
	_, err = e.CreateText(annotation.TextInput{X: 2, Y: 2, Text: "b"})
	require.NoError(t, err)

	undone, err := e.Undo()
	require.NoError(t, err)
	require.True(t, undone)
	require.True(t, e.CanRedo())

	_, err = e.CreateText(annotation.TextInput{X: 3, Y: 3, Text: "c"})
	require.NoError(t, err)

	assert.False(t, e.CanRedo())
	redone, err := e.Redo()
	require.NoError(t, err)
	assert.False(t, redone)

	texts := []string{}
	for _, a := range e.Annotations() {
		texts = append(texts, a.Text)
	}
	assert.Equal(t, []string{"a", "c"}, texts)
}

func TestEditor_DegenerateDragCreatesNothing(t *testing.T) {
	e := newEditor(t, 1)
	require.NoError(t, e.SelectTool(annotation.ToolHighlight))

	id := drag(t, e, annotation.Point{X: 10, Y: 10}, annotation.Point{X: 12, Y: 11})

	assert.Empty(t, id)
	assert.Empty(t, e.Annotations())
	assert.Equal(t, 1, e.HistoryLen())
	assert.Equal(t, annotation.ToolHighlight, e.Tool())
	assert.False(t, e.Drawing())
}

func TestEditor_DragCreatesNormalisedHighlight(t *testing.T) {
	e := newEditor(t, 1)
	require.NoError(t, e.SelectTool(annotation.ToolHighlight))

	id := drag(t, e, annotation.Point{X: 10, Y: 10}, annotation.Point{X: 110, Y: 60})

	require.NotEmpty(t, id)
	list := e.Annotations()
	require.Len(t, list, 1)
	assert.Equal(t, annotation.Annotation{
		ID:     id,
		Type:   annotation.TypeHighlight,
		Page:   0,
		X:      10,
		Y:      10,
		Width:  100,
		Height: 50,
		Color:  annotation.DefaultHighlightColor,
	}, list[0])
	assert.Equal(t, annotation.ToolHighlight, e.Tool())
	assert.Equal(t, 2, e.HistoryLen())

	// reverse drag direction normalises the same way
	id2 := drag(t, e, annotation.Point{X: 110, Y: 60}, annotation.Point{X: 10, Y: 10})
	require.NotEmpty(t, id2)
	second := e.Annotations()[1]
	assert.Equal(t, []float64{10, 10, 100, 50}, []float64{second.X, second.Y, second.Width, second.Height})
}

func TestEditor_DragUsesDocumentCoordinatesAtZoom(t *testing.T) {
	e := newEditor(t, 1)
	e.SetScale(2)
	require.NoError(t, e.SelectTool(annotation.ToolHighlight))

	drag(t, e, annotation.Point{X: 20, Y: 20}, annotation.Point{X: 220, Y: 120})

	a := e.Annotations()[0]
	assert.Equal(t, []float64{10, 10, 100, 50}, []float64{a.X, a.Y, a.Width, a.Height})
}

func TestEditor_TextPlacementReturnsToSelect(t *testing.T) {
	e := newEditor(t, 1)
	require.NoError(t, e.SelectTool(annotation.ToolText))

	res, err := e.Click(annotation.Point{X: 40, Y: 40})
	require.NoError(t, err)

	assert.Equal(t, annotation.ClickCreated, res.Action)
	assert.Equal(t, annotation.ToolSelect, e.Tool())
	sel, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, res.AnnotationID, sel.ID)
	assert.Equal(t, annotation.DefaultText, sel.Text)
	assert.Equal(t, annotation.DefaultFontSize, sel.FontSize)
	assert.Equal(t, annotation.DefaultTextColor, sel.Color)

	// A second click on empty canvas only clears the selection
	res, err = e.Click(annotation.Point{X: 400, Y: 400})
	require.NoError(t, err)
	assert.Equal(t, annotation.ClickCleared, res.Action)
	assert.Len(t, e.Annotations(), 1)
	_, ok = e.Selected()
	assert.False(t, ok)
}

func TestEditor_TextPlacementUsesToolDefaults(t *testing.T) {
	e := newEditor(t, 1)
	e.SetScale(2)
	require.NoError(t, e.SetTextStyle(annotation.TextStyle{Text: "Hello", FontSize: 20, Color: "#ff0000"}))
	require.NoError(t, e.SelectTool(annotation.ToolText))

	_, err := e.Click(annotation.Point{X: 100, Y: 50})
	require.NoError(t, err)

	a := e.Annotations()[0]
	assert.Equal(t, 50.0, a.X)
	assert.Equal(t, 25.0, a.Y)
	assert.Equal(t, "Hello", a.Text)
	assert.Equal(t, 20.0, a.FontSize)
	assert.Equal(t, annotation.Color("#ff0000"), a.Color)

	err = e.SetTextStyle(annotation.TextStyle{FontSize: 100, Color: "#000"})
	assert.True(t, errx.IsCode(err, annotation.CodeInvalidFontSize))
}

func TestEditor_ClickSelectsTopmostOnCurrentPage(t *testing.T) {
	e := newEditor(t, 2)
	bottom, err := e.CreateHighlight(annotation.HighlightInput{Page: 0, X: 0, Y: 0, Width: 100, Height: 100})
	require.NoError(t, err)
	top, err := e.CreateHighlight(annotation.HighlightInput{Page: 0, X: 50, Y: 50, Width: 100, Height: 100})
	require.NoError(t, err)
	_, err = e.CreateHighlight(annotation.HighlightInput{Page: 1, X: 0, Y: 0, Width: 500, Height: 500})
	require.NoError(t, err)

	res, err := e.Click(annotation.Point{X: 75, Y: 75})
	require.NoError(t, err)
	assert.Equal(t, annotation.ClickSelected, res.Action)
	assert.Equal(t, top, res.AnnotationID)

	res, err = e.Click(annotation.Point{X: 10, Y: 10})
	require.NoError(t, err)
	assert.Equal(t, bottom, res.AnnotationID)
}

func TestEditor_PageFiltering(t *testing.T) {
	e := newEditor(t, 3)
	onFirst, err := e.CreateHighlight(annotation.HighlightInput{Page: 0, X: 0, Y: 0, Width: 100, Height: 100})
	require.NoError(t, err)
	onSecond, err := e.CreateText(annotation.TextInput{Page: 1, X: 0, Y: 0, Text: "x"})
	require.NoError(t, err)

	require.NoError(t, e.SetPage(1))

	visible := e.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, onSecond, visible[0].ID)

	_, hit := e.HitTest(annotation.Point{X: 50, Y: 50})
	assert.False(t, hit, "page 0 highlight must not be hit on page 1")

	require.NoError(t, e.SetPage(0))
	a, hit := e.HitTest(annotation.Point{X: 50, Y: 50})
	require.True(t, hit)
	assert.Equal(t, onFirst, a.ID)

	assert.True(t, errx.IsCode(e.SetPage(3), annotation.CodeInvalidPage))
	assert.True(t, errx.IsCode(e.SetPage(-1), annotation.CodeInvalidPage))
}

func TestEditor_SetPageClearsOffPageSelection(t *testing.T) {
	e := newEditor(t, 2)
	_, err := e.CreateText(annotation.TextInput{Page: 0, Text: "x"})
	require.NoError(t, err)

	require.NoError(t, e.SetPage(1))

	_, ok := e.Selected()
	assert.False(t, ok)
}

func TestEditor_ClickInHighlightModeIsIgnored(t *testing.T) {
	e := newEditor(t, 1)
	require.NoError(t, e.SelectTool(annotation.ToolHighlight))

	res, err := e.Click(annotation.Point{X: 10, Y: 10})
	require.NoError(t, err)

	assert.Equal(t, annotation.ClickIgnored, res.Action)
	assert.Empty(t, e.Annotations())
}

func TestEditor_ToolChangeCancelsDrag(t *testing.T) {
	e := newEditor(t, 1)
	require.NoError(t, e.SelectTool(annotation.ToolHighlight))
	require.True(t, e.PointerDown(annotation.Point{X: 0, Y: 0}))

	require.NoError(t, e.SelectTool(annotation.ToolHighlight))
	id, err := e.PointerUp(annotation.Point{X: 100, Y: 100})

	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, e.Annotations())
}

func TestEditor_PointerDownOutsideHighlightMode(t *testing.T) {
	e := newEditor(t, 1)

	assert.False(t, e.PointerDown(annotation.Point{X: 1, Y: 1}))
	id, err := e.PointerUp(annotation.Point{X: 100, Y: 100})
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestEditor_UpdateTextDoesNotRecordHistory(t *testing.T) {
	e := newEditor(t, 1)
	id, err := e.CreateText(annotation.TextInput{Text: "draft"})
	require.NoError(t, err)

	changed, err := e.UpdateText(id, "final")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, e.HistoryLen())
	assert.Equal(t, "final", e.Annotations()[0].Text)

	committed, err := e.CommitText()
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, 3, e.HistoryLen())

	committed, err = e.CommitText()
	require.NoError(t, err)
	assert.False(t, committed, "nothing pending")

	_, err = e.Undo()
	require.NoError(t, err)
	assert.Equal(t, "draft", e.Annotations()[0].Text)
}

func TestEditor_UpdateTextIgnoresUnknownAndHighlights(t *testing.T) {
	e := newEditor(t, 1)
	hid, err := e.CreateHighlight(annotation.HighlightInput{Width: 10, Height: 10})
	require.NoError(t, err)

	changed, err := e.UpdateText(hid, "nope")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = e.UpdateText("missing", "nope")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestEditor_Delete(t *testing.T) {
	e := newEditor(t, 1)
	keep, err := e.CreateHighlight(annotation.HighlightInput{Width: 10, Height: 10})
	require.NoError(t, err)
	gone, err := e.CreateText(annotation.TextInput{Text: "x"})
	require.NoError(t, err)
	before := e.HistoryLen()

	deleted, err := e.DeleteSelected()
	require.NoError(t, err)
	require.True(t, deleted)

	assert.Equal(t, before+1, e.HistoryLen())
	require.Len(t, e.Annotations(), 1)
	assert.Equal(t, keep, e.Annotations()[0].ID)
	_, ok := e.Selected()
	assert.False(t, ok)

	deleted, err = e.Delete(gone)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, before+1, e.HistoryLen())

	deleted, err = e.DeleteSelected()
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestEditor_UndoClearsDanglingSelection(t *testing.T) {
	e := newEditor(t, 1)
	_, err := e.CreateText(annotation.TextInput{Text: "x"})
	require.NoError(t, err)

	_, err = e.Undo()
	require.NoError(t, err)

	_, ok := e.Selected()
	assert.False(t, ok)
	assert.Empty(t, e.State().Selected)
}

func TestEditor_IDsStayUniqueAcrossUndo(t *testing.T) {
	calls := 0
	e, err := annotation.NewEditor(1, annotation.WithIDGenerator(func(annotation.Type) kernel.AnnotationID {
		calls++
		if calls <= 3 {
			return "fixed"
		}
		return kernel.AnnotationID(fmt.Sprintf("gen-%d", calls))
	}))
	require.NoError(t, err)

	first, err := e.CreateText(annotation.TextInput{Text: "a"})
	require.NoError(t, err)
	_, err = e.Undo()
	require.NoError(t, err)

	second, err := e.CreateText(annotation.TextInput{Text: "b"})
	require.NoError(t, err)

	assert.Equal(t, kernel.AnnotationID("fixed"), first)
	assert.NotEqual(t, first, second)
}

func TestEditor_CreateValidation(t *testing.T) {
	e := newEditor(t, 2)

	_, err := e.CreateText(annotation.TextInput{Page: 2})
	assert.True(t, errx.IsCode(err, annotation.CodeInvalidPage))

	_, err = e.CreateText(annotation.TextInput{FontSize: -1})
	assert.True(t, errx.IsCode(err, annotation.CodeInvalidFontSize))

	_, err = e.CreateHighlight(annotation.HighlightInput{Width: 10, Height: 10, Color: "red"})
	assert.True(t, errx.IsCode(err, annotation.CodeInvalidColor))

	assert.Empty(t, e.Annotations())
	assert.Equal(t, 1, e.HistoryLen())
}

func TestEditor_ZoomDoesNotTouchAnnotations(t *testing.T) {
	e := newEditor(t, 1)
	_, err := e.CreateText(annotation.TextInput{X: 100, Y: 50, Text: "x"})
	require.NoError(t, err)
	before := e.Annotations()

	for i := 0; i < 20; i++ {
		e.ZoomIn()
	}
	assert.Equal(t, 2.0, e.Scale())
	for i := 0; i < 20; i++ {
		e.ZoomOut()
	}
	assert.Equal(t, 0.5, e.Scale())

	assert.Equal(t, before, e.Annotations())
}

func TestEditor_SaveBlocksMutations(t *testing.T) {
	e := newEditor(t, 1)
	id, err := e.CreateText(annotation.TextInput{Text: "x"})
	require.NoError(t, err)

	list, err := e.BeginSave()
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = e.BeginSave()
	assert.True(t, errx.IsCode(err, annotation.CodeSaveInProgress))

	_, err = e.CreateText(annotation.TextInput{Text: "y"})
	assert.ErrorIs(t, err, annotation.ErrEditorBusy())
	_, err = e.Delete(id)
	assert.ErrorIs(t, err, annotation.ErrEditorBusy())
	_, err = e.Undo()
	assert.ErrorIs(t, err, annotation.ErrEditorBusy())
	_, err = e.UpdateText(id, "z")
	assert.ErrorIs(t, err, annotation.ErrEditorBusy())

	require.NoError(t, e.SelectTool(annotation.ToolText))
	_, err = e.Click(annotation.Point{X: 1, Y: 1})
	assert.ErrorIs(t, err, annotation.ErrEditorBusy())
	assert.Equal(t, annotation.ToolText, e.Tool())

	e.FinishSave()

	assert.False(t, e.Saving())
	assert.Len(t, e.Annotations(), 1)
	assert.Equal(t, 2, e.HistoryLen())
	assert.Equal(t, 1, e.HistoryCursor())
}

func TestEditor_StaleSaveIsReleased(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := annotation.WithClock(func() time.Time { return now })
	e := newEditor(t, 1, clock, annotation.WithSaveTimeout(time.Minute))
	_, err := e.CreateText(annotation.TextInput{Text: "x"})
	require.NoError(t, err)
	_, err = e.BeginSave()
	require.NoError(t, err)

	// a stored session keeps its saving time
	raw, err := json.Marshal(e.State())
	require.NoError(t, err)
	var state annotation.EditorState
	require.NoError(t, json.Unmarshal(raw, &state))

	now = now.Add(30 * time.Second)
	busy, err := annotation.RestoreEditor(state, clock, annotation.WithSaveTimeout(time.Minute))
	require.NoError(t, err)
	assert.True(t, busy.Saving())
	_, err = busy.Undo()
	assert.True(t, errx.IsCode(err, annotation.CodeEditorBusy))

	now = now.Add(31 * time.Second)
	released, err := annotation.RestoreEditor(state, clock, annotation.WithSaveTimeout(time.Minute))
	require.NoError(t, err)
	assert.False(t, released.Saving())
	assert.Nil(t, released.State().SavingSince)

	changed, err := released.Undo()
	require.NoError(t, err)
	assert.True(t, changed)
	_, err = released.BeginSave()
	assert.NoError(t, err)

	// the live editor releases its own flag the same way
	assert.False(t, e.Saving())
	_, err = e.BeginSave()
	assert.NoError(t, err)
}

func TestEditor_StateRoundTrip(t *testing.T) {
	e := newEditor(t, 3)
	require.NoError(t, e.SetPage(1))
	e.SetScale(1.5)
	e.SetCanvasOrigin(annotation.Point{X: 8, Y: 16})
	_, err := e.CreateText(annotation.TextInput{Page: 1, X: 4, Y: 4, Text: "hi"})
	require.NoError(t, err)
	_, err = e.CreateHighlight(annotation.HighlightInput{Page: 1, Width: 20, Height: 20})
	require.NoError(t, err)
	_, err = e.Undo()
	require.NoError(t, err)
	require.NoError(t, e.SelectTool(annotation.ToolHighlight))
	e.PointerDown(annotation.Point{X: 20, Y: 20})

	raw, err := json.Marshal(e.State())
	require.NoError(t, err)
	var state annotation.EditorState
	require.NoError(t, json.Unmarshal(raw, &state))

	restored, err := annotation.RestoreEditor(state)
	require.NoError(t, err)

	assert.Equal(t, e.State(), restored.State())
	assert.True(t, restored.CanRedo())
	assert.True(t, restored.Drawing())
}

func TestRestoreEditor_RejectsCorruptState(t *testing.T) {
	e := newEditor(t, 1)
	state := e.State()
	state.Annotations = []annotation.Annotation{{ID: "x", Type: annotation.TypeHighlight, Page: 4, Width: 10, Height: 10, Color: "#fff"}}

	_, err := annotation.RestoreEditor(state)

	assert.True(t, errx.IsCode(err, annotation.CodeInvalidState))
}
