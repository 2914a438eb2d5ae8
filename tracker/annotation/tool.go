package annotation

// Tool is the active editing mode
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolText      Tool = "text"
	ToolHighlight Tool = "highlight"
)

func (t Tool) IsValid() bool {
	switch t {
	case ToolSelect, ToolText, ToolHighlight:
		return true
	}
	return false
}

// Cursor is the pointer style a canvas shows for the tool
func (t Tool) Cursor() string {
	switch t {
	case ToolText:
		return "text"
	case ToolHighlight:
		return "crosshair"
	default:
		return "default"
	}
}

func ParseTool(s string) (Tool, error) {
	t := Tool(s)
	if !t.IsValid() {
		return "", ErrInvalidTool().WithDetail("tool", s)
	}
	return t, nil
}
