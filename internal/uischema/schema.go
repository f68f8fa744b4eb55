// Package uischema defines the typed UI contract emitted by the backend.
// The frontend renders dynamic components based on this schema -- it never
// decides what to show on its own.
package uischema

// UISchema is the top-level schema the backend emits for a regression run.
type UISchema struct {
	Version    string      `json:"ui_schema_version"`
	WorkflowID string      `json:"workflow_id"`
	Phase      string      `json:"phase"`
	Components []Component `json:"components"`
}

// ComponentType identifies what component to render.
type ComponentType string

const (
	ComponentProgress   ComponentType = "progress"
	ComponentSummary    ComponentType = "summary_card"
	ComponentDiffTable  ComponentType = "diff_table"
	ComponentErrorList  ComponentType = "error_list"
	ComponentPublishing ComponentType = "publish_status"
)

// Visibility controls component rendering.
type Visibility string

const (
	VisibilityVisible   Visibility = "visible"
	VisibilityCollapsed Visibility = "collapsed"
)

// Component is a single renderable UI element.
type Component struct {
	Type       ComponentType  `json:"type"`
	Title      string         `json:"title"`
	Priority   int            `json:"priority"`
	Visibility Visibility     `json:"visibility"`
	Data       map[string]any `json:"data,omitempty"`
}
