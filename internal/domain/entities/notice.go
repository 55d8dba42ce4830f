package entities

// NoticeLevel classifies a user-facing notice
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message for the operator, e.g. a toast
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	// Fields names the offending inputs for inline validation feedback.
	Fields []string `json:"fields,omitempty"`
	// Refresh asks the UI to reload the list, set when a target vanished.
	Refresh bool `json:"refresh,omitempty"`
}
