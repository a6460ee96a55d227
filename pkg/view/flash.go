package view

type FlashKind string

const (
	FlashInfo    FlashKind = "info"
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

type Flash struct {
	Kind    FlashKind `json:"kind"`
	Title   string    `json:"title,omitempty"`
	Message string    `json:"message"`
}

// Color maps the kind to the notification color of the layout.
func (f Flash) Color() string {
	switch f.Kind {
	case FlashSuccess:
		return "green"
	case FlashWarning:
		return "orange"
	case FlashError:
		return "red"
	default:
		return "blue"
	}
}
