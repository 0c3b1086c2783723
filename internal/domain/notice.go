package domain

// NoticeAutoHideMs is how long a toast stays on screen.
const NoticeAutoHideMs = 2000

// Notice is a dismissable message the dashboard shows as a toast.
type Notice struct {
	Kind       string `json:"kind"` // success, error
	Message    string `json:"message"`
	AutoHideMs int    `json:"autoHideMs"`
}

// SuccessNotice builds a success toast.
func SuccessNotice(msg string) *Notice {
	return &Notice{Kind: "success", Message: msg, AutoHideMs: NoticeAutoHideMs}
}

// ErrorNotice builds an error toast.
func ErrorNotice(msg string) *Notice {
	return &Notice{Kind: "error", Message: msg, AutoHideMs: NoticeAutoHideMs}
}
