package types

// NoticeDurationMS is how long clients should keep a notice on screen
// before dismissing it automatically.
const NoticeDurationMS = 4000

type NoticeSeverity string

const (
	NoticeSuccess NoticeSeverity = "success"
	NoticeError   NoticeSeverity = "error"
	NoticeInfo    NoticeSeverity = "info"
)

// Notice is a transient banner attached to mutation responses. Clients
// render the message for DurationMS milliseconds and then clear it.
type Notice struct {
	Message    string         `json:"message"`
	Severity   NoticeSeverity `json:"severity"`
	DurationMS int            `json:"duration_ms"`
}

func NewNotice(severity NoticeSeverity, message string) *Notice {
	return &Notice{
		Message:    message,
		Severity:   severity,
		DurationMS: NoticeDurationMS,
	}
}
