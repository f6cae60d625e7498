package signupform

import "time"

// NoticeVariant selects how a renderer styles a transient notice.
type NoticeVariant string

const (
	NoticeDefault     NoticeVariant = "default"
	NoticeDestructive NoticeVariant = "destructive"
)

// DefaultNoticeDuration is how long a renderer keeps a notice on screen.
const DefaultNoticeDuration = time.Second

// Notice is a transient, user-facing message emitted by the form core for
// failures that do not belong to a single field.
type Notice struct {
	Code     string        `json:"code" yaml:"code"`
	Title    string        `json:"title" yaml:"title"`
	Variant  NoticeVariant `json:"variant" yaml:"variant"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// NoticeHandler consumes notices. Handlers run synchronously on the event
// that produced the notice.
type NoticeHandler func(Notice)
