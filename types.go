package circle

// Event names pushed over the realtime channel.
const (
	EventNewThread = "new-thread"
	EventNewReply  = "new-reply"
)

// Event is a single realtime notification as observers receive it.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}
