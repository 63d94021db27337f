package bulk

// LLMStatus represents the generation state of a queue item
type LLMStatus int

const (
	StatusIdle LLMStatus = iota
	StatusRunning
	StatusDone
	StatusError
)

func (s LLMStatus) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusRunning:
		return "Running"
	case StatusDone:
		return "Done"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Item is one unit of bulk-import work tied to a source image. It lives
// only in memory; a card is persisted from it when the user accepts it.
type Item struct {
	Path        string
	Text        string // OCR output, user-editable
	LLMResponse string // Raw model response
	LLMQuestion string
	LLMAnswer   string
	LLMStatus   LLMStatus
	LLMError    string

	runSeq int // matches a result to the run that produced it
}
