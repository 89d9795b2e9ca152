package core

// Kind classifies a clipboard payload.
type Kind string

const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindUnknown Kind = "unknown"
)

// Hint is a finer classification of text content, shown in summaries.
type Hint string

const (
	HintText    Hint = "text"
	HintURL     Hint = "url"
	HintCommand Hint = "command"
	HintCode    Hint = "code"
)

// PressureLevel is the severity of a resource-pressure signal.
type PressureLevel int

const (
	PressureWarning PressureLevel = iota + 1
	PressureCritical
)

func (l PressureLevel) String() string {
	switch l {
	case PressureWarning:
		return "warning"
	case PressureCritical:
		return "critical"
	default:
		return "none"
	}
}

// ParsePressureLevel maps "warning"/"critical" to a level.
func ParsePressureLevel(s string) (PressureLevel, bool) {
	switch s {
	case "warning", "warn":
		return PressureWarning, true
	case "critical", "crit":
		return PressureCritical, true
	}
	return 0, false
}
