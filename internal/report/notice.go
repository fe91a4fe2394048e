package report

import "fmt"

// Level grades a notice shown next to the charts.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// Notice is a non-fatal message about one file or metric.
type Notice struct {
	Level   Level
	File    string
	Metric  string
	Message string
}

func (n Notice) String() string {
	switch {
	case n.File != "" && n.Metric != "":
		return fmt.Sprintf("%s: %s [%s]: %s", n.Level, n.File, n.Metric, n.Message)
	case n.File != "":
		return fmt.Sprintf("%s: %s: %s", n.Level, n.File, n.Message)
	case n.Metric != "":
		return fmt.Sprintf("%s: [%s]: %s", n.Level, n.Metric, n.Message)
	}
	return fmt.Sprintf("%s: %s", n.Level, n.Message)
}
