package models

import "fmt"

// Warning records a row or file that was skipped or degraded during a load
type Warning struct {
	Source  string `json:"source,omitempty"`
	Line    int    `json:"line,omitempty"`
	Well    string `json:"well,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	switch {
	case w.Source != "" && w.Line > 0:
		return fmt.Sprintf("%s:%d: %s", w.Source, w.Line, w.Message)
	case w.Source != "":
		return fmt.Sprintf("%s: %s", w.Source, w.Message)
	case w.Well != "":
		return fmt.Sprintf("%s: %s", w.Well, w.Message)
	default:
		return w.Message
	}
}
