package cksess

import (
	"fmt"
	"strings"
)

// Error describes a failed query. Stderr holds whatever the server or the
// client reported, which is usually the most useful part.
type Error struct {
	Host     string
	TcpPort  int
	HttpPort int
	Query    string
	Stderr   string
	Cause    error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "query failed on %s (tcp port %d, http port %d)", e.Host, e.TcpPort, e.HttpPort)

	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	} else if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}
