package progress

import (
	"fmt"
	"io"
)

// SimpleHandler outputs events as simple prefixed lines
type SimpleHandler struct {
	writer  io.Writer
	skipped []string
}

func NewSimpleHandler(writer io.Writer) *SimpleHandler {
	return &SimpleHandler{writer: writer}
}

func (h *SimpleHandler) Handle(event Event) {
	switch event.Type {
	case EventLoadStart:
		h.skipped = h.skipped[:0]
		fmt.Fprintf(h.writer, "[LOAD] Starting: %s\n", event.Path)
		if event.Info != "" {
			fmt.Fprintf(h.writer, "[LOAD] Excluding: %s\n", event.Info)
		}

	case EventCategoryStart:
		fmt.Fprintf(h.writer, "[CAT]  %s: %s\n", event.Category, event.Info)

	case EventFileLoaded:
		fmt.Fprintf(h.writer, "[FILE] %s -> %s\n", event.Path, event.Info)

	case EventSkipped:
		h.skipped = append(h.skipped, event.Path)
		fmt.Fprintf(h.writer, "[SKIP] %s (%s)\n", event.Path, event.Reason)

	case EventInfo:
		fmt.Fprintf(h.writer, "[INFO] %s\n", event.Info)

	case EventLoadComplete:
		fmt.Fprintf(h.writer, "[LOAD] Completed: %d files, %d tools in %s %.3fs\n",
			event.FileCount, event.ToolCount, getTimingIcon(event.Duration), event.Duration.Seconds())
		if len(h.skipped) > 0 {
			fmt.Fprintf(h.writer, "[LOAD] Skipped %d files\n", len(h.skipped))
		}
	}
}
