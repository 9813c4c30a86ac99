package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "taskchat/agent/contract"
)

//go:embed template/system.txt
var systemRaw string

// System returns the fixed system instruction block.
// Safe to call concurrently; the embed is compile-time.
func System() string {
	return strings.TrimSpace(systemRaw)
}

// TaskSnapshot renders the owner's current tasks as a system block with a
// two-state marker per task. Returns "" when there are no tasks, in which
// case no block is sent.
func TaskSnapshot(tasks []contractx.Task) string {
	if len(tasks) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Current tasks:\n")
	for i, task := range tasks {
		marker := "○"
		if task.Completed {
			marker = "✓"
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, marker, task.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}
