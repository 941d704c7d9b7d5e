package main

import (
	"fmt"
	"strings"

	"daybook/internal/ids"
	"daybook/internal/ui"
	"daybook/task"
)

func printTaskTable(session *session, tasks []task.Task) {
	builder := ui.NewTableBuilder([]string{"", "ID", "TITLE", "PRIORITY", "CATEGORY", "DUE", "LABELS"}, len(tasks))
	prefixLengths := taskIDPrefixLengths(tasks)
	for _, t := range tasks {
		title := ui.TruncateTableCell(ui.StyleTitle(t))
		if t.Important {
			title = "! " + title
		}
		labels := strings.Join(labelNames(session, t.LabelIDs), ",")
		builder.AddRow([]string{
			ui.Glyph(t.Completed),
			ui.HighlightID(t.ID, prefixLengths[strings.ToLower(t.ID)]),
			title,
			ui.StylePriority(t.Priority),
			categoryName(session, t.Category),
			ui.FormatDate(t.DueDate),
			labels,
		})
	}
	fmt.Print(builder.String())
}

func taskIDPrefixLengths(tasks []task.Task) map[string]int {
	taskIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	return ids.UniquePrefixLengths(taskIDs)
}
