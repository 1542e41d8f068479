package timeline

// Display color fallbacks used when a block's configured color field is
// empty. Status wins over priority.
var statusColors = map[string]string{
	"Completed": "#10B981",
	"Working":   "#3B82F6",
	"Overdue":   "#EF4444",
	"Open":      "#6B7280",
}

var priorityColors = map[string]string{
	"High":   "#DC2626",
	"Urgent": "#DC2626",
	"Medium": "#F59E0B",
	"Low":    "#10B981",
}

const defaultBlockColor = "#6B7280"

// fallbackColor derives a display color from a block's status and priority.
func fallbackColor(status, priority string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	if c, ok := priorityColors[priority]; ok {
		return c
	}
	return defaultBlockColor
}
