package output

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeatRows is the number of days stacked in one heatmap column.
const HeatRows = 7

// heatGlyphs stand in for HeatColors when color is disabled.
var heatGlyphs = [...]string{"·", "░", "▒", "▓", "█"}

// HeatLevel maps a day's activity count to an index into HeatColors.
func HeatLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count < 3:
		return 1
	case count < 6:
		return 2
	case count < 10:
		return 3
	default:
		return 4
	}
}

// HeatmapColumns returns how many columns fit in a terminal of the given width.
func HeatmapColumns(width int) int {
	return max(1, (width+1)/2)
}

// Heatmap renders counts as columns of seven consecutive days, oldest first,
// with a month label over each column that starts a new month. start is the
// day of counts[0]. When there are more days than maxColumns can hold the
// oldest days are dropped.
func Heatmap(start time.Time, counts []int, maxColumns int) string {
	if len(counts) == 0 {
		return ""
	}
	maxColumns = max(1, maxColumns)

	visible := counts
	if limit := maxColumns * HeatRows; len(visible) > limit {
		drop := len(visible) - limit
		visible = visible[drop:]
		start = start.AddDate(0, 0, drop)
	}
	columns := (len(visible) + HeatRows - 1) / HeatRows

	var sb strings.Builder
	sb.WriteString(monthLabels(start, columns))
	sb.WriteString("\n")

	for r := 0; r < HeatRows && r < len(visible); r++ {
		for c := 0; c < columns; c++ {
			i := c*HeatRows + r
			if i >= len(visible) {
				break
			}
			if c > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(heatCell(visible[i]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// HeatLegend renders the color scale from least to most activity.
func HeatLegend() string {
	cells := make([]string, len(HeatColors))
	for level := range HeatColors {
		cells[level] = heatCellLevel(level)
	}
	return StyleMuted.Render("Less") + " " + strings.Join(cells, " ") + " " + StyleMuted.Render("More")
}

func heatCell(count int) string {
	return heatCellLevel(HeatLevel(count))
}

func heatCellLevel(level int) string {
	if noColor {
		return heatGlyphs[level]
	}
	return lipgloss.NewStyle().Foreground(HeatColors[level]).Render("■")
}

// monthLabels places a month abbreviation over the first column of each
// month, skipping labels that would overlap the previous one.
func monthLabels(start time.Time, columns int) string {
	line := []byte(strings.Repeat(" ", columns*2))
	lastMonth := time.Month(0)
	nextFree := 0
	for c := 0; c < columns; c++ {
		month := start.AddDate(0, 0, c*HeatRows).Month()
		if month == lastMonth {
			continue
		}
		lastMonth = month
		pos := c * 2
		if pos < nextFree {
			continue
		}
		label := month.String()[:3]
		if pos+len(label) > len(line) {
			line = append(line, strings.Repeat(" ", pos+len(label)-len(line))...)
		}
		copy(line[pos:], label)
		nextFree = pos + len(label) + 1
	}
	return StyleMuted.Render(strings.TrimRight(string(line), " "))
}
