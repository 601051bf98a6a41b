package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

// VolumeRow is one volume in a listing, either catalogued or attached.
type VolumeRow struct {
	Index       int
	Caption     string
	Name        string
	Serial      string
	FileSystem  string
	DriveType   string
	Size        uint64
	Free        uint64
	Description string
	IndexedAt   time.Time
}

// VolumeTable renders rows as a bordered table. Index timestamps are shown
// relative to now; rows that were never indexed show "-".
func VolumeTable(rows []VolumeRow, noColor bool, now time.Time) string {
	styles := GetStyles(noColor)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Border).
		Headers("#", "Name", "Serial", "FS", "Type", "Size", "Free", "Indexed").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Header.Padding(0, 1)
			}
			return styles.Cell
		})

	for _, r := range rows {
		indexed := "-"
		if !r.IndexedAt.IsZero() {
			indexed = humanize.RelTime(r.IndexedAt, now, "ago", "from now")
		}
		t.Row(
			strconv.Itoa(r.Index),
			r.Name,
			r.Serial,
			r.FileSystem,
			r.DriveType,
			humanize.Bytes(r.Size),
			humanize.Bytes(r.Free),
			indexed,
		)
	}
	return t.String() + "\n"
}

// VolumeDetail renders one volume as an indented key/value block.
func VolumeDetail(r VolumeRow, noColor bool) string {
	styles := GetStyles(noColor)
	var sb strings.Builder

	header := fmt.Sprintf("[#%d] Volume", r.Index)
	if r.Caption != "" {
		header += " " + r.Caption
	}
	sb.WriteString(styles.Header.Render(header))
	sb.WriteString("\n")

	field := func(label, value string) {
		fmt.Fprintf(&sb, "    %s %s\n", styles.Label.Render(label+":"), value)
	}
	field("Name", r.Name)
	field("Size", humanize.Bytes(r.Size))
	field("Free size", humanize.Bytes(r.Free))
	field("File system", r.FileSystem)
	field("Type", r.DriveType)
	field("Volume serial", r.Serial)
	if !r.IndexedAt.IsZero() {
		field("Indexed", r.IndexedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if r.Description != "" {
		field("Description", r.Description)
	}
	return sb.String()
}
