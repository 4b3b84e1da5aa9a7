package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/cinematch/cinematch-server/internal/dto"
)

var (
	headingColor = color.New(color.Bold, color.FgGreen)
	titleColor   = color.New(color.Bold)
	labelColor   = color.New(color.FgCyan)
	statusColor  = color.New(color.Faint)
)

func printStatus(w io.Writer, msg string) {
	fmt.Fprintln(w, statusColor.Sprint(msg))
}

// render writes the primary list followed by the genre group, numbered
// continuously.
func render(w io.Writer, rec dto.Recommendations) {
	fmt.Fprintf(w, "\n%s\n\n", headingColor.Sprintf("Recommended Movies for %q", rec.Query))

	n := 1
	for _, m := range rec.Primary {
		renderMovie(w, n, m)
		n++
	}

	if len(rec.GenreBased) == 0 {
		return
	}
	if rec.SharedGenre != nil {
		fmt.Fprintf(w, "%s\n\n", headingColor.Sprintf("Because you searched for %s", rec.SharedGenre.Name))
	}
	for _, m := range rec.GenreBased {
		renderMovie(w, n, m)
		n++
	}
}

func renderMovie(w io.Writer, n int, m dto.Movie) {
	fmt.Fprintf(w, "%2d. %s\n", n, titleColor.Sprint(m.Title))
	fmt.Fprintf(w, "    %s %s\n", labelColor.Sprint("Release Date:"), m.ReleaseDate)
	fmt.Fprintf(w, "    %s %s\n", labelColor.Sprint("Genres:"), strings.Join(m.Genres, ", "))
	if m.PosterURL != "" {
		fmt.Fprintf(w, "    %s %s\n", labelColor.Sprint("Poster:"), m.PosterURL)
	}
	fmt.Fprintf(w, "    %s %s\n\n", labelColor.Sprint("Overview:"), m.Overview)
}

// renderHistory writes searches as a borderless table, newest first.
func renderHistory(w io.Writer, records []dto.SearchRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, statusColor.Sprint("No searches yet."))
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	rows := make([][]string, 0, len(records))
	for i, r := range records {
		genres := strings.Join(r.Genres, ", ")
		if genres == "" {
			genres = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Timestamp.Local().Format(time.DateTime),
			r.Query,
			genres,
		})
	}

	table.Header([]string{"#", "Searched At", "Query", "Genres"})
	_ = table.Bulk(rows)
	_ = table.Render()
}
