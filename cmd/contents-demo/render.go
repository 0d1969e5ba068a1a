package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderTrace(w io.Writer, events []event, styled bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Lifecycle Trace")
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"#", "elapsed", "phase", "content", "detail"})
	for _, e := range events {
		tbl.AppendRow(table.Row{e.Seq, e.At.Round(10*time.Microsecond), e.Phase, e.Content, e.Detail})
	}
	if styled {
		tbl.SetStyle(table.StyleColoredBright)
	} else {
		tbl.SetStyle(table.StyleLight)
	}
	tbl.Render()
}

type summary struct {
	Events   int
	Planned  int
	Switches int
	Failures int
	Tally    tally
}

func (s summary) write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Recorded %s lifecycle hooks for a plan of %s scenes\n", humanize.Comma(int64(s.Events)), humanize.Comma(int64(s.Planned)))
	if s.Switches > 0 {
		_, _ = fmt.Fprintf(w, "Completed %s scene switches, the tree reached its %s generation with %s live scenes\n",
			humanize.Comma(int64(s.Switches)), humanize.Ordinal(s.Tally.Generation), humanize.Comma(int64(s.Tally.Scenes)))
	} else {
		_, _ = fmt.Fprintf(w, "No switches requested, %s live scenes\n", humanize.Comma(int64(s.Tally.Scenes)))
	}
	if s.Failures > 0 {
		_, _ = fmt.Fprintf(w, "%s failures were reported\n", humanize.Comma(int64(s.Failures)))
	}
}
