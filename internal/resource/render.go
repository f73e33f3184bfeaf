package resource

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Render writes the snapshot as a table.
func (s Snapshot) Render(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Resource", "Used", "Total"})

	tw.AppendRow(table.Row{"Go heap", humanize.IBytes(s.HeapAlloc), humanize.IBytes(s.HeapSys)})
	if s.System != nil {
		tw.AppendRow(table.Row{"CPU RAM", humanize.IBytes(s.System.Used), humanize.IBytes(s.System.Total)})
	}
	for _, d := range s.Devices {
		label := "GPU " + strconv.Itoa(d.Index)
		if d.Name != "" {
			label = fmt.Sprintf("%s (%s)", label, d.Name)
		}
		tw.AppendRow(table.Row{label, humanize.IBytes(d.Used), humanize.IBytes(d.Total)})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	tw.Render()
}
