package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/olekukonko/tablewriter"
	"github.com/vkngwrapper/chunkheap/heap"
	"github.com/vkngwrapper/chunkheap/memutils"
	"github.com/vkngwrapper/chunkheap/memutils/chunk"
)

func renderTables(w io.Writer, inspector heap.Inspector) {
	renderChunks(w, "Allocated", inspector.AllocatedChunks())
	renderChunks(w, "Free", inspector.FreeChunks())

	var stats memutils.DetailedStatistics
	stats.Clear()
	inspector.AddDetailedStatistics(&stats)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Arena Bytes", "Allocations", "Allocated Bytes", "Free Ranges", "Free Bytes", "Fragmentation"})
	table.Append([]string{
		strconv.Itoa(stats.ArenaBytes),
		strconv.Itoa(stats.AllocationCount),
		strconv.Itoa(stats.AllocationBytes),
		strconv.Itoa(stats.FreeRangeCount),
		strconv.Itoa(stats.FreeBytes()),
		strconv.FormatFloat(stats.Fragmentation(), 'f', 2, 64),
	})
	table.Render()
}

func renderChunks(w io.Writer, name string, chunks []chunk.Chunk) {
	fmt.Fprintf(w, "%s chunks (%d):\n", name, len(chunks))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Start", "Size"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, c := range chunks {
		table.Append([]string{strconv.Itoa(c.Start), strconv.Itoa(c.Size)})
	}
	table.Render()
}

func renderJSON(w io.Writer, inspector heap.Inspector) error {
	writer := jwriter.NewWriter()
	inspector.PrintDetailedMap(&writer)

	err := writer.Error()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(writer.Bytes()))
	return err
}
