// chunkheap exercises a first-fit chunk arena and prints its allocated and free chunk lists.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/vkngwrapper/chunkheap/heap"
	"golang.org/x/exp/slog"
)

var (
	CapacityFlag = &cli.IntFlag{
		Name:    "capacity",
		Aliases: []string{"c"},
		Usage:   "Size in bytes of the arena's buffer",
		Value:   heap.DefaultCapacity,
	}
	MaxChunksFlag = &cli.IntFlag{
		Name:  "max-chunks",
		Usage: "Number of entries each chunk list can hold",
		Value: heap.DefaultMaxChunks,
	}
	CountFlag = &cli.IntFlag{
		Name:  "count",
		Usage: "Number of allocations made by the demo (sized 0 through count-1)",
		Value: 10,
	}
	JSONFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print a json map of the arena instead of tables",
	}
	PanicOnMisuseFlag = &cli.BoolFlag{
		Name:  "panic-on-misuse",
		Usage: "Panic instead of returning an error when an unknown address is freed",
	}
	VerboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log every arena operation to stderr",
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "chunkheap",
		Usage: "exercise a first-fit chunk arena and dump its chunk lists",
		Flags: []cli.Flag{
			CapacityFlag,
			MaxChunksFlag,
			CountFlag,
			JSONFlag,
			PanicOnMisuseFlag,
			VerboseFlag,
		},
		Action: run,
	}
}

func run(ctx *cli.Context) error {
	level := slog.LevelInfo
	if ctx.Bool(VerboseFlag.Name) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.HandlerOptions{Level: level}.NewTextHandler(ctx.App.ErrWriter))

	flags := heap.ArenaCreateExternallySynchronized
	if ctx.Bool(PanicOnMisuseFlag.Name) {
		flags |= heap.ArenaCreatePanicOnMisuse
	}

	arena, err := heap.New(logger, heap.CreateOptions{
		Capacity:  ctx.Int(CapacityFlag.Name),
		MaxChunks: ctx.Int(MaxChunksFlag.Name),
		Flags:     flags,
	})
	if err != nil {
		return err
	}

	err = runDemo(arena, ctx.Int(CountFlag.Name))
	if err != nil {
		return err
	}

	if ctx.Bool(JSONFlag.Name) {
		return renderJSON(ctx.App.Writer, arena)
	}

	renderTables(ctx.App.Writer, arena)
	return nil
}

// runDemo allocates count chunks sized 0 through count-1, frees every other one, and then
// makes one more allocation of size count so that the lazy coalescing step runs
func runDemo(arena *heap.Arena, count int) error {
	addresses := make([]heap.Address, count)
	for i := range addresses {
		address, _, err := arena.Alloc(i)
		if err != nil {
			return err
		}
		addresses[i] = address
	}

	for i, address := range addresses {
		if i%2 != 0 {
			continue
		}

		err := arena.Free(address)
		if err != nil {
			return err
		}
	}

	_, _, err := arena.Alloc(count)
	return err
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
