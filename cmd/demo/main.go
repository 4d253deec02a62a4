package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/delaneyj/usereactive/reactive"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const (
	stepsKey        = "steps"
	historyDepthKey = "history-depth"
)

func main() {
	cmd := &cli.Command{
		Name:  "demo",
		Usage: "Run a scripted todo-list session against the reactive engine",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  stepsKey,
				Usage: "Number of scripted todo items to add",
				Value: 5,
			},
			&cli.UintFlag{
				Name:  historyDepthKey,
				Usage: "Maximum history depth",
				Value: 50,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	steps := int(cmd.Uint(stepsKey))
	depth := int(cmd.Uint(historyDepthKey))

	host := reactive.NewManualHost()
	defer host.Teardown()

	state := reactive.Object{
		"title": "groceries",
		"todos": []any{},
		"count": 0,
		"remaining": reactive.Getter(func(self *reactive.Proxy) any {
			todos := self.Get("todos").(*reactive.ArrayProxy)
			open := 0
			for i := 0; i < todos.Len(); i++ {
				item := todos.At(i).(reactive.Object)
				if done, _ := item["done"].(bool); !done {
					open++
				}
			}
			return open
		}),
		"add": reactive.Method(func(self *reactive.Proxy, args ...any) any {
			todos := self.Get("todos").(*reactive.ArrayProxy)
			todos.Push(reactive.Object{"label": args[0], "done": false})
			self.Set("count", todos.Len())
			return nil
		}),
	}

	p, subscribe, history := reactive.UseReactive(host, state, &reactive.Options{
		History: reactive.HistorySettings{Enabled: true, MaxDepth: depth},
	})

	subscribe(func() { p.Get("count") }, func(_ *reactive.Proxy, key string, value, prev any, _ bool) {
		log.Printf("%s changed %v -> %v", key, prev, value)
	}, reactive.RecurseNone, false)

	for i := 0; i < steps; i++ {
		p.Call("add", fmt.Sprintf("item %d", i+1))
	}
	log.Printf("added %s todos, %v remaining, %d render requests pending",
		humanize.Comma(int64(steps)), p.Get("remaining"), host.RenderRequests())

	mark := history.Snapshot()
	p.Set("title", "groceries (done)")
	p.Set("count", 0)
	log.Printf("mutated past snapshot, restoring")
	history.Restore(mark)

	history.Undo()
	history.Redo()

	dumpHistory(history)
	return nil
}

func dumpHistory(h *reactive.History) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "key", "previous", "value", "when"})
	for i, e := range h.Entries() {
		table.Append([]string{
			fmt.Sprint(i),
			e.Key,
			fmt.Sprint(e.Previous),
			fmt.Sprint(e.Value),
			humanize.Time(e.Timestamp),
		})
	}
	table.Render()
	log.Printf("history %d entries, %d redoable", h.Len(), h.RedoLen())
}
