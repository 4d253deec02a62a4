package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/usereactive/reactive"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	keyCounts  = []int{1, 10, 100}
	subCounts  = []int{1, 10, 100}
	nestDepths = []int{1, 8, 64}
	iters      = 1000
)

func main() {
	profilePath := flag.String("profile", "default.pgo", "cpu profile output")
	flag.Parse()

	f, err := os.Create(*profilePath)
	if err != nil {
		log.Fatal(err)
	}
	pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	log.Printf("warming up")
	benchmarkWrites(false)

	benchmarkWrites(true)
	benchmarkDeepSubscription(true)
	benchmarkHistory(true)
	benchmarkCopyOnWrite(true)
}

func benchmarkWrites(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Write + Notify")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, nKeys := range keyCounts {
		for _, nSubs := range subCounts {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			host := reactive.NewManualHost()
			state := reactive.Object{}
			for i := 0; i < nKeys; i++ {
				state[fmt.Sprintf("k%d", i)] = 0
			}
			p, subscribe, _ := reactive.UseReactive(host, state, nil)

			fired := 0
			for i := 0; i < nSubs; i++ {
				key := fmt.Sprintf("k%d", i%nKeys)
				subscribe(func() { p.Get(key) }, func(_ *reactive.Proxy, _ string, _, _ any, _ bool) {
					fired++
				}, reactive.RecurseNone, false)
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				p.Set("k0", i+1)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{{
				fmt.Sprintf("write: %d keys * %d subs", nKeys, nSubs),
				calc.Time.Avg, calc.Time.Min, calc.Time.P75, calc.Time.P99, calc.Time.Max,
			}})
			host.Teardown()
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkDeepSubscription(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Deep Subscription")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, depth := range nestDepths {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		host := reactive.NewManualHost()
		state := reactive.Object{"leaf": 0}
		for i := 0; i < depth; i++ {
			state = reactive.Object{"child": state}
		}
		p, subscribe, _ := reactive.UseReactive(host, state, nil)

		fired := 0
		subscribe(func() { p.Get("child") }, func(_ *reactive.Proxy, _ string, _, _ any, _ bool) {
			fired++
		}, reactive.RecurseDeep, false)

		leaf := p
		for i := 0; i < depth; i++ {
			leaf = leaf.Get("child").(*reactive.Proxy)
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			leaf.Set("leaf", i+1)
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{{
			fmt.Sprintf("deep write: depth %d", depth),
			calc.Time.Avg, calc.Time.Min, calc.Time.P75, calc.Time.P99, calc.Time.Max,
		}})
		host.Teardown()
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkHistory(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("History Log")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, depth := range []int{10, 100, 1000} {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		host := reactive.NewManualHost()
		p, _, history := reactive.UseReactive(host, reactive.Object{"n": 0}, &reactive.Options{
			History: reactive.HistorySettings{Enabled: true, MaxDepth: depth},
		})

		for i := 0; i < iters; i++ {
			start := time.Now()
			p.Set("n", i+1)
			if history.Len() == depth {
				history.UndoTo(0)
			}
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{{
			fmt.Sprintf("write+undo: depth %d", depth),
			calc.Time.Avg, calc.Time.Min, calc.Time.P75, calc.Time.P99, calc.Time.Max,
		}})
		host.Teardown()
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkCopyOnWrite(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Copy-on-Write Preemption")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, nInstances := range []int{2, 8, 32} {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		shared := reactive.Object{"n": 0, "label": "shared"}
		writerHost := reactive.NewManualHost()
		writer, _, _ := reactive.UseReactive(writerHost, shared, nil)

		hosts := make([]*reactive.ManualHost, 0, nInstances-1)
		for i := 1; i < nInstances; i++ {
			h := reactive.NewManualHost()
			reactive.UseReactive(h, shared, &reactive.Options{
				AllowBackgroundMutations: i%2 == 0,
			})
			hosts = append(hosts, h)
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			writer.Set("n", i+1)
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{{
			fmt.Sprintf("shared write: %d instances", nInstances),
			calc.Time.Avg, calc.Time.Min, calc.Time.P75, calc.Time.P99, calc.Time.Max,
		}})
		writerHost.Teardown()
		for _, h := range hosts {
			h.Teardown()
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
