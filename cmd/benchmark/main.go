package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/renderparty/lanes"
	"github.com/delaneyj/renderparty/memtree"
	"github.com/delaneyj/renderparty/reconcile"
	"github.com/delaneyj/renderparty/render"
)

const (
	itersKey = "iters"
	seedKey  = "seed"
)

var (
	componentCounts = []int{1, 10, 100, 1_000}
	listSizes       = []int{10, 100, 1_000, 10_000}
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "latency benchmarks for the update scheduler and the keyed reconciler",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "iterations per scenario",
				Value: 100,
			},
			&cli.UintFlag{
				Name:  seedKey,
				Usage: "shuffle seed for the reconciler permutations",
				Value: 1,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Uint(itersKey))
	seed := int64(cmd.Uint(seedKey))

	log.Printf("warming up")
	benchmarkScheduler(iters)
	benchmarkReconciler(iters, seed)
	return nil
}

func benchmarkScheduler(iters int) {
	tbl := table.NewWriter()
	tbl.SetTitle("Update Scheduler")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range componentCounts {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		rt := render.NewRuntime(memtree.NewBackend())
		doc := memtree.NewDocument()
		scope := render.NewScope(nil)

		values := make([]int, w)
		components := make([]*render.ComponentCoroutine, w)
		for i := 0; i < w; i++ {
			idx := i
			components[i] = render.NewComponent(
				fmt.Sprintf("row-%d", i),
				func(s *render.UpdateSession, sc *render.Scope) (any, error) {
					return render.Text(values[idx]), nil
				},
				render.Part{Kind: render.ChildPart, Parent: doc},
				scope,
				lanes.DefaultLanes,
			)
		}
		for _, c := range components {
			rt.ScheduleUpdate(c, lanes.Options{})
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			for j := range values {
				values[j]++
			}
			for _, c := range components {
				rt.ScheduleUpdate(c, lanes.Options{})
			}
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("flush: %s components", humanize.Comma(int64(w))),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	tbl.Render()
}

// nullEditor discards every mutation; the recorder wrapping it still sees
// the operation sequence.
type nullEditor struct{}

func (nullEditor) Insert(item reconcile.Keyed[int, int], before *int) int { return item.Value }
func (nullEditor) Move(target int, item reconcile.Keyed[int, int], before *int) int {
	return item.Value
}
func (nullEditor) Update(target int, item reconcile.Keyed[int, int]) int { return item.Value }
func (nullEditor) Remove(target int)                                     {}

func benchmarkReconciler(iters int, seed int64) {
	tbl := table.NewWriter()
	tbl.SetTitle("Keyed Reconciler")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "ops/iter"})

	rng := rand.New(rand.NewSource(seed))

	for _, n := range listSizes {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		olds := make([]reconcile.Keyed[int, int], n)
		for i := range olds {
			olds[i] = reconcile.KeyedOf(i, i)
		}

		totalOps := 0
		for i := 0; i < iters; i++ {
			news := make([]reconcile.Keyed[int, int], n)
			copy(news, olds)
			rng.Shuffle(n, func(a, b int) { news[a], news[b] = news[b], news[a] })

			rec := reconcile.NewRecorder[int, int, int](nullEditor{})
			start := time.Now()
			reconcile.Diff(olds, news, rec)
			tach.AddTime(time.Since(start))
			totalOps += len(rec.Ops)
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("shuffle: %s keys", humanize.Comma(int64(n))),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
				humanize.Comma(int64(totalOps / iters)),
			},
		})
	}

	tbl.Render()
}
