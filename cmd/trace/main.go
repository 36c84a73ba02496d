package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/renderparty/lanes"
	"github.com/delaneyj/renderparty/memtree"
	"github.com/delaneyj/renderparty/reconcile"
	"github.com/delaneyj/renderparty/render"
)

func main() {
	cmd := &cli.Command{
		Name:   "trace",
		Usage:  "runs a keyed-list update end to end and prints the event log",
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	rt := render.NewRuntime(memtree.NewBackend())
	rec := &render.RecordingObserver{}
	rt.Observe(rec)

	doc := memtree.NewDocument()
	scope := render.NewScope(nil)

	keys := []string{"foo", "bar", "baz"}
	component := render.NewComponent("rows",
		func(s *render.UpdateSession, sc *render.Scope) (any, error) {
			return render.ListOf(keys,
				func(k string) string { return k },
				func(k string) any { return k },
			), nil
		},
		render.Part{Kind: render.ChildPart, Parent: doc},
		scope,
		lanes.DefaultLanes,
	)

	task := rt.ScheduleUpdate(component, lanes.Options{})
	if err := task.Err(); err != nil {
		return err
	}
	log.Printf("seeded: %s", doc.Render())

	before := keys
	keys = []string{"qux", "baz", "bar", "foo"}
	task = rt.ScheduleUpdate(component, lanes.Options{Priority: lanes.UserBlocking})
	if err := task.Err(); err != nil {
		return err
	}
	log.Printf("updated: %s", doc.Render())

	printEvents(rec)
	printOps(before, keys)
	return nil
}

func printEvents(rec *render.RecordingObserver) {
	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{"#", "event", "session", "lanes", "phase", "effects", "component", "template"})
	for i, ev := range rec.Events {
		phase := ""
		if ev.Kind == render.CommitStart || ev.Kind == render.CommitEnd {
			phase = ev.Phase.String()
		}
		template := ""
		if ev.TemplateID != 0 {
			template = fmt.Sprintf("%x", ev.TemplateID)
		}
		tbl.Append([]string{
			strconv.Itoa(i),
			ev.Kind.String(),
			strconv.FormatUint(ev.SessionID, 10),
			ev.Lanes.String(),
			phase,
			strconv.Itoa(ev.Effects),
			ev.Component,
			template,
		})
	}
	tbl.Render()
}

// traceEditor keeps the key as the target so the op table can show what the
// reconciler decided without touching a real tree.
type traceEditor struct{}

func (traceEditor) Insert(item reconcile.Keyed[string, string], before *string) string {
	return item.Key
}
func (traceEditor) Move(target string, item reconcile.Keyed[string, string], before *string) string {
	return item.Key
}
func (traceEditor) Update(target string, item reconcile.Keyed[string, string]) string {
	return item.Key
}
func (traceEditor) Remove(target string) {}

func printOps(before, after []string) {
	olds := make([]reconcile.Keyed[string, string], len(before))
	for i, k := range before {
		olds[i] = reconcile.KeyedOf(k, k)
	}
	news := make([]reconcile.Keyed[string, string], len(after))
	for i, k := range after {
		news[i] = reconcile.KeyedOf(k, k)
	}

	rec := reconcile.NewRecorder[string, string, string](traceEditor{})
	reconcile.Diff(olds, news, rec)

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{"#", "op", "key"})
	for i, op := range rec.Ops {
		tbl.Append([]string{strconv.Itoa(i), op.Kind.String(), op.Key})
	}
	tbl.Render()
}
