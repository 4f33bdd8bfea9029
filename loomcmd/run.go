package loomcmd

import (
	"fmt"
	"strconv"

	"go.brendoncarroll.net/exp/slices2"
	"go.brendoncarroll.net/star"
	"golang.org/x/sync/errgroup"

	"loomvm.org/loom/lvm1"
	"loomvm.org/loom/runlog"
)

var run = star.Command{
	Metadata: star.Metadata{
		Short: "instantiate the countdown module and record the run",
	},
	Flags: []star.IParam{DBParam, initParam},
	F: func(c star.Context) error {
		db := DBParam.Load(c)
		j := runlog.NewDB(db)
		ctx := c.Context

		n := initParam.Load(c)
		m := lvm1.NewModule(lvm1.Countdown(n))
		ctrs := lvm1.NewCounters()
		inst, err := m.Instantiate(ctx, ctrs.Hooks())
		rec := runlog.NewRecord(m, n, inst, ctrs, err)
		if _, err := j.Append(ctx, rec); err != nil {
			return err
		}
		if rec.Trap != "" {
			return fmt.Errorf("run trapped: %s", rec.Trap)
		}
		c.Printf("program %v\n", m.Fingerprint())
		c.Printf("iterations %d, steps %d, final %d\n", rec.Iterations, rec.Steps, rec.Final)
		return nil
	},
}

var runMany = star.Command{
	Metadata: star.Metadata{
		Short: "run isolated instances of the countdown module concurrently",
	},
	Flags: []star.IParam{DBParam, initParam, countParam},
	F: func(c star.Context) error {
		db := DBParam.Load(c)
		j := runlog.NewDB(db)
		n := initParam.Load(c)
		count := countParam.Load(c)

		recs := make([]runlog.Record, count)
		eg, ctx := errgroup.WithContext(c.Context)
		for i := 0; i < count; i++ {
			i := i
			eg.Go(func() error {
				m := lvm1.NewModule(lvm1.Countdown(n))
				ctrs := lvm1.NewCounters()
				inst, err := m.Instantiate(ctx, ctrs.Hooks())
				if err != nil {
					return err
				}
				recs[i] = runlog.NewRecord(m, n, inst, ctrs, nil)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
		// every instance must agree; they share nothing
		for i := 1; i < count; i++ {
			if recs[i].Final != recs[0].Final || recs[i].Iterations != recs[0].Iterations {
				return fmt.Errorf("instances disagree: run 0 %+v, run %d %+v", recs[0], i, recs[i])
			}
		}
		for _, rec := range recs {
			if _, err := j.Append(c.Context, rec); err != nil {
				return err
			}
		}
		c.Printf("%d runs, all agree: iterations %d, final %d\n", count, recs[0].Iterations, recs[0].Final)
		return nil
	},
}

var listRuns = star.Command{
	Metadata: star.Metadata{
		Short: "list recorded runs",
	},
	Flags: []star.IParam{DBParam},
	F: func(c star.Context) error {
		db := DBParam.Load(c)
		j := runlog.NewDB(db)
		recs, err := j.List(c.Context)
		if err != nil {
			return err
		}
		c.Printf("PROGRAM\tINITIAL\tFINAL\tITER\tSTEPS\tTRAP\n")
		for _, line := range slices2.Map(recs, formatRun) {
			c.Printf("%s\n", line)
		}
		return nil
	},
}

func formatRun(r runlog.Record) string {
	return fmt.Sprintf("%v\t%d\t%d\t%d\t%d\t%s", r.Program, r.Initial, r.Final, r.Iterations, r.Steps, r.Trap)
}

var countParam = star.Param[int]{
	Name:    "count",
	Default: star.Ptr("8"),
	Parse:   strconv.Atoi,
}
