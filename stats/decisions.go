package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/aybabtme/uniplot/histogram"
)

const histogramBins = 10

// Decisions aggregates the per-turn numbers of the search: how deep it got,
// how many nodes it visited, how long it took and how often it ran out of
// time.
type Decisions struct {
	Depth    Running
	Nodes    Running
	Millis   Running
	Timeouts int

	depths []float64
}

func (d *Decisions) Add(depth, nodes int, elapsed time.Duration, timedOut bool) {
	d.Depth.Add(float64(depth))
	d.Nodes.Add(float64(nodes))
	d.Millis.Add(float64(elapsed) / float64(time.Millisecond))
	d.depths = append(d.depths, float64(depth))
	if timedOut {
		d.Timeouts++
	}
}

// Merge folds o into d, as if every decision of o had been added to d.
func (d *Decisions) Merge(o *Decisions) {
	for _, v := range o.depths {
		d.Depth.Add(v)
		d.depths = append(d.depths, v)
	}
	d.Nodes = mergeRunning(d.Nodes, o.Nodes)
	d.Millis = mergeRunning(d.Millis, o.Millis)
	d.Timeouts += o.Timeouts
}

// mergeRunning combines two running statistics (Chan et al.).
func mergeRunning(a, b Running) Running {
	if a.n == 0 {
		return b
	}
	if b.n == 0 {
		return a
	}
	n := a.n + b.n
	delta := b.mean - a.mean
	return Running{
		n:    n,
		mean: a.mean + delta*float64(b.n)/float64(n),
		m2:   a.m2 + b.m2 + delta*delta*float64(a.n)*float64(b.n)/float64(n),
		min:  min(a.min, b.min),
		max:  max(a.max, b.max),
	}
}

func (d *Decisions) Turns() int {
	return d.Depth.Count()
}

// DepthHistogram buckets the completed search depths.
func (d *Decisions) DepthHistogram() histogram.Histogram {
	return histogram.Hist(histogramBins, d.depths)
}

// WriteReport prints a human-readable summary.
func (d *Decisions) WriteReport(w io.Writer) error {
	if d.Turns() == 0 {
		_, err := fmt.Fprintln(w, "no decisions recorded")
		return err
	}
	lo, hi := d.Depth.ConfidenceInterval(95)
	_, err := fmt.Fprintf(w,
		"turns: %d  timeouts: %d (%.1f%%)\n"+
			"depth: mean %.2f (95%% CI %.2f-%.2f) min %.0f max %.0f\n"+
			"nodes: mean %.0f stdev %.0f\n"+
			"time:  mean %.2fms max %.2fms\n\n",
		d.Turns(), d.Timeouts, 100*float64(d.Timeouts)/float64(d.Turns()),
		d.Depth.Mean(), lo, hi, d.Depth.Min(), d.Depth.Max(),
		d.Nodes.Mean(), d.Nodes.Stdev(),
		d.Millis.Mean(), d.Millis.Max())
	if err != nil {
		return err
	}
	return histogram.Fprint(w, d.DepthHistogram(), histogram.Linear(40))
}
