package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-morph/config"
	"github.com/Carmen-Shannon/oxy-morph/engine/clock"
	"github.com/Carmen-Shannon/oxy-morph/engine/metrics"
	"github.com/Carmen-Shannon/oxy-morph/engine/morph"
	"github.com/Carmen-Shannon/oxy-morph/engine/pointsfx"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive transitions headlessly and print a frame table",
	Long: `simulate runs the transition controller against a manual clock without loading any
geometry. Selections are given as index@seconds pairs, for example:

  morphview simulate --select 1@0,2@0.5 --until 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		spec, _ := cmd.Flags().GetString("select")
		events, err := parseSelections(spec)
		if err != nil {
			return err
		}
		fps, _ := cmd.Flags().GetFloat64("fps")
		until, _ := cmd.Flags().GetFloat64("until")
		every, _ := cmd.Flags().GetInt("every")
		showMetrics, _ := cmd.Flags().GetBool("metrics")

		sim := simulation{
			cfg:    cfg,
			events: events,
			fps:    fps,
			until:  until,
			every:  every,
			logger: logger,
		}
		if showMetrics {
			sim.collector = metrics.NewCollector(metrics.WithLogger(logger))
		}
		if err := sim.run(cmd.OutOrStdout()); err != nil {
			return err
		}
		if sim.collector != nil {
			return writeMetrics(cmd.OutOrStdout(), sim.collector)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().String("select", "1@0", "Comma separated index@seconds selections")
	simulateCmd.Flags().Float64("fps", 60, "Simulated frames per second")
	simulateCmd.Flags().Float64("until", 0, "Seconds to simulate; 0 runs until the last transition commits")
	simulateCmd.Flags().Int("every", 6, "Print every nth frame; frames with events are always printed")
	simulateCmd.Flags().Bool("metrics", false, "Print the Prometheus exposition after the run")
	rootCmd.AddCommand(simulateCmd)
}

// selection is a model selection scheduled at a clock time.
type selection struct {
	index int
	at    float64
}

// parseSelections parses "index@seconds" pairs, sorted by time.
//
// Parameters:
//   - spec: comma separated pairs
//
// Returns:
//   - []selection: the selections in time order
//   - error: a malformed pair
func parseSelections(spec string) ([]selection, error) {
	var out []selection
	for part := range strings.SplitSeq(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idxStr, atStr, ok := strings.Cut(part, "@")
		if !ok {
			return nil, fmt.Errorf("selection %q: want index@seconds", part)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(idxStr))
		if err != nil {
			return nil, fmt.Errorf("selection %q: %w", part, err)
		}
		at, err := strconv.ParseFloat(strings.TrimSpace(atStr), 64)
		if err != nil || at < 0 || math.IsInf(at, 0) {
			return nil, fmt.Errorf("selection %q: time must be a non-negative number", part)
		}
		out = append(out, selection{index: idx, at: at})
	}
	slices.SortStableFunc(out, func(a, b selection) int {
		switch {
		case a.at < b.at:
			return -1
		case a.at > b.at:
			return 1
		}
		return 0
	})
	return out, nil
}

// simulation drives a controller with a manual clock.
type simulation struct {
	cfg       config.Config
	events    []selection
	fps       float64
	until     float64
	every     int
	logger    *slog.Logger
	collector *metrics.Collector
}

// pairRecorder is a renderer that remembers the last published state.
type pairRecorder struct {
	progress float32
	a, b     int
}

var _ pointsfx.Renderer = &pairRecorder{}

func (r *pairRecorder) UpdateProgress(p float32) { r.progress = p }
func (r *pairRecorder) UpdateTime(float32)       {}
func (r *pairRecorder) SetModels(a, b int)       { r.a, r.b = a, b }

func (s simulation) run(w io.Writer) error {
	if s.fps <= 0 || math.IsInf(s.fps, 0) || math.IsNaN(s.fps) {
		return fmt.Errorf("fps must be positive, got %v", s.fps)
	}
	every := max(s.every, 1)

	cv, err := s.cfg.BuildCurve()
	if err != nil {
		return err
	}
	rec := &pairRecorder{a: morph.NoModel, b: morph.NoModel}
	hooks := morph.Hooks{}
	if s.collector != nil {
		hooks = s.collector.Hooks()
	}
	logger := s.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctrl, err := morph.NewController(len(s.cfg.Models),
		morph.WithDuration(s.cfg.Duration),
		morph.WithCurve(cv),
		morph.WithRenderer(rec),
		morph.WithLogger(logger),
		morph.WithHooks(hooks),
	)
	if err != nil {
		return err
	}

	until := s.until
	if until <= 0 {
		last := 0.0
		if len(s.events) > 0 {
			last = s.events[len(s.events)-1].at
		}
		// One frame of slack so the commit tick is included.
		until = last + s.cfg.Duration + 1/s.fps
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "frame\ttime\tphase\tsettled\ttarget\tmodels\tprogress\tevent\t")

	clk := clock.NewManualClock(0)
	next := 0
	for frame := 0; ; frame++ {
		// Derive time from the frame number so long runs do not accumulate rounding error.
		now := clk.Set(float64(frame) / s.fps)
		if now > until {
			break
		}

		var notes []string
		for next < len(s.events) && s.events[next].at <= now {
			ev := s.events[next]
			next++
			if err := ctrl.OnSelectionChanged(ev.index); err != nil {
				notes = append(notes, fmt.Sprintf("reject %d", ev.index))
				continue
			}
			notes = append(notes, fmt.Sprintf("select %d", ev.index))
		}

		before := ctrl.State()
		ctrl.OnFrameTick(clk.ElapsedTime())
		after := ctrl.State()
		if after.Committed && !before.Committed && after.TargetModel != morph.NoModel {
			notes = append(notes, fmt.Sprintf("commit %d", after.SettledModel))
		}

		if len(notes) == 0 && frame%every != 0 {
			continue
		}
		fmt.Fprintf(tw, "%d\t%.3f\t%s\t%d\t%d\t%d>%d\t%.4f\t%s\t\n",
			frame, now, after.Phase(), after.SettledModel, after.TargetModel,
			rec.a, rec.b, rec.progress, strings.Join(notes, " "))
	}
	return tw.Flush()
}

// writeMetrics prints the collector's exposition text.
func writeMetrics(w io.Writer, c *metrics.Collector) error {
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	_, err := fmt.Fprintf(w, "\n%s", rec.Body.String())
	return err
}
