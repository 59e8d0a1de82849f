package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tetherui/tether/pkg/hooks"
	"github.com/tetherui/tether/pkg/runtime"
)

// loopHost is a single-threaded Host for the bench driver: requests
// and passive drains queue up and the frame loop consumes them.
type loopHost struct {
	requests []*hooks.Instance
	passive  []func()
}

func (h *loopHost) RequestRender(inst *hooks.Instance) {
	for _, r := range h.requests {
		if r.ID() == inst.ID() {
			return
		}
	}
	h.requests = append(h.requests, inst)
}

func (h *loopHost) SchedulePassive(drain func()) {
	h.passive = append(h.passive, drain)
}

func (h *loopHost) flushPassive() {
	for len(h.passive) > 0 {
		drains := h.passive
		h.passive = nil
		for _, d := range drains {
			d()
		}
	}
}

func benchCmd() *cobra.Command {
	var (
		frames  int
		effects int
		budget  int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Drive a synthetic component through render/commit cycles",
		Long: `Bench mounts one component with a state slot, a memo slot and a
configurable number of passive effect slots, then advances the state
once per frame and runs full render/commit/paint cycles, printing
runtime counters at the end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			host := &loopHost{}
			opts := []runtime.Option{runtime.WithHost(host)}
			if budget > 0 {
				opts = append(opts, runtime.WithPassiveBudget(budget))
			}
			rt := runtime.New(opts...)

			var tick *hooks.State[int]
			comp := runtime.RenderFunc(func(s *hooks.Session) runtime.RenderResult {
				n, setN := hooks.UseState(s, 0)
				tick = setN
				double := hooks.UseMemo(s, func() int { return n * 2 }, hooks.DepsOf(n))
				for e := 0; e < effects; e++ {
					hooks.UseEffect(s, func() hooks.Cleanup {
						return func() {}
					}, hooks.DepsOf(n))
				}
				return double
			})

			inst := rt.Mount(comp)
			start := time.Now()

			for f := 0; f < frames; f++ {
				if _, err := rt.Render(inst); err != nil {
					return err
				}
				rt.Commit()
				rt.Paint()
				host.flushPassive()
				tick.Update(func(n int) int { return n + 1 })
				host.requests = nil
			}
			elapsed := time.Since(start)
			rt.Unmount(inst)

			stats := rt.Stats()
			fmt.Printf("frames:          %d\n", frames)
			fmt.Printf("elapsed:         %s (%.1f µs/frame)\n",
				elapsed, float64(elapsed.Microseconds())/float64(frames))
			fmt.Printf("renders:         %d\n", stats.Renders)
			fmt.Printf("render requests: %d\n", stats.RenderRequests)
			fmt.Printf("passive runs:    %d\n", stats.PassiveRuns)
			fmt.Printf("layout runs:     %d\n", stats.LayoutRuns)
			fmt.Printf("effect errors:   %d\n", stats.EffectErrors)
			return nil
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 10000, "Number of render/commit cycles")
	cmd.Flags().IntVar(&effects, "effects", 8, "Passive effect slots per component")
	cmd.Flags().IntVar(&budget, "budget", 0, "Passive effect budget per drain (0 = unlimited)")

	return cmd
}
