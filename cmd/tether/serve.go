package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tetherui/tether/pkg/devtools"
	"github.com/tetherui/tether/pkg/hooks"
	"github.com/tetherui/tether/pkg/runtime"
)

func serveCmd() *cobra.Command {
	var (
		addr     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo component with the devtools inspector",
		Long: `Serve mounts a small clock component that re-renders on a timer and
exposes the devtools inspector: recent runtime events at /api/events,
counters at /api/stats, a live WebSocket stream at /ws, and Prometheus
metrics at /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()

			rendered := make(chan *hooks.Instance, 16)
			host := &runtime.AsyncHost{
				OnRenderRequest: func(inst *hooks.Instance) {
					select {
					case rendered <- inst:
					default:
					}
				},
			}

			rt := runtime.New(
				runtime.WithHost(host),
				runtime.WithLogger(logger.With("component", "runtime")),
				runtime.WithMetrics(runtime.NewMetrics()),
				runtime.WithRecorder(runtime.NewRecorder(512)),
			)

			clock := runtime.RenderFunc(func(s *hooks.Session) runtime.RenderResult {
				now, setNow := hooks.UseState(s, time.Now())
				hooks.UseEffect(s, func() hooks.Cleanup {
					ticker := time.NewTicker(interval)
					done := make(chan struct{})
					go func() {
						for {
							select {
							case t := <-ticker.C:
								setNow.Set(t)
							case <-done:
								return
							}
						}
					}()
					return func() {
						ticker.Stop()
						close(done)
					}
				}, hooks.DepsOf())
				return now.Format(time.RFC3339Nano)
			})

			inst := rt.Mount(clock)
			if _, err := rt.Render(inst); err != nil {
				return err
			}
			rt.Commit()
			rt.Paint()

			// Frame loop: render requested instances as they come in.
			go func() {
				for target := range rendered {
					if _, err := rt.Render(target); err != nil {
						logger.Error("render failed", "error", err)
						continue
					}
					rt.Commit()
					rt.Paint()
				}
			}()

			inspector := devtools.New(rt, devtools.WithLogger(logger.With("component", "devtools")))
			mux := http.NewServeMux()
			mux.Handle("/", inspector.Handler())
			mux.Handle("/metrics", promhttp.Handler())

			logger.Info("demo serving", "addr", addr, "interval", interval)
			srv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":6160", "Listen address")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Clock tick interval")

	return cmd
}
