/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"sync"
	"time"

	"github.com/josephgoksu/streakwing/internal/logger"
	"github.com/josephgoksu/streakwing/internal/schedule"
	"github.com/josephgoksu/streakwing/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveSchedule bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the streak API over HTTP",
	Long: `Start a JSON HTTP API for streaks. POST /api/register runs registration;
concurrent requests share one run guard, so overlapping triggers never create
duplicate tasks. With --schedule the server also registers on
schedule.interval in the background, sharing the same guard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			logger.SetTrigger("http")
			addr := a.cfg.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr = serveAddr
			}
			srv := server.New(addr, a.svc, a.cfg.Server.AllowedOrigins...)

			var sched *schedule.Scheduler
			if serveSchedule {
				sched = newScheduler(cmd, a, "schedule", a.cfg.Schedule.Interval)
				sched.Start(cmd.Context())
				defer sched.Stop()
				a.logger.Info("background registration enabled", "interval", sched.Interval())
			}
			watchConfig(a, sched)

			var wg sync.WaitGroup
			errChan := make(chan error, 1)
			srv.Start(&wg, errChan)

			var serveErr error
			select {
			case <-cmd.Context().Done():
			case serveErr = <-errChan:
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				a.logger.Warn("http server shutdown failed", "error", err)
			}
			wg.Wait()
			return serveErr
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveSchedule, "schedule", false, "also run registration on schedule.interval")
}
