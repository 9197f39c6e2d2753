/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/josephgoksu/streakwing/internal/logger"
	"github.com/josephgoksu/streakwing/internal/schedule"
	"github.com/josephgoksu/streakwing/internal/streak"
	"github.com/josephgoksu/streakwing/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scheduleInterval time.Duration

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Register today's tasks now and then on a fixed interval",
	Long: `Run registration immediately and then every interval until interrupted.
Runs after the first on the same day skip every streak, so a short interval is
harmless. Editing schedule.interval in the config file takes effect without a
restart.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			logger.SetTrigger("schedule")
			interval := a.cfg.Schedule.Interval
			pinned := cmd.Flags().Changed("interval")
			if pinned {
				interval = scheduleInterval
			}

			s := newScheduler(cmd, a, "schedule", interval)
			if pinned {
				watchConfig(a, nil)
			} else {
				watchConfig(a, s)
			}

			a.logger.Info("schedule started", "interval", s.Interval())
			return s.Run(cmd.Context())
		})
	},
}

// newScheduler builds a registration loop whose runs are tracked under trigger
// and summarized on stdout.
func newScheduler(cmd *cobra.Command, a *app, trigger string, interval time.Duration) *schedule.Scheduler {
	run := func(ctx context.Context) streak.RunResult {
		start := time.Now()
		res := a.svc.RegisterToday(ctx)
		a.trackRun(trigger, res, time.Since(start))
		return res
	}
	return schedule.New(run, interval,
		schedule.WithLogger(a.logger),
		schedule.WithResultHandler(func(res streak.RunResult) {
			ui.RenderRunSummary(cmd.OutOrStdout(), res)
		}),
	)
}

// watchConfig refreshes preferences on config file edits and, when s is
// not nil, applies schedule.interval to it.
func watchConfig(a *app, s *schedule.Scheduler) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	var onInterval func(fsnotify.Event)
	if s != nil {
		onInterval = s.ConfigChangeHandler(func() time.Duration {
			return viper.GetDuration("schedule.interval")
		})
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		a.prefs.Refresh()
		if onInterval != nil {
			onInterval(e)
		}
	})
	viper.WatchConfig()
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().DurationVar(&scheduleInterval, "interval", schedule.DefaultInterval, "time between runs (overrides schedule.interval)")
}
