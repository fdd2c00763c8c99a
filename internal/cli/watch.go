package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"backupwatch/internal/logging"
	"backupwatch/internal/scheduler"
)

var watchSchedule string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run checks continuously on the configured schedule",
	Long: `Run in the foreground, executing a health check on the configured
schedule. An initial check runs immediately at startup. Stop with
Ctrl-C or SIGTERM.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "override the configured check schedule")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := RequireConfig(); err != nil {
		return err
	}

	expr := cfg.CheckSchedule
	if watchSchedule != "" {
		expr = watchSchedule
	}
	if expr == "" {
		expr = "daily"
	}

	sched, err := scheduler.ParseSchedule(expr)
	if err != nil {
		return fmt.Errorf("check schedule: %w", err)
	}

	check := func() error {
		rep, err := runOnce()
		if err != nil {
			return err
		}
		if rep.HasAlarm() {
			logging.L().Warn("backup alarms detected", zap.String("report", rep.ID))
		}
		return nil
	}

	s := scheduler.NewScheduler(sched, check, &scheduler.Callbacks{
		OnCheckSuccess: func(elapsed time.Duration) {
			printInfo(fmt.Sprintf("check completed in %s", elapsed.Round(time.Millisecond)))
		},
		OnCheckFailure: func(err error) {
			printError(fmt.Sprintf("check failed: %v", err))
		},
	})

	printHeader(fmt.Sprintf("backupwatch watching %d path(s), schedule %q", len(cfg.BackupPaths), expr))
	s.RunNow()
	s.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	printInfo(fmt.Sprintf("received %s, shutting down", sig))
	s.Stop()
	return nil
}
