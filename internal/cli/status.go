package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"backupwatch/internal/scheduler"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current configuration and schedule",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := RequireConfig(); err != nil {
		return err
	}

	printHeader("backupwatch status")
	fmt.Printf("Config:            %s\n", configDir())
	fmt.Printf("Minimum sets:      %d\n", cfg.MinBackupSets)
	fmt.Printf("Timestamp source:  %s\n", cfg.TimestampSource)
	fmt.Printf("Notify mode:       %s\n", cfg.NotifyType)

	providers := 0
	if cfg.Notify.IsEnabled() {
		for _, p := range cfg.Notify.Providers {
			if p.Enabled {
				providers++
			}
		}
	}
	fmt.Printf("Notify providers:  %d\n", providers)

	fmt.Println()
	if len(cfg.BackupPaths) == 0 {
		printWarning("no backup paths configured")
	} else {
		fmt.Println("Monitored paths:")
		for _, p := range cfg.BackupPaths {
			fmt.Printf("  %s\n", p)
		}
	}

	fmt.Println()
	if cfg.CheckSchedule == "" {
		printInfo("no check schedule set (run checks manually)")
		return nil
	}

	sched, err := scheduler.ParseSchedule(cfg.CheckSchedule)
	if err != nil {
		printWarning(fmt.Sprintf("invalid check schedule %q: %v", cfg.CheckSchedule, err))
		return nil
	}
	next := sched.NextRun(time.Now())
	fmt.Printf("Schedule:          %s\n", cfg.CheckSchedule)
	fmt.Printf("Next check:        %s (in %s)\n",
		next.Format("2006-01-02 15:04"),
		scheduler.FormatDuration(time.Until(next)))
	return nil
}
