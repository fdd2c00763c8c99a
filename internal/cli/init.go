package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"backupwatch/internal/config"
	"backupwatch/internal/notify"
)

var (
	initPaths      []string
	initMinSets    int
	initSchedule   string
	initNotify     = newNotifyTypeValue("off")
	initWebhookURL string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the initial configuration",
	Long: `Create ~/.backupwatch/config.json with the monitored backup paths
and notification settings.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringSliceVarP(&initPaths, "paths", "p", nil, "backup directories to monitor")
	initCmd.Flags().IntVar(&initMinSets, "min-sets", 5, "minimum backup sets per path")
	initCmd.Flags().StringVar(&initSchedule, "schedule", "", "check schedule for watch mode (e.g. daily, every 4h)")
	initCmd.Flags().Var(initNotify, "notify", "when to notify")
	initCmd.Flags().StringVar(&initWebhookURL, "webhook", "", "webhook URL for notifications")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if config.Exists(cfgDir) {
		return fmt.Errorf("already initialized - remove %s to reinitialize", configDir())
	}
	if len(initPaths) == 0 {
		return fmt.Errorf("--paths is required")
	}

	c := config.Default()
	c.ConfigDir = cfgDir
	c.BackupPaths = initPaths
	c.MinBackupSets = initMinSets
	c.CheckSchedule = initSchedule
	c.NotifyType = initNotify.NotifyType()

	if initWebhookURL != "" {
		c.Notify = &notify.Config{}
		c.Notify.AddProvider("webhook", notify.Provider{
			Type:     "webhook",
			Enabled:  true,
			Settings: map[string]string{"url": initWebhookURL},
		})
	}

	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	printSuccess("Configuration written to %s", configDir())
	printInfo("Monitoring %d path(s), minimum %d sets each", len(c.BackupPaths), c.MinBackupSets)
	printInfo("Run a check with: backupwatch check")
	return nil
}
