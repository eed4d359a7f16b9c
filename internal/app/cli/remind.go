package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var remindAfter time.Duration

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send payment reminders to unpaid registrations once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		after := remindAfter
		if after <= 0 {
			after = a.cfg.ReminderAfter
		}
		sent, err := a.svc.SendDueReminders(cmd.Context(), after)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d reminder(s) sent\n", sent)
		return nil
	},
}

func init() {
	remindCmd.Flags().DurationVar(&remindAfter, "after", 0, "Remind registrations unpaid for longer than this (default REMINDER_AFTER_HOURS)")
}
