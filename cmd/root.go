/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/josephgoksu/streakwing/internal/logger"
	"github.com/josephgoksu/streakwing/models"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// ErrNoStreaksFound is returned when an interactive selection is attempted but no streaks exist.
	ErrNoStreaksFound = errors.New("no streaks found")
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streakwing",
	Short: "StreakWing keeps daily Todoist streaks going.",
	Long: `StreakWing tracks recurring daily habits as streaks. Once per calendar day it
creates a Todoist task such as "Study Spanish - Day 12" for every streak and
advances the day counter. Running it again on the same day does nothing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(cmd.ErrOrStderr(), verbose)
		logger.SetCommand(cmd.CommandPath())
		logger.SetLastInput(strings.Join(args, " "))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logger.SetVersion(version)
	defer logger.HandlePanic()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(err.Error(), err)
		stop()
		os.Exit(1)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.streakwing/.streakwing.yaml or $HOME/.streakwing.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

}

// selectStreakInteractive asks the user to pick a streak from a list.
func selectStreakInteractive(streaks []models.Streak, label string) (models.Streak, error) {
	if len(streaks) == 0 {
		return models.Streak{}, ErrNoStreaksFound
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .TaskContent | cyan }} (Day {{ .CurrentDay }}, ID: {{ .ID }})`,
		Inactive: `  {{ .TaskContent | faint }} (Day {{ .CurrentDay }}, ID: {{ .ID }})`,
		Selected: `{{ "✔" | green }} {{ .TaskContent | faint }} (ID: {{ .ID }})`,
		Details: `
--------- Streak Details ----------
{{ "ID:\t" | faint }} {{ .ID }}
{{ "Task:\t" | faint }} {{ .TaskContent }}
{{ "Day:\t" | faint }} {{ .CurrentDay }}
{{ "Priority:\t" | faint }} {{ .Priority }}
{{ "Last updated:\t" | faint }} {{ .LastUpdatedAt }}`,
	}

	searcher := func(input string, index int) bool {
		s := streaks[index]
		input = strings.ToLower(input)
		return strings.Contains(strings.ToLower(s.TaskContent), input) || strings.Contains(s.ID, input)
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     streaks,
		Templates: templates,
		Searcher:  searcher,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return models.Streak{}, err
	}
	return streaks[i], nil
}

// resolveStreakID returns args[0] or, on a terminal, asks the user to pick one.
func resolveStreakID(cmd *cobra.Command, a *app, args []string, label string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !isInteractive() {
		return "", fmt.Errorf("a streak id is required")
	}
	streaks, err := a.svc.ListStreaks(cmd.Context())
	if err != nil {
		return "", err
	}
	picked, err := selectStreakInteractive(streaks, label)
	if err != nil {
		return "", err
	}
	return picked.ID, nil
}
