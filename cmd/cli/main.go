package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jakechorley/dutyroster/internal/config"
	"github.com/jakechorley/dutyroster/pkg/core/model"
	"github.com/jakechorley/dutyroster/pkg/core/scheduler"
	"github.com/jakechorley/dutyroster/pkg/core/services"
	"github.com/jakechorley/dutyroster/pkg/csvstore"
	"github.com/jakechorley/dutyroster/pkg/render"
	"github.com/jakechorley/dutyroster/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Settings
	ng     *config.NGFile
	store  *csvstore.Store
	logger *zap.Logger
	ctx    context.Context
}

var (
	env          string
	settingsPath string
	ngPath       string
	app          *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Duty roster CLI - Generate and audit duty schedules",
		Long:  `A CLI tool for generating weekend day duty and weekly night duty schedules, auditing existing schedules against the duty rules, and bootstrapping config from a history CSV.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// initConfig runs before any settings file exists, so it
			// initializes the logger only.
			return initApp(cmd.Name() != "initConfig")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment label for the log file (optional)")
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "", "Path to the settings file (default: search for "+config.SettingsFileName+")")
	rootCmd.PersistentFlags().StringVar(&ngPath, "ng", "", "Path to the unavailable dates file (default: search for "+config.NGFileName+")")

	// Add all commands
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(initConfigCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(listMembersCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger, settings, unavailable dates and the history
// store. Settings loading is skipped for commands that run before a
// settings file exists.
func initApp(loadSettings bool) error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger
	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	if !loadSettings {
		return nil
	}

	// Load settings
	app.logger.Info("Loading settings")
	if settingsPath != "" {
		app.cfg, err = config.LoadFromPath(settingsPath)
	} else {
		app.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	app.logger.Debug("Settings loaded successfully")

	// Load unavailable dates
	app.logger.Info("Loading unavailable dates")
	if ngPath != "" {
		app.ng, err = config.LoadNGFromPath(ngPath)
	} else {
		app.ng, err = config.LoadNG()
	}
	if err != nil {
		return fmt.Errorf("failed to load unavailable dates: %w", err)
	}
	app.logger.Debug("Unavailable dates loaded successfully")

	// Initialize history store
	app.store = csvstore.New(app.cfg.History.CSVPath)
	app.logger.Info("History store ready", zap.String("path", app.store.Path()))

	return nil
}

// Command definitions

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a duty schedule for one rotation period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			historyPath, _ := cmd.Flags().GetString("history")
			outputPath, _ := cmd.Flags().GetString("output")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			store := app.store
			if historyPath != "" {
				store = csvstore.New(historyPath)
			}

			result, err := services.GenerateSchedule(app.ctx, store, app.cfg, app.ng, app.logger, start, end, outputPath, dryRun)

			var noCandidate *scheduler.NoCandidateError
			if errors.As(err, &noCandidate) && result != nil {
				fmt.Printf("\n%s\n\n", render.Header("Partial schedule"))
				fmt.Print(render.FormatSchedule(result.Assignments))
				if notes := render.FormatNotes(result.Notes); notes != "" {
					fmt.Printf("\n%s\n%s", render.Header("Notes"), notes)
				}
				fmt.Printf("\n%s No eligible member for %s\n%s\n", render.Bad("✗"), noCandidate.Slot, noCandidate.Detail())
				return err
			}
			if err != nil {
				return err
			}

			// Display results
			fmt.Printf("\n%s Schedule generated for %s\n\n", render.Good("✓"), result.Period)
			fmt.Print(render.FormatSchedule(result.Assignments))

			if notes := render.FormatNotes(result.Notes); notes != "" {
				fmt.Printf("\n%s\n%s", render.Header("Notes"), notes)
			}

			if app.cfg.Output.ShowStatistics {
				fmt.Printf("\n%s\n%s", render.Header("Statistics"), render.FormatStatistics(result.Statistics))
			}

			if result.Saved {
				fmt.Printf("\nSaved to %s\n", result.OutputPath)
			} else {
				fmt.Printf("\n%s\n", render.Dim("Schedule not saved"))
			}

			return nil
		},
	}

	cmd.Flags().String("start", "", "Rotation start date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("start")
	cmd.Flags().String("end", "", "Rotation end date (default: start plus the configured rotation length)")
	cmd.Flags().String("history", "", "Path to the history CSV (default: from settings)")
	cmd.Flags().String("output", "", "Path for the schedule CSV (default: under the configured output dir)")
	cmd.Flags().Bool("dry-run", false, "Build and print without saving the CSV")

	return cmd
}

func initConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initConfig",
		Short: "Derive a settings file and unavailable dates template from a history CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			historyPath, _ := cmd.Flags().GetString("history")
			force, _ := cmd.Flags().GetBool("force")

			outSettings := settingsPath
			if outSettings == "" {
				outSettings = config.SettingsFileName
			}
			outNG := ngPath
			if outNG == "" {
				outNG = config.NGFileName
			}

			store := csvstore.New(historyPath)
			result, err := services.InitConfig(app.ctx, store, app.logger, outSettings, outNG, force)
			if err != nil {
				return err
			}

			// Display results
			fmt.Printf("\n%s Config bootstrapped from %s\n\n", render.Good("✓"), historyPath)
			fmt.Printf("Settings file:     %s\n", result.SettingsPath)
			fmt.Printf("Unavailable dates: %s\n", result.NGPath)
			fmt.Printf("Members:           %d\n", result.MemberCount)
			if result.FixedMember != "" {
				fmt.Printf("\nFixed night pattern prefilled for %s, left disabled. Review before enabling.\n", result.FixedMember)
			}
			fmt.Println("\nReview both files before the first generate run.")

			return nil
		},
	}

	cmd.Flags().String("history", "", "Path to the history CSV to derive the roster from")
	cmd.MarkFlagRequired("history")
	cmd.Flags().Bool("force", false, "Overwrite existing settings and unavailable dates files")

	return cmd
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Audit a schedule CSV against the duty rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schedulePath, _ := cmd.Flags().GetString("schedule")
			historyPath, _ := cmd.Flags().GetString("history")

			// Default to auditing the accumulated history file itself.
			if schedulePath == "" {
				schedulePath = app.cfg.History.CSVPath
			}

			var historyStore services.AnalyzeScheduleStore
			if historyPath != "" {
				historyStore = csvstore.New(historyPath)
			}

			result, err := services.AnalyzeSchedule(app.ctx, csvstore.New(schedulePath), historyStore, app.cfg, app.logger)
			if err != nil {
				return err
			}

			// Display results
			fmt.Printf("\n%s\n", render.Header("Schedule audit"))
			fmt.Printf("%s\n", schedulePath)
			fmt.Printf("%d records, %s to %s",
				result.RecordCount,
				result.FirstDate.Format(model.DateLayout),
				result.LastDate.Format(model.DateLayout))
			if result.HistoryCount > 0 {
				fmt.Printf(" (+%d history records for context)", result.HistoryCount)
			}
			fmt.Println()

			if len(result.UnknownMembers) > 0 {
				fmt.Printf("\n%s Not in the roster: %s\n", render.Warn("!"), strings.Join(result.UnknownMembers, ", "))
			}

			fmt.Printf("\n%s\n", render.Header("Violations"))
			fmt.Print(render.FormatViolations(result.Violations))

			if app.cfg.Output.ShowStatistics {
				fmt.Printf("\n%s\n%s", render.Header("Statistics"), render.FormatStatistics(result.Statistics))
			}

			return nil
		},
	}

	cmd.Flags().String("schedule", "", "Path to the schedule CSV to audit (default: the history CSV)")
	cmd.Flags().String("history", "", "Path to a history CSV giving pre-period context")

	return cmd
}

func listMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listMembers",
		Short: "List the roster with duty groups and overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ListMembers(app.cfg, app.logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s\n", render.Header("Roster"))
			fmt.Print(render.FormatRoster(result.Members))
			fmt.Printf("\n%d members: %d active, %d on day duty, %d on night duty\n",
				len(result.Members), result.ActiveCount, result.DayCount, result.NightCount)

			return nil
		},
	}
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (initialize once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against one
logger and settings load. The session keeps running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\n🚀 Starting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				// Parse command
				parts := strings.Fields(line)
				cmdName := parts[0]
				cmdArgs := parts[1:]

				// Handle exit
				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("👋 Goodbye!")
					return nil
				}

				// Handle help
				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				// Execute command via Cobra
				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags and args
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Execute the command's RunE directly, bypassing the full Execute() flow
				// This avoids re-running PersistentPreRunE which would call initApp() again
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("❌ Error parsing flags: %v\n\n", err)
					continue
				}

				// Get non-flag args after parsing flags
				cmdArgs = targetCmd.Flags().Args()

				// Validate args
				if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
					fmt.Printf("❌ Error: %v\n\n", err)
					continue
				}

				// Execute the RunE function directly
				if targetCmd.RunE != nil {
					if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
						fmt.Printf("❌ Error: %v\n\n", err)
					}
				} else if targetCmd.Run != nil {
					targetCmd.Run(targetCmd, cmdArgs)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	// Get command names and sort them
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}

	// Print each command with its short description
	for _, name := range names {
		cmd := commands[name]
		fmt.Printf("  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                           Show this help message")
	fmt.Println("  exit, quit                     Exit the interactive session")
}
