package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	_ "time/tzdata"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/ascend/internal/cli"
	"github.com/julianstephens/ascend/internal/cli/catalogs"
	"github.com/julianstephens/ascend/internal/cli/goals"
	"github.com/julianstephens/ascend/internal/cli/habits"
	"github.com/julianstephens/ascend/internal/cli/progress"
	"github.com/julianstephens/ascend/internal/cli/settings"
	"github.com/julianstephens/ascend/internal/cli/system"
	"github.com/julianstephens/ascend/internal/cli/tasks"
	"github.com/julianstephens/ascend/internal/constants"
	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/keyring"
	"github.com/julianstephens/ascend/internal/logger"
	"github.com/julianstephens/ascend/internal/storage"
	"github.com/julianstephens/ascend/internal/storage/postgres"
	"github.com/julianstephens/ascend/internal/storage/sqlite"
	"github.com/julianstephens/ascend/internal/utils"
)

var CLI struct {
	Version     kong.VersionFlag
	Config      string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the keyring, ${env_db} or .pgpass instead." env:"ASCEND_CONFIG" default:"~/.config/ascend/ascend.db"`
	Debug       bool   `help:"Log debug output to stderr." env:"ASCEND_DEBUG"`
	CatalogFile string `name:"catalog" help:"Catalog YAML file. Defaults to the built-in catalog." env:"ASCEND_CATALOG" type:"path"`

	Init         system.InitCmd           `cmd:"" help:"Initialize ascend storage and seed the catalog."`
	Migrate      system.MigrateCmd        `cmd:"" help:"Run database migrations."`
	Doctor       system.DoctorCmd         `cmd:"" help:"Run health checks and diagnostics."`
	Tui          system.TuiCmd            `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Goal         goals.GoalCmd            `cmd:"" help:"Browse, start, pause and resume goals."`
	Habit        habits.HabitCmd          `cmd:"" help:"List and complete habits of the active goal."`
	Stats        progress.StatsCmd        `cmd:"" help:"Show level, XP and streak."`
	Achievements progress.AchievementsCmd `cmd:"" help:"List achievements."`
	XP           progress.XPCmd           `cmd:"" name:"xp" help:"Inspect the XP ledger."`
	Task         struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Schedule a task, optionally recurring."`
		List   tasks.TaskListCmd   `cmd:"" help:"List scheduled tasks." default:"1"`
		Done   tasks.TaskDoneCmd   `cmd:"" help:"Mark a task done."`
		Delete tasks.TaskDeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage dated tasks."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Catalog  catalogs.CatalogCmd  `cmd:"" help:"Inspect and sync the goal catalog."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report keyring availability." default:"1"`
	} `cmd:"" help:"Manage the database connection string in the OS keyring."`
}

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit progression and goal tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"env_db":  constants.EnvDBConnection,
		},
	)

	store, configDir, err := openStore(CLI.Config)
	if err != nil {
		apperrors.Fatalf("invalid --config: %v", err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	logger.Debug("Starting", "version", constants.Version, "command", ctx.Command())

	appCtx := cli.NewContext(store, CLI.CatalogFile, utils.RealClock{})
	appCtx.Interactive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	// Commands that manage the store themselves skip the eager load.
	cmd := ctx.Command()
	if !strings.HasPrefix(cmd, "init") && !strings.HasPrefix(cmd, "keyring") && !strings.HasPrefix(cmd, "doctor") {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	_ = store.Close()
	apperrors.Fatal(err)
}

// openStore picks the backend for a --config value. The default SQLite path
// gives way to a connection string from the environment or keyring.
func openStore(config string) (storage.Provider, string, error) {
	home, _ := os.UserHomeDir()
	defaultDir := filepath.Join(home, ".config", constants.AppName)

	if config == constants.DefaultConfigPath {
		// Secrets from the environment or keyring may carry a password.
		connStr, _, err := keyring.ResolveConnectionString()
		if err == nil && connStr != "" {
			return postgres.New(connStr), defaultDir, nil
		}
	}

	if postgres.IsConnString(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			return nil, "", err
		}
		return postgres.New(config), defaultDir, nil
	}

	path := expandHome(config, home)
	return sqlite.NewStore(path), filepath.Dir(path), nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
