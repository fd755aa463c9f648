package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/ascend/internal/cli"
	"github.com/julianstephens/ascend/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Show current settings."`
	Set  SettingsSetCmd  `cmd:"" help:"Update settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx.Println("Current Settings:")
	ctx.Printf("  User ID:          %s\n", settings.UserID)
	ctx.Printf("  Timezone:         %s\n", settings.Timezone)
	ctx.Printf("  Catalog Version:  %d\n", settings.CatalogVersion)
	ctx.Printf("  Storage:          %s\n", ctx.Store.GetConfigPath())
	return nil
}

type SettingsSetCmd struct {
	Timezone *string `help:"IANA timezone used to decide what 'today' is (e.g. Europe/Berlin, or Local)."`
	UserID   *string `name:"user-id" help:"Owner id for progress records."`
}

func (c *SettingsSetCmd) Validate() error {
	if c.Timezone != nil && !utils.ValidateTimezone(*c.Timezone) {
		return fmt.Errorf("invalid timezone: %s", *c.Timezone)
	}
	if c.UserID != nil && strings.TrimSpace(*c.UserID) == "" {
		return fmt.Errorf("user id cannot be empty")
	}
	return nil
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.UserID != nil {
		settings.UserID = strings.TrimSpace(*c.UserID)
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use 'ascend settings show' to view settings or flags to update them.")
		return nil
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
