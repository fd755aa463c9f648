package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/ascend/internal/catalog"
	"github.com/julianstephens/ascend/internal/constants"
	"github.com/julianstephens/ascend/internal/migration"
	"github.com/julianstephens/ascend/internal/storage"
	"github.com/julianstephens/ascend/internal/tracker"
	"github.com/julianstephens/ascend/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Service
	// CatalogPath overrides the embedded catalog when set.
	CatalogPath string
	// Interactive enables huh prompts. Off in tests and when stdin is not a terminal.
	Interactive bool
	Out         io.Writer
}

func NewContext(store storage.Provider, catalogPath string, clock utils.Clock) *Context {
	return &Context{
		Store:       store,
		Tracker:     tracker.New(store, clock),
		CatalogPath: catalogPath,
		Out:         os.Stdout,
	}
}

// Migrator is implemented by backends with a versioned schema.
type Migrator interface {
	Migrate() (int, error)
	MigrationStatus() (migration.Status, error)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Catalog loads the configured catalog, falling back to the embedded default.
func (c *Context) Catalog() (*catalog.Catalog, error) {
	return catalog.Load(c.CatalogPath)
}

// ParseDay parses a YYYY-MM-DD argument in the user's timezone. An empty
// string means today.
func (c *Context) ParseDay(s string) (time.Time, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	if s == "" {
		_, today, err := c.Tracker.Today()
		if err != nil {
			return time.Time{}, err
		}
		s = today
	}
	t, err := utils.ParseDateInLocation(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected %s)", s, constants.DateFormat)
	}
	return t, nil
}
