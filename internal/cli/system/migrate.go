package system

import (
	"fmt"

	"github.com/julianstephens/ascend/internal/cli"
)

type MigrateCmd struct {
	Status bool `help:"Only report the schema version."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(cli.Migrator)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}

	if c.Status {
		st, err := m.MigrationStatus()
		if err != nil {
			return err
		}
		ctx.Printf("Schema version %d of %d (%d pending)\n", st.Current, st.Latest, len(st.Pending))
		return nil
	}

	count, err := m.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("Successfully applied %d migration(s).\n", count)
	}
	return nil
}
