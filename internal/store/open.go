package store

import (
	"context"
	"fmt"
)

// Open connects the recorder named by driver. Driver "none" returns a nil Recorder.
func Open(ctx context.Context, driver, dsn string) (Recorder, error) {
	switch driver {
	case "", "none":
		return nil, nil
	case "sqlite":
		s, err := OpenSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgresStore(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
