package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Cleanup removes entries older than daysThreshold days and returns how many
// were removed. A threshold of 0 clears the journal.
func (j *Journal) Cleanup(ctx context.Context, daysThreshold int) (int64, error) {
	if daysThreshold < 0 {
		return 0, fmt.Errorf("history: days threshold must be >= 0")
	}

	var (
		res sql.Result
		err error
	)
	if daysThreshold == 0 {
		res, err = j.db.ExecContext(ctx, "DELETE FROM requests")
	} else {
		cutoff := time.Now().UTC().AddDate(0, 0, -daysThreshold).Format(TimestampFormat)
		res, err = j.db.ExecContext(ctx, "DELETE FROM requests WHERE timestamp < ?", cutoff)
	}
	if err != nil {
		return 0, fmt.Errorf("history: cleanup: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("history: cleanup: %w", err)
	}
	return n, nil
}
