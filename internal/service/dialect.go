package service

import (
	"fmt"

	"gorm.io/gorm"
)

// dialect renders the date-bucketing expressions used by the statistics
// queries. Every bucket expression yields text so rows scan the same way on
// PostgreSQL and SQLite.
type dialect struct {
	postgres bool
}

func dialectOf(db *gorm.DB) dialect {
	return dialect{postgres: db.Dialector.Name() == "postgres"}
}

// day yields YYYY-MM-DD
func (d dialect) day(col string) string {
	if d.postgres {
		return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM-DD')", col)
	}
	return fmt.Sprintf("DATE(%s)", col)
}

// week yields the Monday that starts the week, as YYYY-MM-DD
func (d dialect) week(col string) string {
	if d.postgres {
		return fmt.Sprintf("TO_CHAR(DATE_TRUNC('week', %s), 'YYYY-MM-DD')", col)
	}
	return fmt.Sprintf("DATE(%s, 'weekday 0', '-6 days')", col)
}

// month yields YYYY-MM
func (d dialect) month(col string) string {
	if d.postgres {
		return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM')", col)
	}
	return fmt.Sprintf("STRFTIME('%%Y-%%m', %s)", col)
}

// weekday yields 0 (Sunday) through 6 (Saturday)
func (d dialect) weekday(col string) string {
	if d.postgres {
		return fmt.Sprintf("CAST(EXTRACT(DOW FROM %s) AS INTEGER)", col)
	}
	return fmt.Sprintf("CAST(STRFTIME('%%w', %s) AS INTEGER)", col)
}
