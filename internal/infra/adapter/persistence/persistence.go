// Package persistence selects the repository implementations for a driver.
package persistence

import (
	"fmt"

	"mysite/internal/infra/adapter/persistence/postgres"
	"mysite/internal/infra/adapter/persistence/sqlite"
	"mysite/internal/infra/db"
	"mysite/internal/repository"
)

// Repositories groups the repositories backed by one connection.
type Repositories struct {
	Questions repository.QuestionRepository
	Choices   repository.ChoiceRepository
}

// New returns the repositories for driver on top of conn.
func New(driver string, conn db.DBTX) (Repositories, error) {
	switch driver {
	case db.DriverPostgres:
		return Repositories{
			Questions: postgres.NewQuestionRepo(conn),
			Choices:   postgres.NewChoiceRepo(conn),
		}, nil
	case db.DriverSQLite:
		return Repositories{
			Questions: sqlite.NewQuestionRepo(conn),
			Choices:   sqlite.NewChoiceRepo(conn),
		}, nil
	default:
		return Repositories{}, fmt.Errorf("persistence: unsupported driver %q", driver)
	}
}
