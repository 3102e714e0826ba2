package repomanager

import (
	"context"
	"database/sql"

	"github.com/citycare/citycare/internal/dbx"
	"github.com/citycare/citycare/internal/server/repositories/audit"
	"github.com/citycare/citycare/internal/server/repositories/refreshtokens"
	"github.com/citycare/citycare/internal/server/repositories/reports"
	"github.com/citycare/citycare/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or a
// transaction, so services can run several repositories in one dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Reports(db dbx.DBTX) reports.Repository
	Audit(db dbx.DBTX) audit.Repository
}
