// internal/component/deps.go
package component

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/landing/internal/config"
	"github.com/yanizio/landing/internal/form"
	"github.com/yanizio/landing/internal/view"
)

// Deps exposes the process-wide services to components during Init.  DB is
// nil without a database section; Executor then skips its store action.
type Deps struct {
	Config   *config.Config
	DB       *sqlx.DB
	View     *view.Engine
	Signer   *form.Signer
	Executor *form.Executor
	Log      *zap.SugaredLogger
}
