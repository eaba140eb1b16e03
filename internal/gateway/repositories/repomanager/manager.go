package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/snapgram/internal/dbx"
	"github.com/dmitrijs2005/snapgram/internal/gateway/repositories/follows"
	"github.com/dmitrijs2005/snapgram/internal/gateway/repositories/posts"
	"github.com/dmitrijs2005/snapgram/internal/gateway/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
	Follows(db dbx.DBTX) follows.Repository
}
