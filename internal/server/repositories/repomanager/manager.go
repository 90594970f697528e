// Package repomanager wires repository constructors to a database handle and
// owns schema migrations (via goose).
package repomanager

import (
	"github.com/samuelireke/hoaxify/internal/dbx"
	"github.com/samuelireke/hoaxify/internal/server/repositories/tokens"
	"github.com/samuelireke/hoaxify/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository code on a plain connection or inside a transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
}
