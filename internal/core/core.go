package core

import (
	"log/slog"

	"github.com/siahsang/ncnews/internal/utils/databaseutils"
)

// Core holds the SQL for every entity. It is safe for concurrent use; the only
// state it shares between requests is the connection pool behind sqlTemplate.
type Core struct {
	log         *slog.Logger
	sqlTemplate *databaseutils.SQLTemplate
}

func NewCore(sqlTemplate *databaseutils.SQLTemplate, log *slog.Logger) *Core {
	return &Core{
		log:         log,
		sqlTemplate: sqlTemplate,
	}
}
