// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tochemey/rhizome/log"
)

// Execer runs a statement. *pgxpool.Pool and *pgx.Conn satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Initialize creates the given tables and their indexes according to the configuration.
//
// Tables are created when InitializeTables is set and distributed across the cluster
// when UsingCitus is set. Indexes are created, after every table, when InitializeIndices is set.
// It stops at the first failing statement.
func Initialize(ctx context.Context, db Execer, config Configuration, logger log.Logger, tables ...*TableDefinition) error {
	if logger == nil {
		logger = log.DiscardLogger
	}

	if config.InitializeTables {
		for _, table := range tables {
			query, err := table.CreateTableQuery()
			if err != nil {
				return err
			}

			if err := exec(ctx, db, query); err != nil {
				return fmt.Errorf("failed to create table %s: %w", table.Name(), err)
			}
			logger.Debugf("table %s is ready", table.Name())

			if !config.UsingCitus {
				continue
			}

			query, ok, err := table.DistributionQuery()
			if err != nil {
				return err
			}

			if !ok {
				continue
			}

			if err := exec(ctx, db, query); err != nil {
				return fmt.Errorf("failed to distribute table %s: %w", table.Name(), err)
			}
			logger.Debugf("table %s is distributed", table.Name())
		}
	}

	if !config.InitializeIndices {
		return nil
	}

	for _, table := range tables {
		queries, err := table.CreateIndexQueries()
		if err != nil {
			return err
		}

		for _, query := range queries {
			if err := exec(ctx, db, query); err != nil {
				return fmt.Errorf("failed to create index on table %s: %w", table.Name(), err)
			}
		}

		if len(queries) > 0 {
			logger.Debugf("%d index(es) of table %s are ready", len(queries), table.Name())
		}
	}

	return nil
}

func exec(ctx context.Context, db Execer, query string) error {
	_, err := db.Exec(ctx, query)
	return err
}
