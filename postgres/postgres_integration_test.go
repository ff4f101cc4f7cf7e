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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/tochemey/rhizome/log"
)

const (
	testUser             = "test"
	testDatabase         = "testdb"
	testDatabasePassword = "test"
)

// startPostgres spawns a Postgres container and returns its connection string
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(testDatabase),
		tcpostgres.WithUsername(testUser),
		tcpostgres.WithPassword(testDatabasePassword),
		tcpostgres.BasicWaitStrategies())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connString
}

func TestConnectAndInitialize(t *testing.T) {
	connString := startPostgres(t)
	ctx := context.Background()

	config := NewConfiguration(Properties{
		"url":                         connString,
		"maximumPoolSize":             "4",
		"connectionTimeout":           "5000",
		"dataSource.application_name": "rhizome-test",
	})

	pool, err := Connect(ctx, config,
		WithConnectLogger(log.DiscardLogger),
		WithSlowQueryThreshold(time.Second),
		WithConnectRetry(10, 100*time.Millisecond, time.Second))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	table := accountsTable()
	require.NoError(t, Initialize(ctx, pool, config, log.DiscardLogger, table))
	// a second run is a no-op
	require.NoError(t, Initialize(ctx, pool, config, log.DiscardLogger, table))

	insert, err := table.InsertQuery("ON CONFLICT (id) DO NOTHING", idColumn, ownerColumn, balanceColumn)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, insert, "6f1d9c1e-8c53-4c36-9d45-3f0a1b2c4d5e", "alice", 120)
	require.NoError(t, err)

	update, err := table.UpdateQuery([]ColumnDefinition{idColumn}, []ColumnDefinition{balanceColumn})
	require.NoError(t, err)
	_, err = pool.Exec(ctx, update, 240, "6f1d9c1e-8c53-4c36-9d45-3f0a1b2c4d5e")
	require.NoError(t, err)

	selectQuery, err := table.SelectQuery([]ColumnDefinition{balanceColumn}, []ColumnDefinition{ownerColumn})
	require.NoError(t, err)

	var balance int64
	require.NoError(t, pool.QueryRow(ctx, selectQuery, "alice").Scan(&balance))
	require.EqualValues(t, 240, balance)

	var applicationName string
	require.NoError(t, pool.QueryRow(ctx, "SHOW application_name").Scan(&applicationName))
	require.Equal(t, "rhizome-test", applicationName)

	deleteQuery, err := table.DeleteQuery([]ColumnDefinition{ownerColumn})
	require.NoError(t, err)
	tag, err := pool.Exec(ctx, deleteQuery, "alice")
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
}
