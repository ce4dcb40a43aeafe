package mysql

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"ssb/internal/column"
)

type testMySQLContainer struct {
	container *tcmysql.MySQLContainer
	dsn       string
}

// TestLoadStoreIntegration spins up a real MySQL 8 container, creates
// the five encoded tables, seeds a tiny dataset, and asserts that
// LoadStore reproduces it exactly in the resulting column.Store.
func TestLoadStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tc := setupMySQL(t)
	ctx := context.Background()

	seedSchema(t, tc.dsn)

	loader, err := Open(ctx, tc.dsn)
	require.NoError(t, err)
	defer loader.Close()

	store := &column.Store{}
	require.NoError(t, LoadStore(ctx, loader, store))

	require.Equal(t, []uint32{19930101, 19940101}, store.Date.DateKey)
	require.Equal(t, []uint16{1993, 1994}, store.Date.Year)

	require.Equal(t, 3, store.Lineorder.Len())
	require.Equal(t, []uint32{100, 50, 70}, store.Lineorder.ExtendedPrice)
	require.Equal(t, []uint8{2, 2, 2}, store.Lineorder.Discount)

	// The mirrors are built as part of LoadStore; spot-check the
	// partitioning invariant holds for the loaded customer row.
	custKey := store.Customer.CustKey[0]
	part := &store.CustMirror.Partitions[custKey%column.P]
	require.Contains(t, part.CustKey, custKey)
}

func seedSchema(t *testing.T, dsn string) {
	t.Helper()
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	ddls := []string{
		`CREATE TABLE part_encoded (p_partkey INT, p_mfgr TINYINT, p_category TINYINT, p_brand1 SMALLINT)`,
		`CREATE TABLE supplier_encoded (s_suppkey INT, s_city TINYINT UNSIGNED, s_nation TINYINT, s_region TINYINT)`,
		`CREATE TABLE customer_encoded (c_custkey INT, c_city TINYINT UNSIGNED, c_nation TINYINT, c_region TINYINT)`,
		`CREATE TABLE date_encoded (d_datekey INT, d_year SMALLINT, d_yearmonthnum INT, d_yearmonth INT, d_weeknuminyear TINYINT)`,
		`CREATE TABLE lineorder (lo_custkey INT, lo_partkey INT, lo_suppkey INT, lo_orderdate INT, lo_quantity TINYINT, lo_extendedprice INT, lo_discount TINYINT, lo_revenue INT, lo_supplycost INT)`,
	}
	for _, ddl := range ddls {
		_, err := db.ExecContext(ctx, ddl)
		require.NoError(t, err)
	}

	_, err = db.ExecContext(ctx, `INSERT INTO part_encoded VALUES (1, 1, 1, 100)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO supplier_encoded VALUES (1, 221, 24, 1)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO customer_encoded VALUES (1, 221, 24, 1)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO date_encoded VALUES
		(19930101, 1993, 199301, 0, 1),
		(19940101, 1994, 199401, 0, 1)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO lineorder VALUES
		(1, 1, 1, 19930101, 10, 100, 2, 0, 0),
		(1, 1, 1, 19930101, 30, 50, 2, 0, 0),
		(1, 1, 1, 19940101, 10, 70, 2, 0, 0)`)
	require.NoError(t, err)
}

func setupMySQL(t *testing.T) *testMySQLContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcmysql.Run(ctx, "mysql:8.0",
		tcmysql.WithDatabase("ssb"),
		tcmysql.WithUsername("root"),
		tcmysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err, "failed to get connection string")

	return &testMySQLContainer{container: container, dsn: dsn}
}
