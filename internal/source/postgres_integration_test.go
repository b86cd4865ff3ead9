//go:build integration

package source

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresSource(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "secret123",
			"POSTGRES_DB":       "faculty",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pg.Terminate(ctx) }()

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432")
	require.NoError(t, err)
	url := fmt.Sprintf("postgres://postgres:secret123@%s:%s/faculty?sslmode=disable", host, port.Port())

	conn, err := pgx.Connect(ctx, url)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `CREATE TABLE faculty_scores ("Faculty" TEXT, "Encode" NUMERIC, "Decode" DOUBLE PRECISION)`)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `INSERT INTO faculty_scores VALUES ('Engineering', 0.5, -0.2), ('Arts', -0.5, NULL)`)
	require.NoError(t, err)
	require.NoError(t, conn.Close(ctx))

	chain := NewChain("Faculty", required, discard(), NewPostgres(url, "faculty_scores"))
	defer chain.Close()

	ds, err := chain.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "postgres", ds.Source)
	assert.Equal(t, []string{"Engineering", "Arts"}, ds.Entities())
	v, err := ds.Value("Engineering", "Encode")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-9)
}
