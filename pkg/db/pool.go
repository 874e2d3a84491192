package db

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// configureTLS sets up TLS for managed PostgreSQL instances.
// Returns nil if TLS is not required (local development)
func configureTLS(databaseURL string) (*tls.Config, error) {
	if databaseURL == "" || !containsSSLMode(databaseURL) {
		return nil, nil
	}

	certPath := os.Getenv("DATABASE_CA_CERT")
	if certPath == "" {
		certPath = filepath.Join("certs", "postgres-ca.crt")
	}
	caPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate from %s: %w", certPath, err)
	}

	rootCertPool := x509.NewCertPool()
	if ok := rootCertPool.AppendCertsFromPEM(caPEM); !ok {
		return nil, fmt.Errorf("failed to append CA certificate to pool")
	}

	tlsConfig := &tls.Config{
		RootCAs:    rootCertPool,
		MinVersion: tls.VersionTLS12,
	}

	// Only needed if the certificate name differs from the connection host
	if serverName := os.Getenv("DATABASE_TLS_SERVER_NAME"); serverName != "" {
		tlsConfig.ServerName = serverName
	}

	return tlsConfig, nil
}

// containsSSLMode checks if DATABASE_URL has sslmode parameter
func containsSSLMode(url string) bool {
	return strings.Contains(url, "sslmode=require") ||
		strings.Contains(url, "sslmode=verify-full") ||
		strings.Contains(url, "sslmode=verify-ca")
}

// PoolConfig contains database pool configuration parameters
type PoolConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// NewPool creates a PostgreSQL connection pool and verifies it with a ping.
// TLS is enabled when the URL carries sslmode=require or verify-*; the CA
// certificate is read from DATABASE_CA_CERT (default certs/postgres-ca.crt).
func NewPool(ctx context.Context, poolCfg PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(poolCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	tlsConfig, err := configureTLS(poolCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure TLS: %w", err)
	}
	if tlsConfig != nil {
		config.ConnConfig.TLSConfig = tlsConfig
	}

	config.MaxConns = poolCfg.MaxConns
	config.MinConns = poolCfg.MinConns
	config.HealthCheckPeriod = 30 * time.Second
	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Close gracefully closes the connection pool
func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
