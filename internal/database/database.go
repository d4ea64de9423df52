package database

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	_ "github.com/sijms/go-ora/v2"
	"go.uber.org/zap"

	"landshare/internal/types"
)

// Source tags rows read from the database.
const Source = "db"

const pingTimeout = 10 * time.Second

var (
	tableName       = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#]*(\.[A-Za-z][A-Za-z0-9_$#]*)?$`)
	errMissingShare = errors.New("missing share fraction")
)

// dsn builds a properly encoded connection string for Oracle
func dsn(username, password, host, port, service string, walletLocation string) string {
	if walletLocation != "" {
		// Wallet-based mTLS connection
		return fmt.Sprintf(
			"oracle://%s:%s@%s:%s/%s?ssl=true&wallet_location=%s",
			url.PathEscape(username), url.PathEscape(password), host, port, service, url.PathEscape(walletLocation))
	}

	return (&url.URL{
		Scheme: "oracle",
		User:   url.UserPassword(username, password), // escapes automatically
		Host:   host + ":" + port,
		Path:   "/" + service,
	}).String()
}

// loadEnvFile reads KEY=value lines into the environment without
// overriding variables that are already set.
func loadEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if idx := strings.Index(line, "="); idx > 0 {
			key := strings.TrimSpace(line[:idx])
			value := strings.TrimSpace(line[idx+1:])

			if len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"') {
				value = value[1 : len(value)-1]
			}

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	}

	return scanner.Err()
}

// DBConfig holds database connection configuration
type DBConfig struct {
	Host           string
	Port           string
	Service        string
	Username       string
	Password       string
	WalletLocation string
	// Table holds the land register.
	Table string
}

// Database reads land register rows from Oracle.
type Database struct {
	db     *sql.DB
	config DBConfig
	logger *zap.Logger
}

// NewDatabase opens the connection and pings it.
func NewDatabase(ctx context.Context, config DBConfig, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !tableName.MatchString(config.Table) {
		return nil, fmt.Errorf("invalid register table name %q", config.Table)
	}

	logger.Info("connecting to land register",
		zap.String("host", config.Host),
		zap.String("service", config.Service),
		zap.String("table", config.Table))

	db, err := sql.Open("oracle", dsn(config.Username, config.Password, config.Host, config.Port, config.Service, config.WalletLocation))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		db:     db,
		config: config,
		logger: logger,
	}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

func registerQuery(table string, byKhewat bool) string {
	query := `
		SELECT
			TO_CHAR(KHEWAT_NO), TO_CHAR(MARBA_NO), TO_CHAR(KILLA_NO), OWNER_NAME,
			TOTAL_KANAL, TOTAL_MARLA, SHARE_FRACTION
		FROM ` + table
	if byKhewat {
		query += `
		WHERE TO_CHAR(KHEWAT_NO) = :1`
	}
	return query + `
		ORDER BY KHEWAT_NO, MARBA_NO, KILLA_NO, OWNER_NAME`
}

// QueryLandRows returns the register rows of one khewat, or of every
// khewat when khewat is empty. Rows with a NULL share are reported as row
// errors, not returned.
func (d *Database) QueryLandRows(ctx context.Context, khewat string) ([]types.RowSpec, []types.RowError, error) {
	khewat = strings.TrimSpace(khewat)
	var args []any
	if khewat != "" {
		args = append(args, khewat)
	}

	start := time.Now()
	rows, err := d.db.QueryContext(ctx, registerQuery(d.config.Table, khewat != ""), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query land register: %w", err)
	}
	defer rows.Close()

	specs, rowErrs, err := scanLandRows(rows)
	if err != nil {
		return nil, nil, err
	}
	d.logger.Debug("land register loaded",
		zap.String("khewat", khewat),
		zap.Int("rows", len(specs)),
		zap.Int("skipped", len(rowErrs)),
		zap.Duration("took", time.Since(start)))
	return specs, rowErrs, nil
}

// rowScanner is the part of *sql.Rows that scanLandRows needs.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanLandRows(rows rowScanner) ([]types.RowSpec, []types.RowError, error) {
	var (
		specs   []types.RowSpec
		rowErrs []types.RowError
		line    int
	)
	for rows.Next() {
		line++
		var (
			khewat, marba, killa, owner, share sql.NullString
			kanal, marla                       sql.NullFloat64
		)
		if err := rows.Scan(&khewat, &marba, &killa, &owner, &kanal, &marla, &share); err != nil {
			return nil, nil, fmt.Errorf("failed to scan land row %d: %w", line, err)
		}
		if !share.Valid || strings.TrimSpace(share.String) == "" {
			rowErrs = append(rowErrs, types.RowError{Line: line, Source: Source, Field: "SHARE_FRACTION", Err: errMissingShare})
			continue
		}
		specs = append(specs, types.RowSpec{
			Khewat:     strings.TrimSpace(khewat.String),
			Marba:      strings.TrimSpace(marba.String),
			Killa:      strings.TrimSpace(killa.String),
			Owner:      strings.TrimSpace(owner.String),
			TotalKanal: kanal.Float64,
			TotalMarla: marla.Float64,
			Share:      share.String,
			Line:       line,
			Source:     Source,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read land register: %w", err)
	}
	return specs, rowErrs, nil
}

// LoadDatabaseConfig loads database configuration from environment variables
func LoadDatabaseConfig() DBConfig {
	// Try to load from .env file first
	loadEnvFile(".env")

	return DBConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvOrDefault("DB_PORT", "1521"),
		Service:        getEnvOrDefault("DB_SERVICE", "XE"),
		Username:       getEnvOrDefault("DB_USERNAME", ""),
		Password:       getEnvOrDefault("DB_PASSWORD", ""),
		WalletLocation: getEnvOrDefault("DB_WALLET_LOCATION", ""),
		Table:          getEnvOrDefault("DB_TABLE", "LAND_SHARES"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
