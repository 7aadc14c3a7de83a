package postgres

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/config"
)

var DB_Status bool

func ConnectAndCreateDB(cfg config.PostgresConfig) (*sqlx.DB, error) {
	defaultConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	defaultDB, err := sql.Open("postgres", defaultConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to default postgres db: %w", err)
	}
	defer defaultDB.Close()

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	err = defaultDB.QueryRow(checkQuery, cfg.DBname).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		createQuery := fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.DBname)
		_, err = defaultDB.Exec(createQuery)
		if err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", cfg.DBname, err)
		}
		log.Printf("Database '%s' created", cfg.DBname)
	}

	targetConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBname)

	db, err := sqlx.Connect("postgres", targetConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping target database: %w", err)
	}

	if err := initSchema(db); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	DB_Status = true

	return db, nil
}

func RetryConnectOnFailed(waitAmount time.Duration, db **sqlx.DB, cfg config.PostgresConfig) {
	if DB_Status {
		log.Printf("false database lost connection alert! abort retry")
		return
	}

	newDB, err := ConnectAndCreateDB(cfg)
	if err == nil {
		*db = newDB
		log.Printf("database retry connection successfully")
		return
	}
	log.Printf("failed to retry connect database: %s, next retry in %v", err, waitAmount)
	time.Sleep(waitAmount)

	RetryConnectOnFailed(waitAmount, db, cfg)
}

func initSchema(db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS auth_users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY REFERENCES auth_users(id) ON DELETE CASCADE,
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('admin','expert','farmer')),
			status TEXT NOT NULL CHECK (status IN ('pending','approved','rejected')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS leaf_disease_scans (
			id BIGSERIAL PRIMARY KEY,
			scan_uuid UUID NOT NULL UNIQUE,
			farmer_id UUID NOT NULL,
			farm_id UUID,
			image_url TEXT NOT NULL,
			disease_detected TEXT NOT NULL,
			solution TEXT,
			recommendation TEXT,
			status TEXT NOT NULL DEFAULT 'Pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS fruit_ripeness_scans (
			id BIGSERIAL PRIMARY KEY,
			scan_uuid UUID NOT NULL UNIQUE,
			farmer_id UUID NOT NULL,
			farm_id UUID,
			image_url TEXT NOT NULL,
			ripeness_stage TEXT NOT NULL,
			harvest_recommendation TEXT,
			status TEXT NOT NULL DEFAULT 'Pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS validation_history (
			id BIGSERIAL PRIMARY KEY,
			scan_id UUID NOT NULL,
			scan_type TEXT NOT NULL,
			expert_id UUID NOT NULL,
			ai_prediction TEXT NOT NULL,
			expert_validation TEXT,
			expert_comment TEXT,
			status TEXT NOT NULL CHECK (status IN ('Validated','Corrected')),
			validated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS disease_info (
			disease_id TEXT PRIMARY KEY,
			disease_name TEXT NOT NULL,
			description_en TEXT NOT NULL DEFAULT '',
			description_bi TEXT NOT NULL DEFAULT '',
			symptoms_en TEXT NOT NULL DEFAULT '',
			symptoms_bi TEXT NOT NULL DEFAULT '',
			treatment_en TEXT NOT NULL DEFAULT '',
			treatment_bi TEXT NOT NULL DEFAULT '',
			products_en TEXT NOT NULL DEFAULT '',
			products_bi TEXT NOT NULL DEFAULT '',
			prevention_en TEXT NOT NULL DEFAULT '',
			prevention_bi TEXT NOT NULL DEFAULT '',
			last_updated_by TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS notification_read_state (
			user_id UUID PRIMARY KEY,
			read_scan_ids JSONB NOT NULL DEFAULT '[]',
			read_user_ids JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_validation_history_scan ON validation_history (scan_id)`,
		`CREATE INDEX IF NOT EXISTS idx_leaf_scans_status ON leaf_disease_scans (status)`,
		`CREATE INDEX IF NOT EXISTS idx_fruit_scans_status ON fruit_ripeness_scans (status)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
