package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/sbgadvisor/WellNavigator3/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	s := &PostgresStorage{db: db}
	if err := s.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}
	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

func (s *PostgresStorage) AppendEvent(ctx context.Context, event Event) error {
	query := `
		INSERT INTO transcript_events (id, chat_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query,
		event.ID, event.ChatID, event.Role, event.Content, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("error appending event: %w", err)
	}
	return nil
}

func (s *PostgresStorage) ListEvents(ctx context.Context, chatID int64) ([]Event, error) {
	query := `
		SELECT id, chat_id, role, content, created_at
		FROM transcript_events
		WHERE chat_id = $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.ChatID, &e.Role, &e.Content, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *PostgresStorage) SaveAppointment(ctx context.Context, chatID int64, appt models.Appointment) error {
	query := `
		INSERT INTO appointments (id, chat_id, date, time, provider, location, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id, chat_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		appt.ID, chatID, appt.Date, appt.Time, appt.Provider, appt.Location, appt.Type, time.Now())
	if err != nil {
		return fmt.Errorf("error saving appointment: %w", err)
	}
	return nil
}

func (s *PostgresStorage) ListUpcomingAppointments(ctx context.Context, within time.Duration) ([]ChatAppointment, error) {
	query := `
		SELECT id, chat_id, date, time, provider, location, type
		FROM appointments
		WHERE date >= NOW() AND date <= $1
		ORDER BY date ASC`

	rows, err := s.db.QueryContext(ctx, query, time.Now().Add(within))
	if err != nil {
		return nil, fmt.Errorf("error querying appointments: %w", err)
	}
	defer rows.Close()

	var out []ChatAppointment
	for rows.Next() {
		var ca ChatAppointment
		if err := rows.Scan(&ca.Appointment.ID, &ca.ChatID, &ca.Appointment.Date,
			&ca.Appointment.Time, &ca.Appointment.Provider,
			&ca.Appointment.Location, &ca.Appointment.Type); err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		out = append(out, ca)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
