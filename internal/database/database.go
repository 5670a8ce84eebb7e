package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to database...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Printf("❌ Database connection failed: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ Database ping failed: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection successful")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('client', 'collector', 'supervisor', 'admin')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create companies table
		`CREATE TABLE IF NOT EXISTS companies (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			city TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create zones table
		`CREATE TABLE IF NOT EXISTS zones (
			id TEXT PRIMARY KEY,
			zone_code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT,
			city TEXT NOT NULL,
			zone_type TEXT NOT NULL DEFAULT 'residential',
			boundary TEXT NOT NULL,
			center_latitude DOUBLE PRECISION NOT NULL,
			center_longitude DOUBLE PRECISION NOT NULL,
			service_fee_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1.0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create supervisors table
		`CREATE TABLE IF NOT EXISTS supervisors (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			company_id TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE SET NULL
		)`,

		// Create collectors table
		`CREATE TABLE IF NOT EXISTS collectors (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			phone TEXT,
			company_id TEXT,
			total_collections INT NOT NULL DEFAULT 0,
			incentive_balance DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_known_latitude DOUBLE PRECISION,
			last_known_longitude DOUBLE PRECISION,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE SET NULL
		)`,

		// Create clients table
		`CREATE TABLE IF NOT EXISTS clients (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			name TEXT NOT NULL,
			phone TEXT,
			property_type TEXT NOT NULL DEFAULT 'residential' CHECK(property_type IN ('residential', 'commercial', 'other')),
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			zone_id TEXT,
			segregation_compliance_percent DOUBLE PRECISION NOT NULL DEFAULT 100,
			wallet_balance DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL,
			FOREIGN KEY (zone_id) REFERENCES zones(id) ON DELETE SET NULL
		)`,

		// Create ondemand_requests table
		`CREATE TABLE IF NOT EXISTS ondemand_requests (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			collector_id TEXT,
			pickup_date TEXT NOT NULL,
			pickup_time_slot TEXT NOT NULL DEFAULT '',
			address_line1 TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			bag_count INT NOT NULL DEFAULT 1,
			bin_size_liters INT,
			waste_type TEXT NOT NULL DEFAULT 'general',
			quoted_price DOUBLE PRECISION,
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'confirmed', 'assigned', 'in_progress', 'completed', 'suspected', 'cancelled', 'rejected')),
			requested_at BIGINT NOT NULL,
			accepted_at BIGINT,
			completed_at BIGINT,
			cancelled_at BIGINT,
			cancel_reason TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
			FOREIGN KEY (collector_id) REFERENCES collectors(id) ON DELETE SET NULL
		)`,

		// Create scheduled_requests table
		`CREATE TABLE IF NOT EXISTS scheduled_requests (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			company_id TEXT,
			collector_id TEXT,
			pickup_date TEXT NOT NULL,
			pickup_time_slot TEXT NOT NULL DEFAULT '',
			recurrence TEXT CHECK(recurrence IS NULL OR recurrence IN ('daily', 'weekly', 'monthly')),
			address_line1 TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			waste_type TEXT NOT NULL DEFAULT 'general',
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'confirmed', 'assigned', 'in_progress', 'completed', 'suspected', 'cancelled', 'rejected')),
			requested_at BIGINT NOT NULL,
			completed_at BIGINT,
			cancelled_at BIGINT,
			cancel_reason TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
			FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE SET NULL,
			FOREIGN KEY (collector_id) REFERENCES collectors(id) ON DELETE SET NULL
		)`,

		// Create routes table
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			zone_id TEXT NOT NULL,
			supervisor_id TEXT NOT NULL,
			collector_id TEXT NOT NULL,
			route_date TEXT NOT NULL,
			start_time TEXT,
			end_time TEXT,
			actual_start BIGINT,
			actual_end BIGINT,
			completion_percent INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'assigned' CHECK(status IN ('draft', 'assigned', 'in_progress', 'completed', 'cancelled')),
			total_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
			estimated_duration_minutes DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE,
			FOREIGN KEY (zone_id) REFERENCES zones(id) ON DELETE CASCADE,
			FOREIGN KEY (supervisor_id) REFERENCES supervisors(id) ON DELETE CASCADE,
			FOREIGN KEY (collector_id) REFERENCES collectors(id) ON DELETE CASCADE
		)`,

		// One live route per collector per date. Cancelled routes do not
		// count, so a replacement can be created after a cancellation.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_routes_collector_date_live
			ON routes(collector_id, route_date) WHERE status <> 'cancelled'`,

		// Create route_stops table
		`CREATE TABLE IF NOT EXISTS route_stops (
			id TEXT PRIMARY KEY,
			route_id TEXT NOT NULL,
			ondemand_request_id TEXT,
			scheduled_request_id TEXT,
			client_id TEXT,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			stop_order INT NOT NULL,
			expected_minutes INT NOT NULL DEFAULT 7,
			actual_start BIGINT,
			actual_end BIGINT,
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'in_progress', 'completed', 'skipped', 'failed')),
			notes TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE CASCADE,
			FOREIGN KEY (ondemand_request_id) REFERENCES ondemand_requests(id) ON DELETE SET NULL,
			FOREIGN KEY (scheduled_request_id) REFERENCES scheduled_requests(id) ON DELETE SET NULL,
			FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE SET NULL,
			CHECK (stop_order >= 1),
			CHECK (ondemand_request_id IS NULL OR scheduled_request_id IS NULL)
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_route_stops_route_order
			ON route_stops(route_id, stop_order)`,

		// Create collection_records table
		`CREATE TABLE IF NOT EXISTS collection_records (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			collector_id TEXT,
			route_id TEXT,
			route_stop_id TEXT,
			collection_type TEXT NOT NULL DEFAULT 'scheduled' CHECK(collection_type IN ('scheduled', 'on_demand', 'emergency')),
			scheduled_date TEXT NOT NULL,
			collection_start BIGINT,
			collection_end BIGINT,
			collected_at BIGINT,
			bag_count INT NOT NULL DEFAULT 0,
			bin_size_liters INT,
			estimated_volume_liters DOUBLE PRECISION,
			waste_type TEXT NOT NULL DEFAULT 'general',
			payment_method TEXT NOT NULL DEFAULT 'later' CHECK(payment_method IN ('cash', 'momo', 'bank', 'later')),
			amount_paid DOUBLE PRECISION NOT NULL DEFAULT 0,
			photo_before_url TEXT,
			photo_after_url TEXT,
			segregation_score INT CHECK(segregation_score IS NULL OR (segregation_score >= 0 AND segregation_score <= 100)),
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'in_progress', 'completed', 'skipped', 'cancelled', 'rejected')),
			gps_latitude DOUBLE PRECISION,
			gps_longitude DOUBLE PRECISION,
			notes TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
			FOREIGN KEY (collector_id) REFERENCES collectors(id) ON DELETE SET NULL,
			FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE SET NULL,
			FOREIGN KEY (route_stop_id) REFERENCES route_stops(id) ON DELETE SET NULL
		)`,

		// Create FCM tokens table
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_clients_zone_id ON clients(zone_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collectors_user_id ON collectors(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_supervisors_user_id ON supervisors(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ondemand_requests_client_id ON ondemand_requests(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ondemand_requests_status ON ondemand_requests(status)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_requests_client_id ON scheduled_requests(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_requests_status ON scheduled_requests(status)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_requests_pickup_date ON scheduled_requests(pickup_date)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_collector_id ON routes(collector_id)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_zone_id ON routes(zone_id)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_status ON routes(status)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_route_date ON routes(route_date)`,
		`CREATE INDEX IF NOT EXISTS idx_route_stops_route_id ON route_stops(route_id)`,
		`CREATE INDEX IF NOT EXISTS idx_route_stops_status ON route_stops(status)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_records_client_id ON collection_records(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_records_route_id ON collection_records(route_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_records_route_stop_id ON collection_records(route_stop_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_records_scheduled_date ON collection_records(scheduled_date)`,
		`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_user_id ON fcm_tokens(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("✓ Database migrations completed")
	return nil
}
