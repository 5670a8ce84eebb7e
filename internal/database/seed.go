package database

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// accraCentralBoundary is a small demo polygon around central Accra.
const accraCentralBoundary = `{"type":"Polygon","coordinates":[[[-0.25,5.53],[-0.13,5.53],[-0.13,5.65],[-0.25,5.65],[-0.25,5.53]]]}`

func SeedUsers(db *sqlx.DB) error {
	// Check if users already exist
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding test users...")

	collectorPassword, err := bcrypt.GenerateFromPassword([]byte("collector123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	supervisorPassword, err := bcrypt.GenerateFromPassword([]byte("supervisor123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []map[string]interface{}{
		{
			"id":       uuid.New().String(),
			"email":    "collector@borla.app",
			"password": string(collectorPassword),
			"name":     "Kofi Collector",
			"role":     "collector",
		},
		{
			"id":       uuid.New().String(),
			"email":    "supervisor@borla.app",
			"password": string(supervisorPassword),
			"name":     "Ama Supervisor",
			"role":     "supervisor",
		},
		{
			"id":       uuid.New().String(),
			"email":    "admin@borla.app",
			"password": string(adminPassword),
			"name":     "Admin User",
			"role":     "admin",
		},
	}

	for _, user := range users {
		query := `
			INSERT INTO users (id, email, password, name, role)
			VALUES (:id, :email, :password, :name, :role)
		`
		if _, err := db.NamedExec(query, user); err != nil {
			return err
		}
		log.Printf("  ✓ Created user: %s (%s)", user["email"], user["role"])
	}

	// Company, supervisor and collector profiles behind the seeded users
	companyID := uuid.New().String()
	if _, err := db.Exec(`INSERT INTO companies (id, name, city) VALUES ($1, 'Borla Waste Services', 'Accra')`, companyID); err != nil {
		return err
	}
	if _, err := db.Exec(`
		INSERT INTO supervisors (id, user_id, name, company_id)
		VALUES ($1, $2, 'Ama Supervisor', $3)`,
		uuid.New().String(), users[1]["id"], companyID); err != nil {
		return err
	}
	if _, err := db.Exec(`
		INSERT INTO collectors (id, user_id, name, company_id)
		VALUES ($1, $2, 'Kofi Collector', $3)`,
		uuid.New().String(), users[0]["id"], companyID); err != nil {
		return err
	}

	log.Println("✓ Successfully seeded test users")
	log.Println("  📧 Collector:  collector@borla.app / collector123")
	log.Println("  📧 Supervisor: supervisor@borla.app / supervisor123")
	log.Println("  📧 Admin:      admin@borla.app / admin123")
	return nil
}

func SeedZones(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM zones"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Zones already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo zone and clients...")

	zoneID := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO zones (id, zone_code, name, city, zone_type, boundary, center_latitude, center_longitude)
		VALUES ($1, 'ACC-01', 'Accra Central', 'Accra', 'mixed', $2, 5.59, -0.19)`,
		zoneID, accraCentralBoundary)
	if err != nil {
		return err
	}

	clients := []map[string]interface{}{
		{"name": "Osu Market Stall", "property_type": "commercial", "latitude": 5.5560, "longitude": -0.1740},
		{"name": "Adabraka Household", "property_type": "residential", "latitude": 5.5630, "longitude": -0.2130},
		{"name": "Ridge Clinic", "property_type": "other", "latitude": 5.5690, "longitude": -0.1960},
		{"name": "Asylum Down Flats", "property_type": "residential", "latitude": 5.5720, "longitude": -0.2020},
	}

	for _, c := range clients {
		_, err := db.Exec(`
			INSERT INTO clients (id, name, property_type, latitude, longitude, zone_id)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), c["name"], c["property_type"], c["latitude"], c["longitude"], zoneID)
		if err != nil {
			return err
		}
	}

	log.Printf("✓ Successfully seeded zone ACC-01 with %d clients", len(clients))
	return nil
}
