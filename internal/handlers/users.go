package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"borla-backend/internal/models"
	"borla-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func CreateUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Email == "" || req.Password == "" || req.Name == "" {
			utils.Error(w, http.StatusBadRequest, "email, password and name are required")
			return
		}
		if !models.ValidRole(req.Role) {
			utils.Error(w, http.StatusBadRequest, "invalid role")
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		now := time.Now().Unix()
		user := models.User{
			ID:        uuid.New().String(),
			Email:     req.Email,
			Password:  string(hashed),
			Name:      req.Name,
			Role:      req.Role,
			CreatedAt: now,
			UpdatedAt: now,
		}

		_, err = db.Exec(`
			INSERT INTO users (id, email, password, name, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			user.ID, user.Email, user.Password, user.Name, user.Role, now, now)
		if err != nil {
			utils.Error(w, http.StatusConflict, "Failed to create user (email may already exist)")
			return
		}

		log.Printf("✅ Created user %s (%s)", user.Email, user.Role)
		utils.Created(w, user.ToUserResponse())
	}
}

func GetUsers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users := []models.User{}
		if err := db.Select(&users, `SELECT * FROM users ORDER BY created_at DESC`); err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to get users")
			return
		}

		responses := make([]models.UserResponse, 0, len(users))
		for i := range users {
			responses = append(responses, users[i].ToUserResponse())
		}
		utils.Success(w, responses)
	}
}

func GetUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var user models.User
		if err := db.Get(&user, `SELECT * FROM users WHERE id = $1`, id); err != nil {
			utils.Error(w, http.StatusNotFound, "User not found")
			return
		}
		utils.Success(w, user.ToUserResponse())
	}
}
