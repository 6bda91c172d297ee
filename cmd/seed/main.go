// Command seed provisions the initial admin account. Admins cannot be
// created through signup, so a fresh deployment runs this once.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	autherrors "github.com/Podhive/MVP/internal/auth/errors"
	"github.com/Podhive/MVP/internal/auth/repository"
	"github.com/Podhive/MVP/pkg/config"
	"github.com/Podhive/MVP/pkg/model"
)

const JobName = "seed"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		cfg.Log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	if len(password) < 8 {
		cfg.Log.Fatal("ADMIN_PASSWORD must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		cfg.Log.Fatal("Failed to hash admin password", "error", err)
	}

	admin := &model.User{
		Name:       "Administrator",
		Email:      email,
		Password:   string(hashed),
		UserType:   model.UserTypeAdmin,
		IsVerified: true,
	}

	users := repository.NewMongoUserRepository(cfg)
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, autherrors.ErrDuplicateEmail) {
			cfg.Log.Info("Admin account already exists", "email", email)
			return
		}
		cfg.Log.Fatal("Failed to create admin account", "error", err)
	}

	cfg.Log.Info("Admin account created", "id", admin.ID, "email", email)
}
