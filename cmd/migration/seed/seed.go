package seed

import (
	"context"
	"errors"
	"xrayserver/config"
	"xrayserver/internal/logger"
	"xrayserver/internal/repositories"

	. "xrayserver/internal/models"
)

// Seed adds development accounts for each role. Safe to rerun, existing
// usernames are skipped.
func Seed(ctx context.Context, userRepo repositories.UserRepository, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	users := []User{
		{
			Username: "dr.azlan@uitm.edu.my",
			Password: "password",
			Role:     RoleDoctor,
			FullName: "Dr. Azlan Hashim",
		}, {
			Username: "dr.siti@uitm.edu.my",
			Password: "password",
			Role:     RoleDoctor,
			FullName: "Dr. Siti Rahmah",
		}, {
			Username: "faiz.xray@uitm.edu.my",
			Password: "password",
			Role:     RoleRadiographer,
			FullName: "Faiz Rahman",
		},
	}

	for _, user := range users {
		log.Info("Seeding user", "username", user.Username, "role", user.Role)
		if err := userRepo.Add(ctx, user); err != nil {
			if errors.Is(err, ErrDuplicateIdentity) {
				log.Info("User already exists", "username", user.Username)
				continue
			}
			log.Er("failed to create user", err, "username", user.Username)
		}
	}

	return nil
}
