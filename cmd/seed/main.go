// Command seed creates an active user account directly in the database,
// bypassing the activation mail flow. Useful for fresh environments.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/samuelireke/hoaxify/internal/server/config"
	"github.com/samuelireke/hoaxify/internal/server/models"
	"github.com/samuelireke/hoaxify/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s\n> ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := repomanager.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	reader := bufio.NewReader(os.Stdin)

	username, err := prompt(reader, "Username")
	if err != nil {
		log.Fatalf("input error: %v", err)
	}
	email, err := prompt(reader, "E-mail")
	if err != nil {
		log.Fatalf("input error: %v", err)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("input error: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("error hashing password: %v", err)
	}

	rm := &repomanager.PostgresRepositoryManager{}
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	if _, err := rm.Users(db).Create(ctx, user); err != nil {
		log.Fatalf("error creating user: %v", err)
	}

	fmt.Printf("Created active user %s (%s)\n", username, user.ID)
}
