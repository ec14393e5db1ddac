// Command createsuperuser bootstraps an ADMIN account from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/biat-it/testmanager/pkg/accounts"
	"github.com/biat-it/testmanager/pkg/config"
	pgrepo "github.com/biat-it/testmanager/pkg/repository/postgres"
	"github.com/biat-it/testmanager/pkg/storage/postgres"
)

func main() {
	var (
		matricule  = flag.String("matricule", "", "4-digit matricule of the superuser")
		firstName  = flag.String("first-name", "", "first name")
		lastName   = flag.String("last-name", "", "last name")
		department = flag.String("department", "", "department (optional)")
	)
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	password, err := promptPassword()
	if err != nil {
		log.Fatalf("read password: %v", err)
	}

	ctx := context.Background()
	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pool.Close()

	svc := accounts.NewService(pgrepo.NewAccountRepository(pool))
	a, err := svc.CreateSuperuser(ctx, accounts.CreateInput{
		Matricule:  *matricule,
		FirstName:  *firstName,
		LastName:   *lastName,
		Password:   password,
		Department: *department,
	})
	if err != nil {
		var verr *accounts.ValidationError
		switch {
		case errors.As(err, &verr):
			log.Fatalf("invalid %s: %s", verr.Field, verr.Message)
		case errors.Is(err, accounts.ErrDuplicateMatricule), errors.Is(err, accounts.ErrDuplicateEmail):
			log.Fatalf("account already exists: %v", err)
		default:
			log.Fatalf("create superuser: %v", err)
		}
	}

	fmt.Printf("superuser %s (%s) created\n", a.Matricule, a.Email)
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Password (again): ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(first), nil
}
