// Command adduser creates an account directly in the database.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fintrack/backend/auth"
	"github.com/fintrack/backend/config"
	"github.com/fintrack/backend/db"
	"github.com/fintrack/backend/logger"
	"github.com/fintrack/backend/models"
	"github.com/fintrack/backend/validate"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	defaults := config.FromEnv()

	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address used to log in")
	passwordFlag := fs.String("password", "", "Password (prompted for when omitted)")
	driver := fs.String("driver", defaults.DBDriver, "Database driver: postgres or sqlite")
	dsn := fs.String("dsn", defaults.DatabaseURL, "Database connection string or SQLite file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: adduser -name <name> -email <email> [-password <password>] [-driver <driver>] [-dsn <dsn>]")
		fs.PrintDefaults()
		return errors.New("missing required flags: name, email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	in, res := validate.Register(models.RegisterInput{Name: *name, Email: *email, Password: password})
	if !res.OK() {
		var problems []string
		for _, e := range res.Errors {
			problems = append(problems, e.Field+" "+e.Message)
		}
		return fmt.Errorf("invalid input: %s", strings.Join(problems, "; "))
	}

	ctx := context.Background()
	store, err := db.NewStorage(ctx, db.Options{
		Driver: *driver,
		DSN:    *dsn,
		Logger: logger.New(logger.Config{Level: "warn", Output: stderr}),
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	existing, err := store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("user %s already exists", in.Email)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := store.CreateUser(ctx, in.Name, in.Email, hash)
	if errors.Is(err, db.ErrUniqueViolation) {
		return fmt.Errorf("user %s already exists", in.Email)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created with ID %d\n", user.Email, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Piped input.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
