// provision creates or repairs user records directly against the store. It is
// the operator-side companion to the API: seeding the first admin of a fresh
// deployment, force-overwriting a broken record, resetting a credential.
//
// Usage:
//
//	go run ./cmd/provision -action seed -email admin@example.com -password secret
//	go run ./cmd/provision -action seed -email v@example.com -password secret -role vendor -tenant <id>
//	go run ./cmd/provision -action reset-password -email admin@example.com -password newsecret
//	go run ./cmd/provision -action check -email admin@example.com
//
// The database connection comes from the environment (DATABASE_URL or the
// DB_* variables), never from flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vendorflow/vendorflow-api/internal/application/provision"
	"github.com/vendorflow/vendorflow-api/internal/infrastructure/postgres"
	"github.com/vendorflow/vendorflow-api/pkg/config"
	"github.com/vendorflow/vendorflow-api/pkg/identity"
	"github.com/vendorflow/vendorflow-api/pkg/password"
)

func main() {
	var (
		action      = flag.String("action", "seed", "seed | reset-password | check")
		email       = flag.String("email", "", "user email (required)")
		pass        = flag.String("password", "", "password (required for seed and reset-password)")
		role        = flag.String("role", "", "admin | vendor | supplier (seed only, defaults to admin)")
		tenantID    = flag.String("tenant", "", "existing tenant id (seed only, empty mints a new tenant)")
		companyName = flag.String("company", "", "company name (seed only)")
		firstName   = flag.String("first-name", "", "first name (seed only)")
		lastName    = flag.String("last-name", "", "last name (seed only)")
		force       = flag.Bool("force", false, "overwrite an existing record instead of skipping")
	)
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "provision: -email is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "provision: load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		// Connection failures surface here within the connect timeout, with
		// the pool's diagnostics intact for the operator.
		fmt.Fprintf(os.Stderr, "provision: connect to PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	p := provision.NewProvisioner(
		users,
		postgres.NewTxRunner(pool),
		password.New(cfg.Auth.BcryptCost),
		password.New(cfg.Auth.AdminBcryptCost),
	)

	switch *action {
	case "seed":
		if *pass == "" {
			fmt.Fprintln(os.Stderr, "provision: -password is required for seed")
			os.Exit(2)
		}
		res, err := p.SeedUser(ctx, provision.Request{
			Email:       *email,
			Password:    *pass,
			Role:        *role,
			TenantID:    *tenantID,
			CompanyName: *companyName,
			FirstName:   *firstName,
			LastName:    *lastName,
			Force:       *force,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "provision: seed %s: %v\n", *email, err)
			os.Exit(1)
		}
		switch {
		case res.Skipped:
			fmt.Printf("%s already provisioned (tenant %s), skipping; use -force to overwrite\n",
				res.User.Email, res.User.TenantID)
		case res.Created:
			fmt.Printf("created %s (%s) in tenant %s\n", res.User.Email, res.User.Role, res.User.TenantID)
		default:
			fmt.Printf("overwrote %s (%s), tenant %s preserved\n", res.User.Email, res.User.Role, res.User.TenantID)
		}

	case "reset-password":
		if *pass == "" {
			fmt.Fprintln(os.Stderr, "provision: -password is required for reset-password")
			os.Exit(2)
		}
		if err := p.ResetPassword(*email, *pass); err != nil {
			fmt.Fprintf(os.Stderr, "provision: reset password for %s: %v\n", *email, err)
			os.Exit(1)
		}
		fmt.Printf("password reset for %s, lock state cleared\n", *email)

	case "check":
		user, err := users.FindByEmail(identity.NormalizeEmail(*email))
		if err != nil {
			fmt.Fprintf(os.Stderr, "provision: look up %s: %v\n", *email, err)
			os.Exit(1)
		}
		if user == nil {
			fmt.Printf("%s: not found\n", *email)
			os.Exit(1)
		}
		fmt.Printf("%s: role=%s tenant=%s status=%s active=%t attempts=%d locked=%t\n",
			user.Email, user.Role, user.TenantID, user.Status, user.IsActive,
			user.LoginAttempts, user.IsAccountLocked)

	default:
		fmt.Fprintf(os.Stderr, "provision: unknown action %q\n", *action)
		flag.Usage()
		os.Exit(2)
	}
}
