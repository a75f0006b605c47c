// Command token mints an access token for local testing against a running engine.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/config"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id placed in the token")
	employeeID := flag.String("employee", "", "employee id of the caller, empty for none")
	role := flag.String("role", string(authz.RoleEmployee), "owner, manager, employee or system")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}
	if _, ok := authz.RolePolicies[authz.Role(*role)]; !ok {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	var emp *string
	if *employeeID != "" {
		emp = employeeID
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*userID, emp, authz.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
