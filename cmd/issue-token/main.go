// Command issue-token prints a signed bearer token for calling the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"bank-account-service/config"
	"bank-account-service/internal/service"
)

func main() {
	subject := flag.String("subject", "", "token subject, e.g. teller-1")
	role := flag.String("role", "teller", "role claim")
	configPath := flag.String("config", "", "path to a config file (optional)")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "issue-token: -subject is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	token, expiresAt, err := tokenSvc.Generate(*subject, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format(time.RFC3339))
}
