package main

import (
	"context"
	"fmt"
	"os"

	"flightsearch-service/internal/infrastructure/config"
	"flightsearch-service/internal/infrastructure/oauth"
	"flightsearch-service/pkg/logger"
)

// Prints an Amadeus access token for manual API calls, e.g.
// curl -H "Authorization: Bearer $TOKEN" "$AMADEUS_BASE_URL/v1/reference-data/airlines?airlineCodes=BA"
func main() {
	log := logger.NewLogger("warn")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	auth := oauth.NewAmadeusOAuth(cfg.AmadeusClientID, cfg.AmadeusClientSecret, cfg.AmadeusBaseURL, log)
	token, err := auth.FetchToken(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "-json" {
		out, err := auth.TokenToJSON(token)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	fmt.Printf("\nAccess Token: %s\nExpires: %s\n\n", token.AccessToken, token.Expiry.Format("2006-01-02 15:04:05"))
}
