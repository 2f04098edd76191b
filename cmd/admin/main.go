package main

import (
	"flag"
	"fmt"
	"time"

	"chipstack-server/internal/jwt"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var command = flag.String("c", "token", "specifies the command (token)")
var playerID = flag.Int64("player", 0, "the player ID the token is issued to")
var ttl = flag.Duration("ttl", time.Hour*24, "how long the token is valid, zero never expires")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	switch *command {
	case "token":
		if *playerID <= 0 {
			logrus.Fatal("-player is required")
		}

		if err := jwt.LoadKeys(); err != nil {
			logrus.WithError(err).Fatal("could not load keys")
		}

		token, err := jwt.Sign(*playerID, *ttl)
		if err != nil {
			logrus.WithError(err).Fatal("could not sign token")
		}

		fmt.Println(token)
	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}
