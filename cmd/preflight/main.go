// cmd/preflight/main.go
package main

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/guardian/secure-contact/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	config.LoadDotEnv()
	stage := config.Stage("/etc/stage")
	cfg := config.FromEnv(stage)

	ok("STAGE=" + stage)

	if stage != "DEV" && stage != "CODE" && stage != "PROD" {
		warn("STAGE " + stage + " is not one of DEV, CODE, PROD; parameter paths may not exist.")
	}

	if cfg.Profile != "" {
		home, err := os.UserHomeDir()
		if err == nil {
			if _, err := os.Stat(home + "/.aws/credentials"); err != nil {
				warn("profile " + cfg.Profile + " configured but ~/.aws/credentials is missing.")
			} else {
				ok("AWS profile " + cfg.Profile)
			}
		}
	} else {
		ok("using instance credentials")
	}

	if cfg.Region == "" {
		fail("AWS region is empty.")
	}
	ok("region " + cfg.Region)

	// The probe is useless without a reachable SOCKS proxy.
	conn, err := net.DialTimeout("tcp", cfg.SocksAddr, 3*time.Second)
	if err != nil {
		fail("tor SOCKS proxy unreachable at " + cfg.SocksAddr + " (is tor running?)")
	}
	conn.Close()
	ok("tor SOCKS proxy reachable at " + cfg.SocksAddr)

	if cfg.DynamoEndpoint != "" {
		addr := strings.TrimPrefix(strings.TrimPrefix(cfg.DynamoEndpoint, "http://"), "https://")
		conn, err := net.DialTimeout("tcp", addr, 3*time.Second)
		if err != nil {
			warn("local DynamoDB unreachable at " + cfg.DynamoEndpoint + "; start it before running the monitor.")
		} else {
			conn.Close()
			ok("local DynamoDB reachable at " + cfg.DynamoEndpoint)
		}
	}

	if _, err := os.Stat(cfg.LogDir); err != nil {
		warn("log directory " + cfg.LogDir + " does not exist yet; it will be created on first run.")
	}

	ok("preflight passed")
}
