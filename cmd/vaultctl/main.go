// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-secure-vault/internal/cli"
	"github.com/MKhiriev/go-secure-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	os.Exit(run())
}

func run() int {
	defer memguard.Purge()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.New(cli.Options{
		BuildInfo: models.NewAppBuildInfo(buildVersion, buildDate, buildCommit),
	})
	defer app.Close()

	if err := app.Execute(ctx, os.Args[1:]); err != nil {
		return 1
	}
	return 0
}
