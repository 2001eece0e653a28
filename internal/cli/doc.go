// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli is the vaultctl command tree.
//
// The root command loads the client configuration from env, flags and an
// optional JSON file, builds the logger, the response cache, the transport,
// the identity provider and the session provider, and hands them to
// service.NewClientServices. Subcommands then drive the vault client through
// service.Await.
//
// Credentials are a key-deriving key kept in a local file (see keygen) and
// the vault password, read from a masked prompt or, with --password-stdin,
// one per line from standard input.
package cli
