// Package cli provides the interactive SenseLib command-line client.
//
// It wires configuration, the local store, the authenticated API client, the
// download gate and the application services behind a REPL. Typical flow:
// resume a persisted session (or prompt for credentials), then browse the
// library, manage favourites and download documents against the points
// balance.
//
// Key features:
//   - Login / Logout, profile and password management
//   - Paged document search, favourites
//   - Entitlement-gated downloads with a local points balance
//   - Catalogue administration for admin accounts
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
