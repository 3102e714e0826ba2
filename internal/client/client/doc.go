// Package client contains the client-side transport to the CityCare server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): account
//     calls, report CRUD, upvotes and the administrator operations.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects an access token via an interceptor, transparently
//     refreshes expired tokens and maps gRPC status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the CLI,
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every remote failure is a *RemoteError. Common conditions are exposed as
// sentinels callers match with errors.Is: ErrUnavailable, ErrUnauthorized,
// ErrForbidden, ErrNotFound, ErrInvalidArgument, ErrAlreadyUpvoted.
//
// GRPCClient is safe for concurrent use; the offline queue drains through
// the same client the UI uses.
package client
