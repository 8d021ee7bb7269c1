// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the
//     memodo auth server: GetSalt, SignUp, SignIn, SignOut, WhoAmI and Ping.
//  2. A gRPC implementation (see GRPCClient) that manages the connection,
//     injects the access token through an interceptor, refreshes an expired
//     token once and maps gRPC status codes to sentinel errors.
//  3. Local store bootstrap (InitDatabase, RunMigrations, NewRepositories)
//     wiring the SQLite database and applying the embedded goose migrations.
//
// # Error Handling
//
// Transport conditions are reported as sentinel errors matched with
// errors.Is: ErrUnavailable, ErrRateLimited, plus common.ErrorUnauthorized,
// common.ErrAlreadyExists and common.ErrValidation.
package client
