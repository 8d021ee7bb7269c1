// Package common contains shared constants and sentinel errors used across
// memodo components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// MinLockPasswordLength is the shortest password accepted when locking a note.
const MinLockPasswordLength = 4
