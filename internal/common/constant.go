// Package common contains constants, domain enumerations and sentinel errors
// shared by the CityCare client and server.
package common

// AccessTokenHeaderName is the gRPC metadata key carrying the access token on
// outbound requests.
const AccessTokenHeaderName = "access_token"

// MaxTitleLength bounds the title of a report.
const MaxTitleLength = 120

// AuditLogRetention is the number of newest audit rows kept by the server.
const AuditLogRetention = 1000
