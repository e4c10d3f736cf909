// Package middleware adapts [mediaguard.Engine] checks to HTTP handlers.
//
// # Guards
//
//   - [RequireRole] validates the bearer access token and the caller's role.
//   - [RequireDownloadToken] checks the ?token= capability on download routes.
//   - [EchoRequireRole] is RequireRole for echo services.
//
// Invalid, expired and wrong-type tokens answer 401; a valid token with the
// wrong role answers 403; every capability failure answers 403. Response
// bodies never carry the underlying error.
//
// Guards only translate HTTP to Engine calls. They do not parse tokens or
// talk to Redis themselves.
package middleware
