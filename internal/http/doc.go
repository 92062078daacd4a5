// Package http provides HTTP handlers and middleware for the scout
// scheduler API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}.
//     Response: {"token","expires_at"} with the token also surfaced via the
//     `X-Session-Token` header and a `session_token` cookie.
//   - POST /logout: revokes the current session token extracted from the
//     Authorization header or session cookie. Returns 204 No Content and
//     clears the cookie.
//   - GET /badges, POST /badges, GET /badges/{name}, PUT /badges/{name},
//     DELETE /badges/{name}: badge catalogue endpoints exchanging the
//     `badgeDTO` payload defined in badge_handler.go. POST
//     /badges/{name}/complete and POST /badges/{name}/reopen flip a badge's
//     progress in one step.
//   - GET /sessions, POST /sessions, GET /sessions/{id}, DELETE
//     /sessions/{id}: troop diary endpoints exchanging the `sessionDTO`
//     payload defined in session_handler.go. At most one session exists per
//     calendar date.
//   - GET /holidays, POST /holidays, GET /holidays/{id}, DELETE
//     /holidays/{id}: blackout range endpoints exchanging the `holidayDTO`
//     payload defined in holiday_handler.go.
//   - POST /plans: generates session proposals for the requested window,
//     preferences and strategy, optionally attaching an AI summary. POST
//     /plans/commit books accepted proposals into the diary.
//
// Every endpoint except POST /login sits behind the RequireSession
// middleware. Request/response DTOs live alongside their respective handlers
// so tests and documentation share the same ground truth.
package http
