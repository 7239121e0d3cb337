// Package http provides HTTP handlers and middleware for the goal tracker API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"email","password"}.
//     Response: {"token","expires_at","principal":{"user_id","is_admin"}} with
//     the token also surfaced via the `X-Session-Token` header and a
//     `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session token extracted
//     from the Authorization header or session cookie. Returns 204 No Content
//     and clears the cookie.
//   - GET /users, POST /users, GET/PUT/DELETE /users/{id}: account management
//     endpoints exchanging the `userDTO` payload defined in user_handler.go.
//     Registration (POST) is open; listing requires admin privileges.
//   - GET /communities, POST /communities, GET/PUT/DELETE /communities/{id}:
//     community catalog endpoints. Mutating an existing community requires
//     admin privileges.
//   - GET /goals, POST /goals, GET/PUT/DELETE /goals/{id}: goal management
//     endpoints exchanging the `goalDTO` payload defined in goal_handler.go.
//   - GET /actionables?goal_id=..., POST /actionables,
//     GET/PUT/DELETE /actionables/{id}, and the lifecycle operations
//     POST /actionables/{id}/pause, POST /actionables/{id}/resume,
//     POST /actionables/{id}/archive.
//   - POST /completions, DELETE /completions/{id}: per-occurrence completion
//     state.
//   - GET /calendar?start=...&end=...: the materialized event list for a
//     range; bounds are RFC 3339 instants. GET /calendar/feed.ics renders the
//     same range as an iCalendar document.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
