// Package auth provides the authenticated principal abstraction.
//
// A Principal is built once per request from an already-verified claim (the
// authentication layer that checks signatures and sessions lives outside this
// module) and the current role graph. It is an immutable snapshot: the held
// role set and effective permission set are materialized at construction, so
// Is/Has/Can are pure map reads and a request's authorization view cannot
// change mid-flight, even if the role graph is mutated by a late plugin
// registration.
//
// Authentication and authorization are deliberately decoupled: a valid claim
// naming a role the graph no longer recognizes yields an authenticated but
// powerless principal that denies every permission check, rather than a
// construction error.
package auth
