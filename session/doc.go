// Package session holds the single authoritative record of "who is logged in"
// plus the transient per-flow state that drives the authentication UI.
//
// # State machine
//
// All mutation goes through [Store.Apply] with a closed set of [Transition]
// messages. Direct field mutation is impossible from outside the package:
// [Store.Snapshot] returns a copy and transitions are the only writers. Each
// transition is applied atomically under one lock, so no observer ever sees a
// half-applied flow step.
//
// # Epoch
//
// Logout bumps an epoch counter. Responses that rehydrate the user (session
// fetch, cache rehydration) carry the epoch observed when their request
// started and are discarded if the epoch has moved since, so a slow session
// fetch can never resurrect a user after an explicit logout.
//
// # Architecture boundaries
//
// This package owns state and transitions only. It does NOT issue network
// calls, touch the credential cache, or validate input — those
// responsibilities belong to the Engine.
package session
