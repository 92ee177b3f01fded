// Package goLogin is a terminal-oriented multi-factor login engine.
//
// It stores users in a fixed-capacity durable credential store, verifies
// passwords through a pluggable hasher with a constant-time digest compare,
// tracks per-identity failure counters that lock an account after repeated
// password or one-time-passcode failures, and sequences the login state
// machine: identity resolution, lock check, password verification, OTP
// issuance (or reuse of a pre-issued code) and an OTP confirmation loop.
//
// Engines are constructed through the Builder:
//
//	engine, err := goLogin.New().
//		WithConfig(cfg).
//		WithAuditSink(sink).
//		Build()
//
// Every meaningful transition emits an AuditEvent through an asynchronous
// dispatcher. OTP values never appear in emitted events.
//
// The default Fold hasher reproduces a legacy unsalted digest and is NOT a
// security-grade password hash; production deployments should plug in the
// provided Argon2 hasher instead. The engine contracts are identical for
// either.
package goLogin
