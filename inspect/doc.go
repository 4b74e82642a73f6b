// Package inspect serves a read-only HTTP view of a registry.
//
//	GET {base}/registrations        all registrations, sorted by type
//	GET {base}/registrations/:type  one registration by type name
//	GET {base}/health               liveness plus registration count
//
// Handlers only read registration metadata; they never resolve, so lazy
// factories are not run by inspection.
package inspect
