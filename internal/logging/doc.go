// Package logging provides the Logger used by the command-line runners.
// The ply, api and plypack packages never log.
package logging
