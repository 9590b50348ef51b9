// Package artifact persists and loads Attestation, Secrets, and
// Presentation blobs under well-known names derived from a provider
// scope string (spec §4.7, §6 "Persistent artifacts").
package artifact

import (
	"fmt"
	"path/filepath"
)

const (
	kindAttestation  = "attestation"
	kindSecrets      = "secrets"
	kindPresentation = "presentation"
	kindLock         = "lock"
)

func path(dir, scope, kind string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s", scope, kind))
}

// AttestationPath returns <dir>/<scope>.attestation.
func AttestationPath(dir, scope string) string { return path(dir, scope, kindAttestation) }

// SecretsPath returns <dir>/<scope>.secrets.
func SecretsPath(dir, scope string) string { return path(dir, scope, kindSecrets) }

// PresentationPath returns <dir>/<scope>.presentation.
func PresentationPath(dir, scope string) string { return path(dir, scope, kindPresentation) }
