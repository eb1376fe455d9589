// Package testutils holds test helpers for building note trees and git
// repositories.
package testutils
