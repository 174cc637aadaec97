package types

import "strings"

// SendMode governs whether one chat message covers all repositories or
// each repository gets its own.
type SendMode string

// Supported send modes.
const (
	SendCombined SendMode = "combined"
	SendPerRepo  SendMode = "per_repo"
)

// ParseSendMode normalizes a send mode string, defaulting to combined
// for empty or unknown values.
func ParseSendMode(s string) SendMode {
	switch SendMode(strings.ToLower(strings.TrimSpace(s))) {
	case SendPerRepo:
		return SendPerRepo
	default:
		return SendCombined
	}
}
