package service

import (
	"math/rand/v2"
	"strings"

	"github.com/newwebie/admin-apontamentos/internal/sheet"
)

// ── synthetic row IDs ──

const (
	idDigits  = "0123456789"
	idLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// generateRowID produces a five-character token of 3 digits and 2
// uppercase letters in shuffled order, unique against taken. Uniqueness
// is only required within one ledger; on the few hundred rows these
// sheets carry a collision retry is all it takes.
func generateRowID(taken map[string]bool) string {
	for {
		id := randomRowID()
		if !taken[id] {
			return id
		}
	}
}

func randomRowID() string {
	chars := make([]byte, 5)
	for i := 0; i < 3; i++ {
		chars[i] = idDigits[rand.IntN(len(idDigits))]
	}
	for i := 3; i < 5; i++ {
		chars[i] = idLetters[rand.IntN(len(idLetters))]
	}
	rand.Shuffle(len(chars), func(i, j int) {
		chars[i], chars[j] = chars[j], chars[i]
	})
	return string(chars)
}

// takenIDs collects the non-blank values of one column into a set.
func takenIDs(rows []sheet.Row, col string) map[string]bool {
	taken := make(map[string]bool, len(rows))
	for _, r := range rows {
		if id := strings.TrimSpace(r[col]); id != "" {
			taken[id] = true
		}
	}
	return taken
}
