package id

import "crypto/rand"

// New returns a 16-character lowercase alphanumeric identifier.
// Used for all stored entities (subjects, topics, decks, questions).
func New() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	for i := range b {
		b[i] = alphabet[b[i]%byte(len(alphabet))]
	}
	return string(b)
}
