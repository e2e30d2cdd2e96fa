package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	base := Fingerprint("twitter", "alice", 1700000000000, "hello world")

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, base, Fingerprint("twitter", "alice", 1700000000000, "hello world"))
	})

	t.Run("sensitive to each component", func(t *testing.T) {
		assert.NotEqual(t, base, Fingerprint("instagram", "alice", 1700000000000, "hello world"))
		assert.NotEqual(t, base, Fingerprint("twitter", "bob", 1700000000000, "hello world"))
		assert.NotEqual(t, base, Fingerprint("twitter", "alice", 1700000000001, "hello world"))
		assert.NotEqual(t, base, Fingerprint("twitter", "alice", 1700000000000, "other text"))
	})

	t.Run("only the text prefix participates", func(t *testing.T) {
		long := make([]byte, 200)
		for i := range long {
			long[i] = 'a'
		}
		a := Fingerprint("twitter", "alice", 1, string(long)+"tail one")
		b := Fingerprint("twitter", "alice", 1, string(long)+"tail two")
		assert.Equal(t, a, b)
	})
}

func TestPostID(t *testing.T) {
	fp := Fingerprint("twitter", "alice", 1700000000000, "hello")

	assert.Equal(t, fp[:12]+"-0", PostID(fp, 0))
	assert.Equal(t, fp[:12]+"-17", PostID(fp, 17))
	assert.NotEqual(t, PostID(fp, 0), PostID(fp, 1))

	t.Run("short fingerprint used whole", func(t *testing.T) {
		assert.Equal(t, "abc-2", PostID("abc", 2))
	})
}
