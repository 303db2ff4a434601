package hash

// Hash produces a deterministic digest of a string, suitable as a lookup key.
type Hash interface {
	Hash(str string) ([]byte, error)
}
