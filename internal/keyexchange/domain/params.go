package domain

// Params is the process-wide Diffie-Hellman domain shared by every client:
// a safe prime and its generator, stored as big-endian bytes. Generated once,
// persisted, never mutated.
type Params struct {
	Prime     []byte
	Generator []byte
}
