package domain

// Zero overwrites b with zeros. Callers defer it on every buffer that held key
// material or plaintext so that no step of a failed sequence leaves secrets behind.
func Zero(b []byte) {
	clear(b)
}

// ZeroAll zeroes each buffer in bufs.
func ZeroAll(bufs ...[]byte) {
	for _, b := range bufs {
		Zero(b)
	}
}
