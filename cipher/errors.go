package cipher

import "errors"

var (
	// ErrEmptyMessage is returned when encrypting a zero-length message.
	ErrEmptyMessage = errors.New("cipher: cannot encrypt an empty message")

	// ErrInvalidLength is returned when a message is longer than the key allows.
	ErrInvalidLength = errors.New("cipher: message exceeds maximum length")

	// ErrLeadingZeroByte is returned when a message starts with a 0x00 byte.
	// Decryption yields the minimal big-endian encoding of the message value,
	// so a leading zero byte could not be recovered.
	ErrLeadingZeroByte = errors.New("cipher: message must not start with a zero byte")

	// ErrInvalidUTF8 is returned when a text message is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("cipher: message is not valid UTF-8")

	// ErrKeySizeMismatch is returned when the key width does not match the
	// requested message bound or bit vector.
	ErrKeySizeMismatch = errors.New("cipher: key size does not match message width")

	// ErrMalformedCiphertext is returned when a ciphertext is not a nonnegative
	// base-10 integer.
	ErrMalformedCiphertext = errors.New("cipher: malformed ciphertext")

	// ErrNotInvertible is returned when the private multiplier has no inverse
	// modulo the private modulus.
	ErrNotInvertible = errors.New("cipher: multiplier is not invertible modulo q")
)
