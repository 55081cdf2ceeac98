// Package keyfile reads and writes the files the cipher consumes: the binary
// rotor key record and the TOML plugboard configuration.
package keyfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/types"
)

/*
 * Rotor key record.
 *
 * Layout, repeated for rotor1, rotor2, rotor3:
 *
 *   uint64 little-endian byte length | UTF-8 bytes
 *
 * This is bincode's fixed-int string encoding of a three-string struct, so
 * key files written by earlier rotor tools load unchanged. No header or
 * version: a file either decodes to three valid wirings or fails.
 *
 * maxWiringBytes bounds the length prefix so a corrupt file cannot trigger a
 * huge allocation. Trailing bytes after the third string are ignored.
 */

// DefaultRotorFile is where keys are read from and generated to by default.
const DefaultRotorFile = "./daily_key.enigma"

// maxWiringBytes allows 4-byte UTF-8 symbols for a 1024-symbol alphabet.
const maxWiringBytes = 4 * 1024

// WriteKey encodes key to w.
func WriteKey(w io.Writer, key *cipher.Key) error {
	r1, r2, r3 := key.Strings()
	for _, s := range []string{r1, r2, r3} {
		var prefix [8]byte
		binary.LittleEndian.PutUint64(prefix[:], uint64(len(s)))
		if _, err := w.Write(prefix[:]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// ReadKey decodes a key record from r and validates every wiring against a.
// Returns ErrSerialization for a truncated or malformed record and
// ErrInvalidWiring for a record that decodes but is not a valid key.
func ReadKey(r io.Reader, a *cipher.Alphabet) (*cipher.Key, error) {
	var wirings [3]string
	for i := range wirings {
		s, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: rotor%d: %v", types.ErrSerialization, i+1, err)
		}
		wirings[i] = s
	}
	return cipher.ParseKey(a, wirings[0], wirings[1], wirings[2])
}

func readString(r io.Reader) (string, error) {
	var prefix [8]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return "", unexpectedEOF(err)
	}
	n := binary.LittleEndian.Uint64(prefix[:])
	if n > maxWiringBytes {
		return "", fmt.Errorf("string length %d exceeds %d", n, maxWiringBytes)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", unexpectedEOF(err)
	}
	return string(buf), nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// LoadKey reads the key file at path.
// Returns ErrKeyFile if the file is missing or unreadable.
func LoadKey(path string, a *cipher.Alphabet) (*cipher.Key, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: rotor file '%s' not found", types.ErrKeyFile, path)
		}
		return nil, fmt.Errorf("%w: %v", types.ErrKeyFile, err)
	}
	defer f.Close()

	return ReadKey(bufio.NewReader(f), a)
}

// SaveKey writes key to path, replacing any existing file.
func SaveKey(path string, key *cipher.Key) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrKeyFile, err)
	}

	w := bufio.NewWriter(f)
	if err := WriteKey(w, key); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", types.ErrKeyFile, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", types.ErrKeyFile, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrKeyFile, err)
	}
	return nil
}
