package keyfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/types"
)

func TestParsePlugboard(t *testing.T) {
	data := []byte(`
# station plugs
pairs = [
    "ab",
    "CD",
    "X ",
]
`)
	p, err := ParsePlugboard(data, cipher.Default)
	if err != nil {
		t.Fatalf("ParsePlugboard() error = %v, want nil", err)
	}
	if p.Swap('a') != 'b' || p.Swap('D') != 'C' || p.Swap(' ') != 'X' {
		t.Errorf("pairs not applied: %q", p.Pairs())
	}
}

func TestParsePlugboard_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"malformed toml", `pairs = ["ab"`, types.ErrSerialization},
		{"wrong type", `pairs = "ab"`, types.ErrSerialization},
		{"duplicate pair", `pairs = ["ab", "ab"]`, types.ErrInvalidPlugboardPair},
		{"long pair", `pairs = ["abc"]`, types.ErrInvalidPlugboardPair},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlugboard([]byte(tt.data), cipher.Default)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParsePlugboard() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadPlugboard_MissingIsIdentity(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.toml")} {
		p, err := LoadPlugboard(path, cipher.Default)
		if err != nil {
			t.Fatalf("LoadPlugboard(%q) error = %v, want nil", path, err)
		}
		if len(p.Pairs()) != 0 {
			t.Errorf("LoadPlugboard(%q) pairs = %q, want none", path, p.Pairs())
		}
	}
}

func TestWritePlugboardTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugboard.toml")
	if err := WritePlugboardTemplate(path); err != nil {
		t.Fatalf("WritePlugboardTemplate() error = %v, want nil", err)
	}

	p, err := LoadPlugboard(path, cipher.Default)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if len(p.Pairs()) != 0 {
		t.Errorf("template pairs = %q, want none", p.Pairs())
	}
}

func TestSavePlugboard_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugboard.toml")
	want, err := cipher.PlugboardFromPairs(cipher.Default, []string{"Zq", "m "})
	if err != nil {
		t.Fatal(err)
	}
	if err := SavePlugboard(path, want); err != nil {
		t.Fatalf("SavePlugboard() error = %v, want nil", err)
	}

	got, err := LoadPlugboard(path, cipher.Default)
	if err != nil {
		t.Fatalf("LoadPlugboard() error = %v, want nil", err)
	}
	if len(got.Pairs()) != 2 || got.Swap('Z') != 'q' || got.Swap(' ') != 'm' {
		t.Errorf("round trip pairs = %q, want %q", got.Pairs(), want.Pairs())
	}
}

func TestLoadPlugboard_Unreadable(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be read as a file.
	if err := os.Mkdir(filepath.Join(dir, "plugboard.toml"), 0755); err != nil {
		t.Fatal(err)
	}
	_, err := LoadPlugboard(filepath.Join(dir, "plugboard.toml"), cipher.Default)
	if !errors.Is(err, types.ErrKeyFile) {
		t.Errorf("LoadPlugboard(dir) error = %v, want ErrKeyFile", err)
	}
}
