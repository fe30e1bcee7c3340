package smlogic_test

import (
	"encoding/base64"
	"testing"

	sm "github.com/db47h/smlogic"
	"github.com/db47h/smlogic/smtest"
	"github.com/pkg/errors"
)

func TestShare(t *testing.T) {
	c, err := sm.Deserialize([]byte(legacyCircuit))
	if err != nil {
		t.Fatal(err)
	}
	s, err := sm.EncodeShare(c)
	if err != nil {
		t.Fatal(err)
	}
	cc, err := sm.DecodeShare(s)
	if err != nil {
		t.Fatal(err)
	}
	if d := smtest.Diff(c, cc); d != "" {
		t.Fatalf("share round trip:\n%s", d)
	}
}

func TestDecodeShare_errors(t *testing.T) {
	td := []struct {
		name string
		s    string
	}{
		{"bad escape", "%zz"},
		{"bad base64", "not*base64"},
		{"not zlib", base64.StdEncoding.EncodeToString([]byte("plain text"))},
		{"truncated", "eJyLjgUA"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			if _, err := sm.DecodeShare(d.s); errors.Cause(err) != sm.ErrMalformed {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}
