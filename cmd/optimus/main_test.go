package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
)

func init() {
	homedir.DisableCache = true
}

// run executes the CLI with args in an empty home directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestInverse(t *testing.T) {
	out, err := run(t, "inverse", "1580030173", "2123809381")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := lines(out), []string{"59260789", "1885413229"}; strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("inverse = %v, want %v", got, want)
	}

	if _, err := run(t, "inverse", "2"); err == nil {
		t.Error("inverse 2 succeeded")
	}
	if _, err := run(t, "inverse", "x"); err == nil {
		t.Error("inverse x succeeded")
	}
}

func TestEncodeDecode(t *testing.T) {
	flags := []string{"--prime=1580030173", "--random=1163945558"}

	out, err := run(t, append([]string{"encode", "0", "1"}, flags...)...)
	if err != nil {
		t.Fatal(err)
	}
	got := lines(out)
	if len(got) != 2 || got[0] != "1163945558" || got[1] != "458047115" {
		t.Fatalf("encode = %v, want [1163945558 458047115]", got)
	}

	out, err = run(t, append([]string{"decode", "1163945558", "458047115"}, flags...)...)
	if err != nil {
		t.Fatal(err)
	}
	if got := lines(out); len(got) != 2 || got[0] != "0" || got[1] != "1" {
		t.Errorf("decode = %v, want [0 1]", got)
	}
}

func TestExplicitZeroRandom(t *testing.T) {
	out, err := run(t, "encode", "--prime=1580030173", "--random=0", "0", "1")
	if err != nil {
		t.Fatal(err)
	}
	if got := lines(out); len(got) != 2 || got[0] != "0" || got[1] != "1580030173" {
		t.Errorf("encode = %v, want [0 1580030173]", got)
	}
}

func TestEncodeDecodeFormats(t *testing.T) {
	flags := []string{"--prime=309779747", "--mod-inverse=49560203", "--random=57733611"}
	for _, f := range []string{"base58", "crockford", "hex", "decimal"} {
		out, err := run(t, append([]string{"encode", "-o", f, "42"}, flags...)...)
		if err != nil {
			t.Fatalf("encode -o %s: %v", f, err)
		}
		out, err = run(t, append([]string{"decode", "-i", f, strings.TrimSpace(out)}, flags...)...)
		if err != nil {
			t.Fatalf("decode -i %s: %v", f, err)
		}
		if strings.TrimSpace(out) != "42" {
			t.Errorf("%s roundtrip = %q, want 42", f, out)
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := [][]string{
		{"encode", "1"},
		{"encode", "--prime=4", "1"},
		{"encode", "--prime=1580030173", "--random=1163945558", "-1"},
		{"encode", "--prime=1580030173", "--random=1163945558", "2147483648"},
		{"decode", "--prime=1580030173", "--random=1163945558", "2147483648"},
		{"encode", "--prime=1580030173", "--random=1163945558", "-o", "base64", "1"},
		{"decode", "--prime=1580030173", "--random=1163945558", "-i", "base64", "1"},
		{"decode", "--prime=1580030173", "--random=1163945558", "-i", "crockford", "-"},
	}
	for _, args := range tests {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v succeeded", args)
		}
	}
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("OPTIMUS_PRIME", "1580030173")
	t.Setenv("OPTIMUS_MOD_INVERSE", "59260789")
	t.Setenv("OPTIMUS_RANDOM", "1163945558")

	out, err := run(t, "encode", "1")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "458047115" {
		t.Errorf("encode = %q, want 458047115", out)
	}
}

func TestGenerateConfigFile(t *testing.T) {
	out, err := run(t, "generate")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "optimus.yaml")
	if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
		t.Fatal(err)
	}

	enc, err := run(t, "encode", "--config", path, "12345")
	if err != nil {
		t.Fatal(err)
	}
	dec, err := run(t, "decode", "--config", path, strings.TrimSpace(enc))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(dec) != "12345" {
		t.Errorf("decode = %q, want 12345", dec)
	}
}

func TestGenerateFormats(t *testing.T) {
	out, err := run(t, "generate", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var p params
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("generate json: %v", err)
	}
	if (p.Prime*p.ModInverse)&(1<<31-1) != 1 {
		t.Errorf("generated inverse %d does not invert %d", p.ModInverse, p.Prime)
	}

	out, err = run(t, "generate", "-f", "env")
	if err != nil {
		t.Fatal(err)
	}
	if got := lines(out); len(got) != 3 || !strings.HasPrefix(got[0], "OPTIMUS_PRIME=") {
		t.Errorf("generate env = %v", got)
	}

	if _, err := run(t, "generate", "-f", "xml"); err == nil {
		t.Error("generate -f xml succeeded")
	}
}

func TestMigrateRequiresDSN(t *testing.T) {
	if _, err := run(t, "migrate", "--prime=1580030173", "--random=1163945558"); err == nil {
		t.Error("migrate without dsn succeeded")
	}
	if _, err := run(t, "migrate", "--dsn=postgres://localhost/x", "--prime=1580030173"); err == nil {
		t.Error("migrate without random succeeded")
	}
}

func TestMissingConfigFile(t *testing.T) {
	if _, err := run(t, "inverse", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "3"); err == nil {
		t.Error("explicit missing config file accepted")
	}
}
