package store

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func sample() *Derivation {
	d := NewDerivation("hello", "x86_64-linux", "/bin/sh")
	d.Args = []string{"-c", "echo hi"}
	d.Env["b"] = "2"
	d.Env["a"] = "1"
	return d
}

func TestToATermDefaultOutput(t *testing.T) {
	got := sample().ToATerm()
	want := `Derive([("out","","","")],[],[],"x86_64-linux","/bin/sh",["-c","echo hi"],[("a","1"),("b","2")])`
	if got != want {
		t.Errorf("ToATerm() =\n%s\nwant\n%s", got, want)
	}
}

func TestToATermEscapes(t *testing.T) {
	d := NewDerivation("x", "sys", "b")
	d.Env["s"] = "q\"\\\n\r\t"
	got := d.ToATerm()
	if !strings.Contains(got, `("s","q\"\\\n\r\t")`) {
		t.Errorf("ToATerm() = %s, missing escaped env entry", got)
	}
}

func TestToATermSortsInputs(t *testing.T) {
	d := NewDerivation("x", "sys", "b")
	d.InputDrvs["/nix/store/bbb-b.drv"] = []string{"out", "dev"}
	d.InputDrvs["/nix/store/aaa-a.drv"] = []string{"out"}
	d.InputSrcs = []string{"/nix/store/zzz-src", "/nix/store/aaa-src"}
	got := d.ToATerm()
	want := `[("/nix/store/aaa-a.drv",["out"]),("/nix/store/bbb-b.drv",["dev","out"])],["/nix/store/aaa-src","/nix/store/zzz-src"]`
	if !strings.Contains(got, want) {
		t.Errorf("ToATerm() = %s\nwant substring %s", got, want)
	}
}

func TestComputeStorePathHash(t *testing.T) {
	a := sample()
	b := sample()
	if a.ComputeStorePathHash() != b.ComputeStorePathHash() {
		t.Fatalf("equal derivations hash differently")
	}
	h := a.ComputeStorePathHash()
	if len(h) != HashLength {
		t.Errorf("hash length = %d, want %d", len(h), HashLength)
	}
	if !regexp.MustCompile(`^[a-z2-7]+$`).MatchString(h) {
		t.Errorf("hash %q is not lower-case base32", h)
	}

	b.Env["a"] = "changed"
	if a.ComputeStorePathHash() == b.ComputeStorePathHash() {
		t.Errorf("hash did not change with env")
	}
}

func TestStorePath(t *testing.T) {
	d := sample()
	p := d.StorePath()
	re := regexp.MustCompile(`^/nix/store/[a-z2-7]{32}-hello\.drv$`)
	if !re.MatchString(p) {
		t.Errorf("StorePath() = %q, want match for %s", p, re)
	}
}

func TestComputeOutputs(t *testing.T) {
	d := sample()
	d.Outputs = map[string]string{"out": "", "dev": ""}
	d.ComputeOutputs()

	out := d.Outputs["out"]
	dev := d.Outputs["dev"]
	if !regexp.MustCompile(`^/nix/store/[a-z2-7]{32}-hello$`).MatchString(out) {
		t.Errorf("out = %q", out)
	}
	if !regexp.MustCompile(`^/nix/store/[a-z2-7]{32}-hello-dev$`).MatchString(dev) {
		t.Errorf("dev = %q", dev)
	}
	if d.Env["out"] != out || d.Env["dev"] != dev {
		t.Errorf("env outputs = %q, %q", d.Env["out"], d.Env["dev"])
	}
	if d.OutPath() != out {
		t.Errorf("OutPath() = %q, want %q", d.OutPath(), out)
	}

	again := sample()
	again.Outputs = map[string]string{"out": "", "dev": ""}
	again.ComputeOutputs()
	if again.Outputs["out"] != out {
		t.Errorf("output paths are not deterministic")
	}
}

func TestWriteToStore(t *testing.T) {
	root := t.TempDir()
	d := sample()
	path, err := d.WriteToStore(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != d.StorePath() {
		t.Errorf("WriteToStore() = %q, want %q", path, d.StorePath())
	}
	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != d.ToATerm() {
		t.Errorf("file contents = %s, want %s", data, d.ToATerm())
	}
	entries, _ := os.ReadDir(filepath.Join(root, "nix", "store"))
	if len(entries) != 1 {
		t.Errorf("store has %d entries, want 1 (temp file left behind?)", len(entries))
	}
}
