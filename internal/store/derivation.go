package store

import (
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Dir is the logical store directory every store path lives under.
const Dir = "/nix/store"

// HashLength is the number of base32 characters kept from a digest.
const HashLength = 32

var nixBase32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// Derivation is a build recipe. Its store path is derived from its content.
type Derivation struct {
	Name    string
	System  string
	Builder string
	Args    []string
	Env     map[string]string
	// InputDrvs maps a derivation path to the output names used from it.
	InputDrvs map[string][]string
	InputSrcs []string
	// Outputs maps output names to their store paths; paths stay empty until
	// ComputeOutputs runs.
	Outputs map[string]string
}

func NewDerivation(name, system, builder string) *Derivation {
	return &Derivation{
		Name:      name,
		System:    system,
		Builder:   builder,
		Env:       map[string]string{},
		InputDrvs: map[string][]string{},
		Outputs:   map[string]string{},
	}
}

// OutputNames returns the declared outputs in sorted order; a derivation
// without declared outputs has the single output "out".
func (d *Derivation) OutputNames() []string {
	if len(d.Outputs) == 0 {
		return []string{"out"}
	}
	return sortedKeys(d.Outputs)
}

// ToATerm serializes the derivation in the
// Derive([outputs],[inputDrvs],[inputSrcs],"system","builder",[args],[env])
// form. Every collection is written in sorted order.
func (d *Derivation) ToATerm() string {
	var b strings.Builder
	b.WriteString("Derive([")

	if len(d.Outputs) == 0 {
		b.WriteString(`("out","","","")`)
	} else {
		for i, name := range sortedKeys(d.Outputs) {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, `(%s,%s,"","")`, quote(name), quote(d.Outputs[name]))
		}
	}

	b.WriteString("],[")
	for i, drv := range sortedKeys(d.InputDrvs) {
		if i > 0 {
			b.WriteByte(',')
		}
		outs := append([]string(nil), d.InputDrvs[drv]...)
		sort.Strings(outs)
		fmt.Fprintf(&b, "(%s,%s)", quote(drv), quoteList(outs))
	}

	srcs := append([]string(nil), d.InputSrcs...)
	sort.Strings(srcs)
	b.WriteString("],")
	b.WriteString(quoteList(srcs))
	fmt.Fprintf(&b, ",%s,%s,%s,[", quote(d.System), quote(d.Builder), quoteList(d.Args))

	for i, key := range sortedKeys(d.Env) {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "(%s,%s)", quote(key), quote(d.Env[key]))
	}
	b.WriteString("])")
	return b.String()
}

// ComputeStorePathHash hashes the ATerm text with SHA-256 and returns the
// first HashLength characters of its lower-case base32 encoding.
func (d *Derivation) ComputeStorePathHash() string {
	sum := sha256.Sum256([]byte(d.ToATerm()))
	return truncatedBase32(sum[:])
}

// StorePath returns /nix/store/<hash>-<name>.drv.
func (d *Derivation) StorePath() string {
	return fmt.Sprintf("%s/%s-%s.drv", Dir, d.ComputeStorePathHash(), d.Name)
}

// ComputeOutputs fills in the path of every output, and an environment
// entry of the same name, from the hash of the derivation with its output
// paths blanked.
func (d *Derivation) ComputeOutputs() {
	names := d.OutputNames()
	blank := d.clone()
	blank.Outputs = map[string]string{}
	for _, name := range names {
		blank.Outputs[name] = ""
		blank.Env[name] = ""
	}
	drvHash := sha256.Sum256([]byte(blank.ToATerm()))
	hexHash := hex.EncodeToString(drvHash[:])

	d.Outputs = map[string]string{}
	for _, name := range names {
		suffix := d.Name
		if name != "out" {
			suffix += "-" + name
		}
		fingerprint := fmt.Sprintf("output:%s:sha256:%s:%s:%s", name, hexHash, Dir, suffix)
		sum := sha256.Sum256([]byte(fingerprint))
		path := fmt.Sprintf("%s/%s-%s", Dir, truncatedBase32(sum[:]), suffix)
		d.Outputs[name] = path
		d.Env[name] = path
	}
}

// OutPath returns the path of the "out" output, or of the first output when
// there is none named out.
func (d *Derivation) OutPath() string {
	if p, ok := d.Outputs["out"]; ok {
		return p
	}
	return d.Outputs[d.OutputNames()[0]]
}

// WriteToStore writes the ATerm text to root + StorePath(), creating parent
// directories. The file is written under a temporary name and renamed into
// place.
func (d *Derivation) WriteToStore(root string) (string, error) {
	storePath := d.StorePath()
	target := filepath.Join(root, filepath.FromSlash(storePath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("cannot create store directory: %w", err)
	}
	tmp := target + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, []byte(d.ToATerm()), 0o644); err != nil {
		return "", fmt.Errorf("cannot write derivation %s: %w", storePath, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("cannot write derivation %s: %w", storePath, err)
	}
	return storePath, nil
}

func (d *Derivation) clone() *Derivation {
	c := NewDerivation(d.Name, d.System, d.Builder)
	c.Args = append([]string(nil), d.Args...)
	c.InputSrcs = append([]string(nil), d.InputSrcs...)
	for k, v := range d.Env {
		c.Env[k] = v
	}
	for k, v := range d.InputDrvs {
		c.InputDrvs[k] = append([]string(nil), v...)
	}
	for k, v := range d.Outputs {
		c.Outputs[k] = v
	}
	return c
}

func truncatedBase32(sum []byte) string {
	return strings.ToLower(nixBase32.EncodeToString(sum))[:HashLength]
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = quote(s)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
