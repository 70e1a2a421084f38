// Command tagbufdump reads a tagbuf-encoded file, optionally applies a list
// of path=literal patches, and prints the result as JSON. With -out it also
// writes the (possibly patched) document back out through the envelope
// layer, compressed and checksummed according to the -compress/-checksum
// flags.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-tagbuf/tagbuf/envelope"
	"github.com/go-tagbuf/tagbuf/format"
	"github.com/go-tagbuf/tagbuf/jsonpp"
	"github.com/go-tagbuf/tagbuf/patch"
	"github.com/go-tagbuf/tagbuf/reader"
)

type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	*s = append(*s, v)

	return nil
}

func main() {
	in := flag.String("in", "", "input file path (required)")
	out := flag.String("out", "", "output file path; if set, writes the (patched) document back out")
	enveloped := flag.Bool("envelope", false, "input is wrapped in an envelope header")
	compress := flag.String("compress", "none", "output compression: none, s2, lz4, zstd (only with -out)")
	checksum := flag.Bool("checksum", true, "write an integrity checksum to the output envelope (only with -out)")

	var sets setFlags
	flag.Var(&sets, "set", "path=literal patch, may be repeated")
	flag.Parse()

	if *in == "" {
		log.Fatal("tagbufdump: -in is required")
	}

	buf, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("tagbufdump: reading %s: %v", *in, err)
	}

	if *enveloped {
		buf, err = envelope.Unwrap(buf)
		if err != nil {
			log.Fatalf("tagbufdump: unwrapping %s: %v", *in, err)
		}
	}

	updates, err := parseSets(sets)
	if err != nil {
		log.Fatalf("tagbufdump: %v", err)
	}

	if len(updates) > 0 {
		var patched bytes.Buffer
		if err := patch.ApplyUpdates(buf, &patched, updates); err != nil {
			log.Fatalf("tagbufdump: applying patches: %v", err)
		}
		buf = patched.Bytes()
	}

	r := reader.New(buf)
	var jsonOut strings.Builder
	if err := jsonpp.Write(&jsonOut, r); err != nil {
		log.Fatalf("tagbufdump: rendering JSON: %v", err)
	}
	fmt.Println(jsonOut.String())

	if *out == "" {
		return
	}

	kind, err := compressionKind(*compress)
	if err != nil {
		log.Fatalf("tagbufdump: %v", err)
	}

	wrapped, err := envelope.Wrap(buf, envelope.WithCompression(kind), envelope.WithChecksum(*checksum))
	if err != nil {
		log.Fatalf("tagbufdump: wrapping output: %v", err)
	}

	if err := os.WriteFile(*out, wrapped, 0o644); err != nil {
		log.Fatalf("tagbufdump: writing %s: %v", *out, err)
	}
}

func compressionKind(name string) (format.CompressionType, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return format.CompressionNone, nil
	case "s2":
		return format.CompressionS2, nil
	case "lz4":
		return format.CompressionLZ4, nil
	case "zstd":
		return format.CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression kind %q", name)
	}
}

// parseSets parses "path=literal" flags into patch.Update values. literal is
// interpreted as an int64, then a float64, then a bool, falling back to a
// raw string.
func parseSets(sets setFlags) ([]*patch.Update, error) {
	updates := make([]*patch.Update, 0, len(sets))
	for _, s := range sets {
		path, literal, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("malformed -set %q, want path=literal", s)
		}

		updates = append(updates, patch.NewUpdate([]byte(path), parseLiteral(literal)))
	}

	return updates, nil
}

func parseLiteral(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}

	return s
}
