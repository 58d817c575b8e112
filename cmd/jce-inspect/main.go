package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/pflag"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/tarsio/jce-go/codec"
	"github.com/tarsio/jce-go/stream"
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

func main() {
	var (
		file        = pflag.StringP("file", "f", "", "Packet capture to inspect (default stdin)")
		hexInput    = pflag.Bool("hex", false, "Input is hex text, whitespace ignored")
		noFrame     = pflag.Bool("no-frame", false, "Treat input as one bare packet, no length prefix")
		width       = pflag.Int("width", 4, "Length prefix width in bytes (1, 2 or 4)")
		inclusive   = pflag.Bool("inclusive", false, "Length prefix counts itself")
		le          = pflag.Bool("le", false, "Little-endian packets and prefixes")
		maxFrame    = pflag.Int("max", 0, "Maximum frame size, 0 for unlimited")
		bytesMode   = pflag.String("bytes", "auto", "Byte array interpretation: raw, string or auto")
		output      = pflag.StringP("output", "o", "text", "Output format: text, json, cbor or msgpack")
		verbose     = pflag.BoolP("verbose", "v", false, "Log frame events")
		interactive = pflag.BoolP("interactive", "i", false, "Interactive mode with TUI")
	)
	pflag.Parse()

	if err := run(*file, *hexInput, *noFrame, *width, *inclusive, *le, *maxFrame, *bytesMode, *output, *verbose, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file string, hexInput, noFrame bool, width int, inclusive, le bool, maxFrame int, bytesModeStr, output string, verbose, interactive bool) error {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
		stream.SetLogger(logger)
	}

	mode, err := parseBytesMode(bytesModeStr)
	if err != nil {
		return err
	}
	var opts codec.Options
	if le {
		opts |= codec.OptLittleEndian
	}

	data, err := readInput(file, hexInput)
	if err != nil {
		return err
	}

	var frames []frameInfo
	if noFrame {
		v, err := codec.DecodeGeneric(data, opts, mode)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		frames = []frameInfo{{size: len(data), value: v}}
	} else {
		cfg := stream.Config{
			LengthWidth:  width,
			Inclusive:    inclusive,
			LittleEndian: le,
			MaxFrameSize: maxFrame,
		}
		frames, err = decodeFrames(cfg, data, opts, mode)
		if err != nil {
			return err
		}
	}

	if interactive {
		return runInteractive(frames)
	}
	return writeOutput(os.Stdout, frames, output)
}

type frameInfo struct {
	size  int
	value any
	err   error
}

func decodeFrames(cfg stream.Config, data []byte, opts codec.Options, mode codec.BytesMode) ([]frameInfo, error) {
	d, err := stream.NewDecoder(cfg,
		stream.WithOptions(opts),
		stream.WithBytesMode(mode))
	if err != nil {
		return nil, err
	}
	if err := d.Feed(data); err != nil {
		return nil, err
	}

	var frames []frameInfo
	for {
		before := d.Buffered()
		v, err := d.Next()
		if err != nil {
			if d.Buffered() == before {
				// Fatal framing error; nothing more can be cut.
				return frames, err
			}
			frames = append(frames, frameInfo{size: before - d.Buffered(), err: err})
			continue
		}
		if v == nil {
			break
		}
		frames = append(frames, frameInfo{size: before - d.Buffered(), value: v})
	}
	if d.Buffered() > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d trailing bytes do not form a complete frame\n", d.Buffered())
	}
	return frames, nil
}

func readInput(file string, hexInput bool) ([]byte, error) {
	var data []byte
	var err error
	if file == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, err
	}

	if hexInput {
		cleaned := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
				return -1
			}
			return r
		}, string(data))
		data, err = hex.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("hex input: %w", err)
		}
	}

	if bytes.HasPrefix(data, zstdMagic) {
		r, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer r.Close()
		data, err = io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
	}
	return data, nil
}

func parseBytesMode(s string) (codec.BytesMode, error) {
	switch s {
	case "raw":
		return codec.BytesRaw, nil
	case "string":
		return codec.BytesString, nil
	case "auto":
		return codec.BytesAuto, nil
	default:
		return 0, fmt.Errorf("unknown bytes mode %q", s)
	}
}

func writeOutput(w io.Writer, frames []frameInfo, format string) error {
	switch format {
	case "text":
		for i, f := range frames {
			fmt.Fprintf(w, "--- frame %d (%d bytes) ---\n", i, f.size)
			if f.err != nil {
				fmt.Fprintf(w, "decode error: %v\n", f.err)
				continue
			}
			fmt.Fprint(w, renderTree(f.value, 0))
		}
		return nil

	case "json":
		vals := make([]any, len(frames))
		for i, f := range frames {
			if f.err != nil {
				vals[i] = map[string]any{"error": f.err.Error()}
			} else {
				vals[i] = jsonable(f.value)
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(vals)

	case "cbor":
		out, err := cbor.Marshal(frameValues(frames))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err

	case "msgpack":
		out, err := msgpack.Marshal(frameValues(frames))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func frameValues(frames []frameInfo) []any {
	vals := make([]any, len(frames))
	for i, f := range frames {
		if f.err != nil {
			vals[i] = map[string]any{"error": f.err.Error()}
		} else {
			vals[i] = jsonable(f.value)
		}
	}
	return vals
}

// jsonable rewrites decoded values into shapes every output encoder
// accepts: tag and map keys become strings, byte arrays become hex.
func jsonable(v any) any {
	switch x := v.(type) {
	case codec.Struct:
		m := make(map[string]any, len(x))
		for tag, val := range x {
			m[strconv.Itoa(int(tag))] = jsonable(val)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = jsonable(val)
		}
		return m
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonable(e)
		}
		return out
	case []byte:
		return hex.EncodeToString(x)
	default:
		return v
	}
}

// renderTree formats a decoded value as an indented tree for the text
// and TUI views.
func renderTree(v any, indent int) string {
	pad := strings.Repeat("  ", indent)
	switch x := v.(type) {
	case codec.Struct:
		var b strings.Builder
		tags := make([]int, 0, len(x))
		for t := range x {
			tags = append(tags, int(t))
		}
		sort.Ints(tags)
		for _, t := range tags {
			val := x[uint8(t)]
			if isScalar(val) {
				fmt.Fprintf(&b, "%s%d: %s\n", pad, t, scalarString(val))
			} else {
				fmt.Fprintf(&b, "%s%d:\n%s", pad, t, renderTree(val, indent+1))
			}
		}
		return b.String()
	case map[any]any:
		var b strings.Builder
		keys := make([]string, 0, len(x))
		byKey := make(map[string]any, len(x))
		for k, val := range x {
			s := fmt.Sprint(k)
			keys = append(keys, s)
			byKey[s] = val
		}
		sort.Strings(keys)
		for _, k := range keys {
			val := byKey[k]
			if isScalar(val) {
				fmt.Fprintf(&b, "%s%s: %s\n", pad, k, scalarString(val))
			} else {
				fmt.Fprintf(&b, "%s%s:\n%s", pad, k, renderTree(val, indent+1))
			}
		}
		return b.String()
	case []any:
		var b strings.Builder
		for i, e := range x {
			if isScalar(e) {
				fmt.Fprintf(&b, "%s[%d] %s\n", pad, i, scalarString(e))
			} else {
				fmt.Fprintf(&b, "%s[%d]\n%s", pad, i, renderTree(e, indent+1))
			}
		}
		return b.String()
	default:
		return pad + scalarString(v) + "\n"
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case codec.Struct, map[any]any, []any:
		return false
	}
	return true
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case []byte:
		return fmt.Sprintf("0x%s (%d bytes)", hex.EncodeToString(x), len(x))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprint(x)
	}
}
