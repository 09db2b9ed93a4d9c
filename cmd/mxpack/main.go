package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/wippyai/mxpack/codec"
	"github.com/wippyai/mxpack/value"
	"github.com/wippyai/mxpack/wire"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: mxpack [-config file] [-v] <command> [args]")
	fmt.Fprintln(os.Stderr, "       mxpack pack [-class f64] <json>...")
	fmt.Fprintln(os.Stderr, "       mxpack unpack <file>")
	fmt.Fprintln(os.Stderr, "       mxpack unpacker <file>...")
	fmt.Fprintln(os.Stderr, "       mxpack inspect [-i] <file>")
	fmt.Fprintln(os.Stderr, "A file of - reads stdin.")
}

func main() {
	var (
		configFile = flag.String("config", "", "Path to mxpack.yaml")
		verbose    = flag.Bool("v", false, "Debug logging")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	if err := run(*configFile, *verbose, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string, verbose bool, args []string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	log, err := cfg.Logger(verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	codec.SetLogger(log)

	c := cfg.Codec(log)
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "pack":
		return runPack(c, rest, os.Stdout)
	case "unpack":
		return runUnpack(c, rest, os.Stdout)
	case "unpacker":
		return runUnpacker(c, cfg.Workers, rest, os.Stdout)
	case "inspect":
		return runInspect(c, rest, os.Stdout)
	}
	usage()
	return fmt.Errorf("unknown command %q", cmd)
}

func runPack(c *codec.Codec, args []string, out *os.File) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	className := fs.String("class", "f64", "WIT primitive type for numbers (u8, s16, f32, bool, ...)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("pack: no JSON values given")
	}

	class, err := value.ParseClass(*className)
	if err != nil {
		return err
	}

	values := make([]value.Value, fs.NArg())
	for i, arg := range fs.Args() {
		v, err := FromJSON([]byte(arg), class)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i+1, err)
		}
		values[i] = v
	}

	data, err := c.Pack(values...)
	if err != nil {
		return err
	}

	if term.IsTerminal(int(out.Fd())) {
		_, err = fmt.Fprintln(out, hex.EncodeToString(data))
		return err
	}
	_, err = out.Write(data)
	return err
}

func runUnpack(c *codec.Codec, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("unpack: expected one file")
	}
	data, err := readInput(args[0])
	if err != nil {
		return err
	}
	v, err := c.Unpack(data)
	if err != nil {
		return err
	}
	return printJSON(out, v)
}

// fileResult holds one input's messages, kept in argument order.
type fileResult struct {
	name   string
	values []value.Value
}

func runUnpacker(c *codec.Codec, workers int, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("unpacker: no files given")
	}

	results := make([]fileResult, len(args))
	g, ctx := errgroup.WithContext(context.Background())
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, name := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := readInput(name)
			if err != nil {
				return err
			}
			values, err := c.Unpacker(data)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			results[i] = fileResult{name: name, values: values}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		if len(results) > 1 {
			fmt.Fprintf(out, "== %s ==\n", r.name)
		}
		for _, v := range r.values {
			if err := printJSON(out, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func runInspect(c *codec.Codec, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	interactive := fs.Bool("i", false, "Interactive mode with TUI")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("inspect: expected one file")
	}

	data, err := readInput(fs.Arg(0))
	if err != nil {
		return err
	}
	msgs, err := splitMessages(c, data)
	if err != nil {
		return err
	}

	if *interactive {
		return runInteractive(fs.Arg(0), msgs)
	}

	for _, m := range msgs {
		fmt.Fprintf(out, "#%-4d %6d bytes  %-8s %s\n", m.index, m.size, m.value.Class(), m.wit)
	}
	return nil
}

// message is one decoded frame of an input file.
type message struct {
	value value.Value
	wit   string
	index int
	size  int
}

// splitMessages decodes every complete frame of data along with its size.
// A partial trailing frame is ignored.
func splitMessages(c *codec.Codec, data []byte) ([]message, error) {
	var msgs []message
	for off := 0; off < len(data); {
		n, ok, err := wire.Complete(data[off:])
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		v, err := c.Unpack(data[off : off+n])
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", len(msgs), err)
		}
		msgs = append(msgs, message{
			value: v,
			wit:   value.TypeString(value.Describe(v)),
			index: len(msgs),
			size:  n,
		})
		off += n
	}
	return msgs, nil
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func printJSON(out io.Writer, v value.Value) error {
	data, err := ToJSON(v, false)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
