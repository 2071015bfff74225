package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"xdao.co/abiparam/abi"
	"xdao.co/abiparam/model"
	"xdao.co/abiparam/param"
	"xdao.co/abiparam/paramtype"
	"xdao.co/abiparam/rpc"
	"xdao.co/abiparam/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "param":
		return cmdParam(args[1:], in, out, errOut)
	case "signatures":
		return cmdSignatures(args[1:], in, out, errOut)
	case "canonical":
		return cmdCanonical(args[1:], in, out, errOut)
	case "cid":
		return cmdCID(args[1:], in, out, errOut)
	case "put":
		return cmdPut(args[1:], in, out, errOut)
	case "get":
		return cmdGet(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "abiparam: contract interface parameter resolver")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  abiparam param [--format json|yaml] <file>")
	fmt.Fprintln(w, "  abiparam signatures <abi.json>")
	fmt.Fprintln(w, "  abiparam canonical <abi.json>")
	fmt.Fprintln(w, "  abiparam cid <abi.json>")
	fmt.Fprintln(w, "  abiparam put (--dir <store> | --addr <host:port>) <abi.json>")
	fmt.Fprintln(w, "  abiparam get (--dir <store> | --addr <host:port>) <CID>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - <file> may be - to read stdin")
	fmt.Fprintln(w, "  - param reads YAML for .yaml/.yml files unless --format is given")
	fmt.Fprintln(w, "  - canonical and get write canonical bytes to stdout (no trailing newline)")
	fmt.Fprintln(w, "  - --addr talks to a running abiparamd instead of a local store")
}

func cmdParam(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("param", flag.ContinueOnError)
	fs.SetOutput(errOut)
	format := fs.String("format", "", "Input format: json or yaml (default: by file extension)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: abiparam param [--format json|yaml] <file>")
		return 2
	}
	path := fs.Arg(0)
	f := *format
	if f == "" {
		f = formatFor(path)
	}

	b, err := readInput(path, in)
	if err != nil {
		fmt.Fprintf(errOut, "read record: %v\n", err)
		return 1
	}

	var p param.Param
	switch f {
	case "json":
		p, err = param.ParseJSON(b)
	case "yaml":
		p, err = param.ParseYAML(b)
	default:
		fmt.Fprintf(errOut, "unknown --format %q (want json or yaml)\n", f)
		return 2
	}
	if err != nil {
		printErr(errOut, "invalid record", err)
		return 1
	}

	rendered, err := json.Marshal(model.FromParam(p))
	if err != nil {
		fmt.Fprintf(errOut, "render: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, string(rendered))
	return 0
}

func cmdSignatures(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	c, code := loadContract("signatures", args, in, errOut)
	if c == nil {
		return code
	}
	for _, line := range c.Signatures() {
		_, _ = fmt.Fprintln(out, line)
	}
	return 0
}

func cmdCanonical(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	c, code := loadContract("canonical", args, in, errOut)
	if c == nil {
		return code
	}
	b, err := c.Canonical()
	if err != nil {
		fmt.Fprintf(errOut, "canonicalize: %v\n", err)
		return 1
	}
	_, _ = out.Write(b)
	return 0
}

func cmdCID(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	c, code := loadContract("cid", args, in, errOut)
	if c == nil {
		return code
	}
	id, err := c.CID()
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, id)
	return 0
}

func cmdPut(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var st storeFlags
	st.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || !st.valid() {
		fmt.Fprintln(errOut, "usage: abiparam put (--dir <store> | --addr <host:port>) <abi.json>")
		return 2
	}
	b, err := readInput(fs.Arg(0), in)
	if err != nil {
		fmt.Fprintf(errOut, "read description: %v\n", err)
		return 1
	}

	var id cid.Cid
	if st.addr != "" {
		client, err := st.dial()
		if err != nil {
			fmt.Fprintf(errOut, "dial: %v\n", err)
			return 1
		}
		defer client.Close()
		id, err = client.Publish(context.Background(), b)
		if err != nil {
			printErr(errOut, "publish", err)
			return 1
		}
	} else {
		c, err := abi.Parse(b)
		if err != nil {
			printErr(errOut, "invalid description", err)
			return 1
		}
		cas, err := localfs.New(st.dir)
		if err != nil {
			fmt.Fprintf(errOut, "open store: %v\n", err)
			return 1
		}
		id, err = abi.Publish(cas, c)
		if err != nil {
			fmt.Fprintf(errOut, "publish: %v\n", err)
			return 1
		}
	}
	_, _ = fmt.Fprintln(out, id)
	return 0
}

func cmdGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var st storeFlags
	st.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || !st.valid() {
		fmt.Fprintln(errOut, "usage: abiparam get (--dir <store> | --addr <host:port>) <CID>")
		return 2
	}
	id, err := cid.Decode(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid CID: %v\n", err)
		return 2
	}

	var b []byte
	if st.addr != "" {
		client, err := st.dial()
		if err != nil {
			fmt.Fprintf(errOut, "dial: %v\n", err)
			return 1
		}
		defer client.Close()
		b, err = client.Fetch(context.Background(), id)
		if err != nil {
			fmt.Fprintf(errOut, "fetch: %v\n", err)
			return 1
		}
	} else {
		cas, err := localfs.New(st.dir)
		if err != nil {
			fmt.Fprintf(errOut, "open store: %v\n", err)
			return 1
		}
		c, err := abi.Fetch(cas, id)
		if err != nil {
			fmt.Fprintf(errOut, "fetch: %v\n", err)
			return 1
		}
		if b, err = c.Canonical(); err != nil {
			fmt.Fprintf(errOut, "canonicalize: %v\n", err)
			return 1
		}
	}
	_, _ = out.Write(b)
	return 0
}

type storeFlags struct {
	dir     string
	addr    string
	timeout time.Duration
}

func (s *storeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.dir, "dir", "", "Local content-addressed store directory")
	fs.StringVar(&s.addr, "addr", "", "abiparamd address")
	fs.DurationVar(&s.timeout, "timeout", 10*time.Second, "Per-call timeout with --addr")
}

// valid requires exactly one of --dir and --addr.
func (s *storeFlags) valid() bool {
	return (s.dir == "") != (s.addr == "")
}

func (s *storeFlags) dial() (*rpc.Client, error) {
	return rpc.Dial(s.addr, rpc.DialOptions{Timeout: s.timeout})
}

func loadContract(name string, args []string, in io.Reader, errOut io.Writer) (*abi.Contract, int) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return nil, 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(errOut, "usage: abiparam %s <abi.json>\n", name)
		return nil, 2
	}
	b, err := readInput(fs.Arg(0), in)
	if err != nil {
		fmt.Fprintf(errOut, "read description: %v\n", err)
		return nil, 1
	}
	c, err := abi.Parse(b)
	if err != nil {
		printErr(errOut, "invalid description", err)
		return nil, 1
	}
	return c, 0
}

// printErr appends the rule ID when the error carries one.
func printErr(w io.Writer, prefix string, err error) {
	id := param.RuleID(err)
	if id == "" {
		id = paramtype.RuleID(err)
	}
	if id != "" {
		fmt.Fprintf(w, "%s: %v [%s]\n", prefix, err, id)
		return
	}
	fmt.Fprintf(w, "%s: %v\n", prefix, err)
}

func readInput(path string, in io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(in)
	}
	return os.ReadFile(path)
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
