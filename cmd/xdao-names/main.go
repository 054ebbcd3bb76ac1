package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"xdao.co/names/keys"
	"xdao.co/names/naming"
	"xdao.co/names/record"
	"xdao.co/names/store/grpcstore"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "create":
		return cmdCreate(args[1:], out, errOut)
	case "resolve":
		return cmdResolve(args[1:], out, errOut)
	case "publish":
		return cmdPublish(args[1:], out, errOut)
	case "parse", "inspect":
		return cmdParse(args[1:], out, errOut)
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
	fmt.Fprintln(w, "xdao-names: publish and resolve signed name records")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xdao-names key init --name <id> [--type ed25519|dilithium3] [--force]")
	fmt.Fprintln(w, "  xdao-names key list")
	fmt.Fprintln(w, "  xdao-names key export --name <id>")
	fmt.Fprintln(w, "  xdao-names create [--output <file>] [--type ed25519|dilithium3]")
	fmt.Fprintln(w, "  xdao-names resolve [--addr host:port] <name>")
	fmt.Fprintln(w, "  xdao-names publish [--addr host:port] (--key <file> | --signer <id>) --value <value>")
	fmt.Fprintln(w, "  xdao-names parse|inspect [<base64-record>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - key init stores keys under ~/.xdao/names (0600 private key files)")
	fmt.Fprintln(w, "  - parse reads the record from stdin when no argument is given")
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "key: expected subcommand init, list or export")
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "export":
		return cmdKeyExport(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "key: unknown subcommand %s\n", args[0])
		return 2
	}
}

func generateKey(keyType string) (keys.PrivateKey, error) {
	switch keyType {
	case "", "ed25519":
		return keys.GenerateEd25519(rand.Reader)
	case "dilithium3":
		return keys.GenerateDilithium3(rand.Reader)
	default:
		return nil, fmt.Errorf("unsupported key type %q", keyType)
	}
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "key identifier")
	dir := fs.String("dir", "", "keystore directory (default ~/.xdao/names)")
	keyType := fs.String("type", "ed25519", "key type: ed25519 or dilithium3")
	force := fs.Bool("force", false, "overwrite an existing key")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(errOut, "key init: --name is required")
		return 2
	}

	priv, err := generateKey(*keyType)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	ks, err := keys.CreateKeyStore(*dir)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	path, err := ks.Save(*name, priv, *force)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	pubName, err := naming.FromPublicKey(priv.Public())
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "%s\t%s\n", pubName, path)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dir := fs.String("dir", "", "keystore directory (default ~/.xdao/names)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ks, err := keys.CreateKeyStore(*dir)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	ids, err := ks.List()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "key identifier")
	dir := fs.String("dir", "", "keystore directory (default ~/.xdao/names)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(errOut, "key export: --name is required")
		return 2
	}
	ks, err := keys.CreateKeyStore(*dir)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	priv, err := ks.Load(*name)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	pubName, err := naming.FromPublicKey(priv.Public())
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, pubName)
	return 0
}

func cmdCreate(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(errOut)
	output := fs.String("output", "", "file to write the key to (default <name>.key)")
	keyType := fs.String("type", "ed25519", "key type: ed25519 or dilithium3")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	priv, err := generateKey(*keyType)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	pubName, err := naming.FromPublicKey(priv.Public())
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	path := *output
	if path == "" {
		path = pubName.String() + ".key"
	}
	if err := keys.WriteKeyFile(path, priv); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "wrote new key for %s to %s\n", pubName, path)
	return 0
}

func cmdResolve(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7777", "name store address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "resolve: expected exactly one name argument")
		return 2
	}
	name, err := naming.Parse(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	client, err := grpcstore.Dial(*addr, grpcstore.DialOptions{Timeout: 10 * time.Second})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer client.Close()

	sys := naming.NewSystem(client)
	rev, err := sys.Resolve(context.Background(), name)
	if err != nil {
		if rev != nil && naming.IsCode(err, naming.CodeExpiredRecord) {
			fmt.Fprintf(errOut, "warning: %v\n", err)
			fmt.Fprintln(out, rev.Value())
			return 0
		}
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, rev.Value())
	return 0
}

func cmdPublish(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7777", "name store address")
	keyFile := fs.String("key", "", "path to a key file (see create)")
	signer := fs.String("signer", "", "keystore identifier (see key init)")
	dir := fs.String("dir", "", "keystore directory (default ~/.xdao/names)")
	value := fs.String("value", "", "the value to publish")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *value == "" {
		fmt.Fprintln(errOut, "publish: --value is required")
		return 2
	}

	var (
		priv keys.PrivateKey
		err  error
	)
	switch {
	case *keyFile != "":
		priv, err = keys.ReadKeyFile(*keyFile)
	case *signer != "":
		var ks *keys.KeyStore
		ks, err = keys.CreateKeyStore(*dir)
		if err == nil {
			priv, err = ks.Load(*signer)
		}
	default:
		fmt.Fprintln(errOut, "publish: either --key or --signer is required")
		return 2
	}
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	client, err := grpcstore.Dial(*addr, grpcstore.DialOptions{Timeout: 10 * time.Second})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer client.Close()

	sys := naming.NewSystem(client)
	rev, err := sys.Publish(context.Background(), priv, *value)
	if err != nil {
		fmt.Fprintln(errOut, err)
		if naming.IsCode(err, naming.CodeSequenceConflict) {
			fmt.Fprintln(errOut, "another publisher won the race; rerun to retry against the fresh record")
		}
		return 1
	}
	fmt.Fprintf(out, "published new value for %s (seq %d): %s\n", rev.Name(), rev.Sequence(), rev.Value())
	return 0
}

func cmdParse(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var encoded string
	if fs.NArg() > 0 {
		encoded = fs.Arg(0)
	} else {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		encoded = string(b)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		fmt.Fprintln(errOut, "parse: record is not base64:", err)
		return 1
	}

	env, err := record.Decode(raw)
	if err != nil {
		fmt.Fprintln(errOut, "parse:", err)
		return 1
	}
	if len(env.PubKey) == 0 {
		fmt.Fprintln(errOut, "parse: record does not embed its public key")
		return 1
	}
	pub, err := keys.UnmarshalPublicKey(env.PubKey)
	if err != nil {
		fmt.Fprintln(errOut, "parse:", err)
		return 1
	}
	name, err := naming.FromPublicKey(pub)
	if err != nil {
		fmt.Fprintln(errOut, "parse:", err)
		return 1
	}

	res, verr := record.Validate(env, pub, record.Options{Now: time.Now()})
	fmt.Fprintf(out, "name:      %s\n", name)
	fmt.Fprintf(out, "key type:  %s\n", pub.Type())
	fmt.Fprintf(out, "value:     %s\n", env.Record.Value)
	fmt.Fprintf(out, "validity:  %s\n", env.Record.Validity)
	fmt.Fprintf(out, "sequence:  %d\n", env.Record.Sequence)
	fmt.Fprintf(out, "ttl:       %s\n", time.Duration(env.Record.TTL))
	fmt.Fprintf(out, "result:    %s\n", res)
	if verr != nil {
		fmt.Fprintf(out, "detail:    %v\n", verr)
	}
	if !res.Accepted() && res != record.Expired {
		return 1
	}
	return 0
}
