package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"xdao.co/names/store"
	"xdao.co/names/store/fsstore"
	"xdao.co/names/store/grpcstore"
	"xdao.co/names/store/inmem"
)

func main() {
	fs := flag.NewFlagSet("xdao-namegrpcd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7777", "listen address")
	dir := fs.String("dir", "", "record directory (empty keeps records in memory)")
	_ = fs.Parse(os.Args[1:])

	// The daemon is the serialization point that enforces the
	// greater-sequence write rule for its clients. With --dir records
	// survive restarts; without it they live in process memory.
	var st store.Store
	if *dir != "" {
		var err error
		st, err = fsstore.New(*dir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		st = inmem.New()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	srv := grpc.NewServer()
	grpcstore.RegisterNameStoreServer(srv, &grpcstore.Server{Store: st})

	fmt.Fprintf(os.Stdout, "xdao-namegrpcd listening on %s\n", *listen)
	if err := srv.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
