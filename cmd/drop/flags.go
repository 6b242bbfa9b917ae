package main

import cli "gopkg.in/urfave/cli.v1"

var (
	dirFlag = cli.StringFlag{
		Name:  "dir",
		Value: "./drop",
		Usage: "storage directory for persistent drops",
	}
	httpAddrFlag = cli.StringFlag{
		Name:  "http-addr",
		Value: "127.0.0.1",
		Usage: "HTTP bind address",
	}
	httpPortFlag = cli.IntFlag{
		Name:  "http-port",
		Value: 8080,
		Usage: "HTTP bind port",
	}
	timeoutFlag = cli.IntFlag{
		Name:  "timeout",
		Value: 15,
		Usage: "TTL in seconds applied to every new drop",
	}
	requestTimeoutFlag = cli.IntFlag{
		Name:  "request-timeout",
		Value: 5,
		Usage: "per-HTTP-request timeout in seconds",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "127.0.0.1:8081",
		Usage: "admin HTTP bind address, empty disables it",
	}
	prefixCacheSizeFlag = cli.IntFlag{
		Name:  "prefix-cache-size",
		Value: 1024,
		Usage: "bounded size of the prefix-resolution cache",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: int(levelInfo),
		Usage: "log verbosity: 0=crit 1=error 2=warn 3=info 4=debug 5=trace",
	}
)
