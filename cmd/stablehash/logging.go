package main

import (
	"github.com/streamingfast/cli"
	"github.com/streamingfast/logging"
)

var zlog, tracer = logging.RootLogger("stablehash", "github.com/streamingfast/stablehash/cmd/stablehash")

func init() {
	cli.SetLogger(zlog, tracer)
}
