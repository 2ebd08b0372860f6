package stablehash

import "github.com/streamingfast/logging"

var zlog, tracer = logging.PackageLogger("stablehash", "github.com/streamingfast/stablehash")
