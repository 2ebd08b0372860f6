package poi

import "github.com/streamingfast/logging"

var zlog, tracer = logging.PackageLogger("poi", "github.com/streamingfast/stablehash/poi")
