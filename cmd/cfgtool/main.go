// Command cfgtool loads a CFG construction payload, builds the
// directed-guidance control-flow graph engine from it, and exposes a
// handful of read-only queries against the result. It is a thin shell
// around internal/cfg and pkg/loader meant for local inspection and
// smoke-testing of a construction payload; the real consumer of the
// engine is the fuzzer driver, which embeds it directly rather than
// shelling out to this tool.
package main

import "github.com/dynguide/cfg-engine/cmd/cfgtool/cmd"

func main() {
	cmd.Execute()
}
