//go:build debug

package debug

import (
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
)

const Enabled = true

var logger = log.New(os.Stderr, "|XMLPUSH| ", log.Lmicroseconds)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Printf prints debug messages. Only available if compiled with "debug" tag
func Printf(f string, args ...interface{}) {
	logger.Printf(f, args...)
}

// Dump prints the structure of v, used to inspect parser state
// between tokens.
func Dump(v ...interface{}) {
	logger.Print(dumper.Sdump(v...))
}
