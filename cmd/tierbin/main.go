// Command tierbin seals payloads into tierbin frames and opens them again.
//
//	tierbin seal -c tierbin.yaml --compression zstd payload.bin -o payload.tb
//	tierbin inspect payload.tb
//	tierbin open payload.tb > payload.bin
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
