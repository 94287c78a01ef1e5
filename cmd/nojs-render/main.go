// Command nojs-render serves, renders and inspects render runtime payloads.
package main

import (
	"os"

	"github.com/golang/glog"
)

func main() {
	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
