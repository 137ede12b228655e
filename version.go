package main

import (
	"fmt"

	"github.com/any-hub/blobcache/internal/version"
)

// printVersion 输出注入的版本、提交与运行平台。
func printVersion() {
	fmt.Fprintln(stdOut, version.Full())
}
