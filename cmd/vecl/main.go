package main

import "os"

func main() {
	os.Exit(run())
}

// run executes the root command and maps the result to a process exit
// code; factored out of main so testscript's RunMain can register it
// as the "vecl" subprocess command for golden CLI tests.
func run() int {
	if err := rootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}
