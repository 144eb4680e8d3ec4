package main

import "github.com/zkp2p/peer-cli/cmd"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Execute(cmd.Metadata{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
}
