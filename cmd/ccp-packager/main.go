package main

import "github.com/oshokin/ccp-packager/cmd/ccp-packager/cmd"

func main() {
	cmd.Execute()
}
