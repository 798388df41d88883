package main

import "github.com/fathomhq/fathom/cmd"

func main() {
	cmd.Execute()
}
