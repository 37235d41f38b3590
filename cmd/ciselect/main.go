package main

import "github.com/edtechops/ciselect/cmd/ciselect/cmd"

func main() {
	cmd.Execute()
}
