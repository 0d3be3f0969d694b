// Command revstep runs reversible random walks.
package main

import "github.com/sarchlab/revstep/revstep/cmd"

func main() {
	cmd.Execute()
}
