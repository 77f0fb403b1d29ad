// The lexatlas binary is the offline command line tool: it runs the
// analysis engines directly over local files.
package main

import "github.com/lexatlas/lexatlas/internal/interfaces/cli"

func main() {
	cli.Execute()
}
