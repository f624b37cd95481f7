// phiscrub redacts protected health information from clinical notes.
package main

import "github.com/ppiankov/phiscrub/internal/cli"

func main() {
	cli.Execute()
}
