// Command arrowplan generates activity-on-arrow diagrams and critical path
// schedules from project activity files.
package main

import "github.com/papapumpkin/arrowplan/cmd"

func main() {
	cmd.Execute()
}
