package main

import "github.com/careertools/resume-allocator/cmd"

func main() {
	cmd.Execute()
}
