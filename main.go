package main

import "url-monitor/cmd"

func main() {
	cmd.Execute()
}
