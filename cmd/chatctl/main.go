package main

import "github.com/nfrund/livechat/cmd/chatctl/cmd"

func main() {
	cmd.Execute()
}
