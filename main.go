package main

import "github.com/huanfeng/signcfg/cmd"

func main() {
	cmd.Execute()
}
