package main

import "github.com/frahmantamala/account-management/cmd"

func main() {
	cmd.Execute()
}
