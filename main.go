package main

import (
	"verifid.io/infrastructure"
	"verifid.io/infrastructure/env"
)

func init() {
	env.LoadEnv()
}

func main() {
	infrastructure.StartServer()
}
