package main

import (
	"ncs/internal/server"
)

func main() {
	server.ConfigLoad()
	server.WorkInit()
}
