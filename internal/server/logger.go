package server

import "github.com/sadlil/gologger"

var Logger gologger.GoLogger

func SetLogger(fileLog string) {
	if fileLog == "" {
		Logger = gologger.GetLogger(gologger.CONSOLE, gologger.SimpleLog)
	} else {
		Logger = gologger.GetLogger(gologger.FILE, fileLog)
	}
	Logger.Info("Start program")
}
