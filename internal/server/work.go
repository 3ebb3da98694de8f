package server

import (
	"fmt"
	"os"

	"github.com/hibiken/asynq"

	"ncs/internal/ncsapi"
)

// WorkInit runs the analysis-request worker. All produced results are
// placeholder stubs, see ncsapi.HandleAnalysisTask.
func WorkInit() {
	AppWork = ncsapi.InitWork()
	mux := asynq.NewServeMux()
	mux.HandleFunc(ncsapi.TypeAnalysisRun, ncsapi.HandleAnalysisTask(AppWork.Rdb))
	fmt.Println("[ NCS Worker is up, consuming the analysis queue ]")
	if err := AppWork.Aqs.Run(mux); err != nil {
		Logger.Error("Failed to run NCS Worker: " + err.Error())
		os.Exit(1)
	}
}
