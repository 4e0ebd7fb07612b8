package main

// @title Jobmatch Assistant APIs
// @version 1.0
// @description Conversational job-preference assistant: accumulates preferences per session, asks clarifying questions and ranks a job catalog.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:9089
// @BasePath /
// @schemes http
import (
	"os"

	_ "jobmatch-assistant/docs"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}
}
