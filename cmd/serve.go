package cmd

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/colmena/demand-sim/sim"
	"github.com/colmena/demand-sim/sim/trace"
)

var addr string // Listen address for serve

// simulationRequest is the body of POST /v1/simulations: a scenario in JSON
// plus an optional trace switch.
type simulationRequest struct {
	Scenario
	Trace bool `json:"trace"`
}

type simulationResponse struct {
	RunID  string              `json:"run_id"`
	Seed   int64               `json:"seed"`
	Result *sim.Result         `json:"result"`
	Trace  *trace.TraceSummary `json:"trace,omitempty"`
}

// newRouter wires the HTTP what-if endpoints.
func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/v1/simulations", handleSimulation)
	return r
}

// handleSimulation runs one scenario synchronously and returns its result.
// Unknown keys are rejected, as they are in scenario files.
func handleSimulation(c *gin.Context) {
	req := simulationRequest{Scenario: *newScenario()}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		logrus.Warnf("[serve] invalid json: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	runID := uuid.New().String()
	level := trace.TraceLevelNone
	if req.Trace {
		level = trace.TraceLevelDecisions
	}
	s, result, err := simulate(&req.Scenario, level)
	if err != nil {
		var de *sim.DesignError
		if errors.As(err, &de) {
			logrus.Errorf("[serve] run=%s design error: %v", runID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"run_id": runID, "error": err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"run_id": runID, "error": err.Error()})
		return
	}
	logrus.Infof("[serve] run=%s seed=%d revenue=%.2f", runID, req.Seed, result.TotalRevenue)

	resp := simulationResponse{RunID: runID, Seed: req.Seed, Result: result}
	if s.Trace().Enabled() {
		resp.Trace = trace.Summarize(s.Trace())
	}
	c.JSON(http.StatusOK, resp)
}

// serveCmd exposes simulations over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulations over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		closer := setupLogging(logLevel, logFile)
		defer closer.Close()

		listen := addr
		if !cmd.Flags().Changed("addr") {
			if v := os.Getenv(envAddr); v != "" {
				listen = v
			}
		}
		if !logrus.IsLevelEnabled(logrus.DebugLevel) {
			gin.SetMode(gin.ReleaseMode)
		}
		logrus.Infof("Serving simulations on %s", listen)
		if err := newRouter().Run(listen); err != nil {
			logrus.Fatalf("server stopped: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (default $"+envAddr+" when set)")
	rootCmd.AddCommand(serveCmd)
}
