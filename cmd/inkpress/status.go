// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkpress/inkpress/internal/config"
)

// ServerStatus holds the probe results for a running server.
type ServerStatus struct {
	Addr  string `json:"addr"`
	Live  bool   `json:"live"`
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of a running Inkpress server",
		Long:  `Probe the health endpoints of a running Inkpress server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().String("metrics.addr", "", "metrics/health HTTP address to probe")

	return cmd
}

func runStatus(cmd *cobra.Command, jsonOutput bool) error {
	path, explicit, err := configPath(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path, explicit, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Metrics.Addr == "" {
		return fmt.Errorf("metrics address is not configured, nothing to probe")
	}

	status := probeServer(cfg.Metrics.Addr)

	if jsonOutput {
		encoded, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(encoded))
		return nil
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ADDR\tLIVE\tREADY\tERROR\n")
	fmt.Fprintf(w, "%s\t%v\t%v\t%s\n", status.Addr, status.Live, status.Ready, status.Error)
	if err := w.Flush(); err != nil {
		return err
	}
	cmd.Print(b.String())
	return nil
}

// probeServer checks the liveness and readiness endpoints.
func probeServer(addr string) ServerStatus {
	status := ServerStatus{Addr: addr}
	client := &http.Client{Timeout: 2 * time.Second}

	base := addr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	resp, err := client.Get(base + "/healthz/liveness")
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	resp.Body.Close()
	status.Live = resp.StatusCode == http.StatusOK

	resp, err = client.Get(base + "/healthz/readiness")
	if err != nil {
		status.Error = fmt.Sprintf("readiness probe failed: %v", err)
		return status
	}
	resp.Body.Close()
	status.Ready = resp.StatusCode == http.StatusOK

	return status
}
