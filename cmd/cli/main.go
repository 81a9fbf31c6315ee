package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "branchcash-cli",
		Short: "BranchCash CLI tool",
		Long:  `A command line interface for interacting with the BranchCash API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the BranchCash API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Reconciliation commands
	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconciliation operations",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a reconciliation and report discrepancies",
		Run: func(cmd *cobra.Command, args []string) {
			runReconcile()
		},
	}

	latestCmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent reconciliation report",
		Run: func(cmd *cobra.Command, args []string) {
			showReport(get("/api/v1/reconcile/latest"))
		},
	}

	reconcileCmd.AddCommand(runCmd)
	reconcileCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(reconcileCmd)

	// Movement commands
	movementCmd := &cobra.Command{
		Use:   "movement",
		Short: "Movement operations",
	}

	getCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Look up a movement by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showMovement(args[0])
		},
	}

	movementCmd.AddCommand(getCmd)
	rootCmd.AddCommand(movementCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) []byte {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func runReconcile() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/reconcile", "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Reconciliation FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	showReport(body)
}

func showReport(body []byte) {
	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Reconciliation PASSED: all branches consistent")
		return
	}

	fmt.Println("Reconciliation found discrepancies:")
	discrepancies, _ := result["discrepancies"].([]any)
	for _, item := range discrepancies {
		d, ok := item.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("  branch=%v recorded=%v computed=%v diff=%v\n",
			d["branch"], d["recorded"], d["computed"], d["diff"])
	}
}

func showMovement(id string) {
	body := get("/api/v1/movements/" + id)

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
