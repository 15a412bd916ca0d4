package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL    string
	companyRUT string
	token      string
	timeout    time.Duration
)

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dteledger-cli",
		Short: "DTE ledger CLI tool",
		Long:  `A command line interface for the DTE ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the DTE ledger API")
	rootCmd.PersistentFlags().StringVar(&companyRUT, "company", "", "Company RUT to operate on")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (optional)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	periodCmd := &cobra.Command{
		Use:   "period",
		Short: "Accounting period operations",
	}
	periodCmd.AddCommand(&cobra.Command{
		Use:   "close <YYYY-MM> <closed-by>",
		Short: "Close an accounting period",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := fmt.Sprintf(`{"closed_by":%q}`, args[1])
			return request(http.MethodPost, "/api/v1/periods/"+args[0]+"/close", strings.NewReader(body))
		},
	})
	periodCmd.AddCommand(&cobra.Command{
		Use:   "status <YYYY-MM>",
		Short: "Show whether a period is closed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/periods/"+args[0], nil)
		},
	})
	rootCmd.AddCommand(periodCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "f29 <YYYY-MM>",
		Short: "Calculate the monthly VAT declaration figures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/reports/f29/"+args[0], nil)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "caf upload <file.xml>",
		Short: "Upload a folio authorization file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "upload" {
				return fmt.Errorf("unknown caf subcommand %q", args[0])
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			return request(http.MethodPost, "/api/v1/caf", f)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "entries",
		Short: "List posted accounting entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/entries", nil)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "rules",
		Short: "List learned classification rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/rules", nil)
		},
	})

	return rootCmd
}

func request(method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return err
	}

	if companyRUT != "" {
		req.Header.Set("X-Company-RUT", companyRUT)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, raw)
	}

	fmt.Println(prettyJSON(raw))
	return nil
}

func prettyJSON(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}

	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}

	return string(pretty)
}
