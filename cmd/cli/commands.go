package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var client = &http.Client{Timeout: 20 * time.Second}

func startCommand() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start publishing to an RTMP ingest url",
		Long:  `Start publishing. Without --url the server falls back to its configured default url.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(map[string]string{"url": url})
			if err != nil {
				return err
			}
			return do(http.MethodPost, "/api/stream/start", body)
		},
	}
	cmd.Flags().StringVarP(&url, "url", "u", "", "RTMP ingest url, e.g. rtmp://host/app/key")
	return cmd
}

func postCommand(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return do(http.MethodPost, path, nil)
		},
	}
}

func getCommand(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return do(http.MethodGet, path, nil)
		},
	}
}

func do(method, path string, body []byte) error {
	url := strings.TrimSuffix(serverAddr, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		var apiErr struct {
			Code  string `json:"code"`
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Code != "" {
			return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if len(data) == 0 {
		fmt.Println("ok")
		return nil
	}

	var out bytes.Buffer
	if json.Indent(&out, data, "", "  ") != nil {
		_, err = os.Stdout.Write(data)
		return err
	}
	fmt.Println(out.String())
	return nil
}
