//go:build ignore

// Smoke test against a running server:
//
//	go run scripts/smoke_api.go [-base http://localhost:3000/api] [-token JWT]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

var client = &http.Client{Timeout: 5 * time.Minute}

func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func step(title, method, url, token string, body interface{}, want int) bool {
	color.Yellow("\n%s", title)
	start := time.Now()
	resp, raw, err := sendRequest(method, url, token, body)
	if err != nil {
		color.Red("Failed: %v", err)
		return false
	}
	elapsed := time.Since(start).Round(time.Millisecond)
	if resp.StatusCode != want {
		color.Red("Status: %s (want %d) in %s", resp.Status, want, elapsed)
		prettyPrint(raw)
		return false
	}
	color.Green("Status: %s in %s", resp.Status, elapsed)
	prettyPrint(raw)
	return true
}

func main() {
	base := flag.String("base", "http://localhost:3000/api", "API base URL")
	token := flag.String("token", os.Getenv("SMOKE_TOKEN"), "JWT for protected routes")
	flag.Parse()

	color.Cyan("Starting intent API smoke test against %s", *base)

	ok := true
	ok = step("1. Health", "GET", *base+"/health", "", nil, 200) && ok
	ok = step("2. Parse a short message", "POST", *base+"/intent/v1/parse", *token,
		map[string]string{"text": "add buy milk and call mom to my tasks"}, 200) && ok
	ok = step("3. Parse the same message again (cache)", "POST", *base+"/intent/v1/parse", *token,
		map[string]string{"text": "add buy milk and call mom to my tasks"}, 200) && ok
	ok = step("4. Empty message is rejected", "POST", *base+"/intent/v1/parse", "",
		map[string]string{"text": "   "}, 400) && ok

	long := strings.Repeat("Remember to water the plants on the balcony. ", 800)
	ok = step("5. Long message is chunked", "POST", *base+"/intent/v1/parse", *token,
		map[string]string{"text": long}, 200) && ok

	if *token != "" {
		ok = step("6. Recent parse logs", "GET", *base+"/intent/v1/logs?limit=5", *token, nil, 200) && ok
	} else {
		color.Yellow("\n6. Recent parse logs skipped (no -token)")
	}

	if !ok {
		color.Red("\nSmoke test failed")
		os.Exit(1)
	}
	color.Green("\nSmoke test passed")
}
