// Command seed_catalog uploads a class schedule CSV to a running server,
// logging in as the configured admin first. Intended for local development
// and for re-seeding staging after a semester rollover.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResult struct {
	Data struct {
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

type importResult struct {
	Data struct {
		Semester     string `json:"semester"`
		CourseCount  int    `json:"courseCount"`
		SectionCount int    `json:"sectionCount"`
		SkippedRows  int    `json:"skippedRows"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	var (
		base     string
		csvPath  string
		semester string
		email    string
		password string
		timeout  time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL")
	flag.StringVar(&csvPath, "csv", "", "Path to the schedule CSV file")
	flag.StringVar(&semester, "semester", "", "Semester label (detected from the file when empty)")
	flag.StringVar(&email, "email", "admin@localhost", "Admin email")
	flag.StringVar(&password, "password", "", "Admin password")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()

	if csvPath == "" {
		log.Fatal("the -csv flag is required")
	}
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if password == "" {
		log.Fatal("set -password or the ADMIN_PASSWORD environment variable")
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		log.Fatalf("failed to read %s: %v", csvPath, err)
	}

	client := &http.Client{Timeout: timeout}

	token, err := login(client, base, email, password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	result, err := upload(client, base, token, semester, data)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("imported %q: %d courses, %d sections, %d rows skipped\n",
		result.Data.Semester, result.Data.CourseCount, result.Data.SectionCount, result.Data.SkippedRows)
}

func login(client *http.Client, base, email, password string) (string, error) {
	body, err := json.Marshal(loginPayload{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	resp, err := client.Post(base+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, payload)
	}

	var result loginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Data.AccessToken == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return result.Data.AccessToken, nil
}

func upload(client *http.Client, base, token, semester string, data []byte) (*importResult, error) {
	target := base + "/admin/catalog/import-csv"
	if semester != "" {
		target += "?semester=" + url.QueryEscape(semester)
	}

	req, err := http.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result importResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		if result.Error != nil {
			return nil, fmt.Errorf("%s: %s", result.Error.Code, result.Error.Message)
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return &result, nil
}
