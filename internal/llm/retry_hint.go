package llm

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// RetryHintParser extracts a server suggested retry delay from the body of a
// rate limited response.
type RetryHintParser interface {
	ParseRetryHint(body []byte) (time.Duration, bool)
}

// RetryHintFunc adapts a function to RetryHintParser.
type RetryHintFunc func(body []byte) (time.Duration, bool)

func (f RetryHintFunc) ParseRetryHint(body []byte) (time.Duration, bool) { return f(body) }

const retryInfoType = "type.googleapis.com/google.rpc.RetryInfo"

// GoogleRetryInfoParser reads the google.rpc.RetryInfo detail of a Google API
// error body:
//
//	{"error": {"details": [{"@type": ".../google.rpc.RetryInfo", "retryDelay": "7s"}]}}
type GoogleRetryInfoParser struct{}

type googleErrorBody struct {
	Error struct {
		Details []struct {
			Type       string `json:"@type"`
			RetryDelay string `json:"retryDelay"`
		} `json:"details"`
	} `json:"error"`
}

func (GoogleRetryInfoParser) ParseRetryHint(body []byte) (time.Duration, bool) {
	if len(body) == 0 {
		return 0, false
	}
	var parsed googleErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, false
	}
	for _, d := range parsed.Error.Details {
		if d.Type != retryInfoType || d.RetryDelay == "" {
			continue
		}
		if delay, ok := parseDelay(d.RetryDelay); ok {
			return delay, true
		}
	}
	return 0, false
}

func parseDelay(raw string) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d, true
	}
	secs, err := strconv.ParseFloat(strings.TrimSuffix(raw, "s"), 64)
	if err != nil || secs <= 0 {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}
