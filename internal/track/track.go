// Package track streams training progress to an optional remote tracker
// as JSON over HTTP. Everything is fire-and-forget: events that cannot be
// queued or delivered are dropped with a log line, and a failing tracker
// never slows down or aborts a run.
package track

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	queueDepth     = 256
	requestTimeout = 5 * time.Second
)

// Event is one tracker payload.
type Event struct {
	Run     string             `json:"run"`
	Time    time.Time          `json:"time"`
	Scalars map[string]float64 `json:"scalars,omitempty"`
	Message string             `json:"message,omitempty"`
}

// Client posts events to a tracker endpoint from a background goroutine.
type Client struct {
	url    string
	run    string
	http   *http.Client
	events chan Event

	closeOnce sync.Once
	done      chan struct{}
}

// New starts a client for the given endpoint. An empty URL returns nil,
// which every method treats as tracking disabled.
func New(url, runName string) *Client {
	if url == "" {
		return nil
	}
	c := &Client{
		url:    url,
		run:    runName,
		http:   &http.Client{Timeout: requestTimeout},
		events: make(chan Event, queueDepth),
		done:   make(chan struct{}),
	}
	go c.deliver()
	return c
}

// LogScalars queues a scalar event. Drops it when the queue is full.
func (c *Client) LogScalars(scalars map[string]float64) {
	if c == nil {
		return
	}
	c.enqueue(Event{Run: c.run, Time: time.Now(), Scalars: scalars})
}

// LogMessage queues a text event. Drops it when the queue is full.
func (c *Client) LogMessage(message string) {
	if c == nil {
		return
	}
	c.enqueue(Event{Run: c.run, Time: time.Now(), Message: message})
}

func (c *Client) enqueue(ev Event) {
	select {
	case c.events <- ev:
	default:
		log.Printf("track: queue full, dropping event for run %s", c.run)
	}
}

// Close flushes queued events and stops the delivery goroutine.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
		<-c.done
	})
}

func (c *Client) deliver() {
	defer close(c.done)
	for ev := range c.events {
		body, err := json.Marshal(ev)
		if err != nil {
			log.Printf("track: marshal event: %v", err)
			continue
		}
		resp, err := c.http.Post(c.url, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("track: post event: %v", err)
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= 300 {
			log.Printf("track: tracker returned %s", resp.Status)
		}
	}
}
