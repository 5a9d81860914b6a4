package track

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilClientIsDisabled(t *testing.T) {
	c := New("", "run")
	assert.Nil(t, c)

	// All methods must be safe on the nil client.
	c.LogScalars(map[string]float64{"loss": 1})
	c.LogMessage("hello")
	c.Close()
}

func TestDeliversEvents(t *testing.T) {
	var mu sync.Mutex
	var got []Event

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	}))
	defer srv.Close()

	c := New(srv.URL, "wire_parrot_image_denoise__1")
	c.LogScalars(map[string]float64{"loss": 0.25, "psnr": 31.5})
	c.LogMessage("done")
	c.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, "wire_parrot_image_denoise__1", got[0].Run)
	assert.Equal(t, 0.25, got[0].Scalars["loss"])
	assert.Equal(t, "done", got[1].Message)
}

func TestUnreachableTrackerNeverBlocks(t *testing.T) {
	c := New("http://127.0.0.1:1/nowhere", "run")
	for i := 0; i < 10; i++ {
		c.LogScalars(map[string]float64{"loss": float64(i)})
	}
	c.Close()
}

func TestQueueOverflowDropsInsteadOfBlocking(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()

	c := New(srv.URL, "run")
	// Far more events than the queue holds; enqueue must never block.
	for i := 0; i < queueDepth*4; i++ {
		c.LogScalars(map[string]float64{"i": float64(i)})
	}
	close(block)
	c.Close()
}
