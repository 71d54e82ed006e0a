package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphStub struct {
	mu      sync.Mutex
	calls   []string
	bodies  []map[string]string
	create  func(w http.ResponseWriter)
	publish func(w http.ResponseWriter)
}

func (g *graphStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)

	g.mu.Lock()
	g.calls = append(g.calls, r.Method+" "+r.URL.Path)
	g.bodies = append(g.bodies, body)
	g.mu.Unlock()

	switch r.URL.Path {
	case "/biz/media":
		g.create(w)
	case "/biz/media_publish":
		g.publish(w)
	default:
		http.NotFound(w, r)
	}
}

func respond(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newStubPublisher(t *testing.T, stub *graphStub) Publisher {
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return NewGraphPublisher(PublishConfig{
		GraphAPIURL: srv.URL + "/",
		BusinessID:  "biz",
		AccessToken: "tok",
		Timeout:     2 * time.Second,
	})
}

var graphPost = &models.ScheduledPost{
	ID:       1,
	ImageURL: "https://example.com/a.jpg",
	Caption:  "sunny day",
	Platform: models.PlatformInstagram,
}

func TestGraphPublisherTwoPhaseSuccess(t *testing.T) {
	stub := &graphStub{
		create:  respond(http.StatusOK, `{"id":"c1"}`),
		publish: respond(http.StatusOK, `{"id":"p1"}`),
	}

	id, err := newStubPublisher(t, stub).Publish(context.Background(), graphPost)
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	require.Equal(t, []string{"POST /biz/media", "POST /biz/media_publish"}, stub.calls)
	assert.Equal(t, map[string]string{
		"image_url":    "https://example.com/a.jpg",
		"caption":      "sunny day",
		"access_token": "tok",
	}, stub.bodies[0])
	assert.Equal(t, map[string]string{
		"creation_id":  "c1",
		"access_token": "tok",
	}, stub.bodies[1])
}

func TestGraphPublisherCreateWithoutIDSkipsConfirm(t *testing.T) {
	stub := &graphStub{
		create:  respond(http.StatusOK, `{}`),
		publish: respond(http.StatusOK, `{"id":"p1"}`),
	}

	_, err := newStubPublisher(t, stub).Publish(context.Background(), graphPost)
	require.Error(t, err)

	var graphErr *GraphError
	require.True(t, errors.As(err, &graphErr))
	assert.Equal(t, StepCreate, graphErr.Step)
	assert.Equal(t, `{}`, err.Error())
	assert.Equal(t, []string{"POST /biz/media"}, stub.calls)
}

func TestGraphPublisherKeepsErrorBodyVerbatim(t *testing.T) {
	body := `{"error":{"message":"Invalid parameter","type":"OAuthException","code":100}}`
	stub := &graphStub{
		create:  respond(http.StatusOK, `{"id":"c1"}`),
		publish: respond(http.StatusBadRequest, body),
	}

	_, err := newStubPublisher(t, stub).Publish(context.Background(), graphPost)
	require.Error(t, err)

	var graphErr *GraphError
	require.True(t, errors.As(err, &graphErr))
	assert.Equal(t, StepPublish, graphErr.Step)
	assert.Equal(t, body, err.Error())
	assert.Len(t, stub.calls, 2)
}

func TestGraphPublisherAcceptsIDDespiteErrorStatus(t *testing.T) {
	stub := &graphStub{
		create:  respond(http.StatusAccepted, `{"id":"c1","extra":{"nested":true}}`),
		publish: respond(http.StatusOK, `{"id":"p9"}`),
	}

	id, err := newStubPublisher(t, stub).Publish(context.Background(), graphPost)
	require.NoError(t, err)
	assert.Equal(t, "p9", id)
}

func TestGraphPublisherTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"id":"c1"}`))
	}))
	t.Cleanup(srv.Close)

	pub := NewGraphPublisher(PublishConfig{
		GraphAPIURL: srv.URL,
		BusinessID:  "biz",
		AccessToken: "tok",
		Timeout:     20 * time.Millisecond,
	})

	_, err := pub.Publish(context.Background(), graphPost)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create request failed")
}

func TestParseGraphID(t *testing.T) {
	tests := []struct {
		name string
		body string
		id   string
		ok   bool
	}{
		{"string id", `{"id":"178"}`, "178", true},
		{"numeric id", `{"id":178}`, "178", true},
		{"empty object", `{}`, "", false},
		{"empty id", `{"id":""}`, "", false},
		{"null id", `{"id":null}`, "", false},
		{"not json", `<html>502</html>`, "", false},
		{"empty body", ``, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := parseGraphID([]byte(tt.body))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}
