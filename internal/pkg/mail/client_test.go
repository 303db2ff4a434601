package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/newsletter/internal/pkg/secret"
	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "SG.test-token-value-that-must-not-leak"

type capturedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// provider is a simulated email provider that records every request.
type provider struct {
	*httptest.Server
	hits     atomic.Int32
	mu       sync.Mutex
	requests []capturedRequest
}

func newProvider(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *provider {
	t.Helper()

	p := &provider{}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		p.hits.Add(1)
		p.mu.Lock()
		p.requests = append(p.requests, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		p.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(p.Close)

	return p
}

func respondWith(status int) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}
}

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()

	client, err := NewClient(ClientConfig{
		BaseURL:            baseURL,
		Sender:             valueobject.MustParseEmail("sender@example.com"),
		AuthorizationToken: secret.New(testToken),
		Timeout:            timeout,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func recipient() valueobject.Email {
	return valueobject.MustParseEmail("test@example.com")
}

func TestNewClient_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		timeout time.Duration
		wantErr error
	}{
		{name: "empty url", baseURL: "", timeout: time.Second, wantErr: ErrInvalidBaseURL},
		{name: "unparsable url", baseURL: "http://[::1", timeout: time.Second, wantErr: ErrInvalidBaseURL},
		{name: "relative url", baseURL: "/v3", timeout: time.Second, wantErr: ErrInvalidBaseURL},
		{name: "unsupported scheme", baseURL: "ftp://example.com", timeout: time.Second, wantErr: ErrInvalidBaseURL},
		{name: "missing host", baseURL: "http://", timeout: time.Second, wantErr: ErrInvalidBaseURL},
		{name: "zero timeout", baseURL: "https://api.example.com", timeout: 0, wantErr: ErrInvalidTimeout},
		{name: "negative timeout", baseURL: "https://api.example.com", timeout: -time.Second, wantErr: ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := NewClient(ClientConfig{
				BaseURL:            tt.baseURL,
				Sender:             valueobject.MustParseEmail("sender@example.com"),
				AuthorizationToken: secret.New(testToken),
				Timeout:            tt.timeout,
			})

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, client)
		})
	}
}

func TestClient_SendEmail_SendsExpectedRequest(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := newProvider(t, respondWith(http.StatusOK))
	client := newTestClient(t, srv.URL, time.Second)

	// Act
	err := client.SendEmail(context.Background(), recipient(), "Hello", "<p>Hi</p>", "Hi")

	// Assert
	require.NoError(t, err)
	require.EqualValues(t, 1, srv.hits.Load())

	got := srv.requests[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/mail/send", got.Path)
	assert.Equal(t, "Bearer: "+testToken, got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(got.Body, &body))

	personalizations, ok := body["personalizations"].([]any)
	require.True(t, ok)
	require.Len(t, personalizations, 1)
	to := personalizations[0].(map[string]any)["to"].(map[string]any)
	assert.Equal(t, "test@example.com", to["email"])
	assert.Contains(t, to, "name")
	assert.Nil(t, to["name"])

	from, ok := body["from"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sender@example.com", from["email"])
	assert.Contains(t, from, "name")
	assert.Nil(t, from["name"])

	assert.Equal(t, "Hello", body["subject"])

	content, ok := body["content"].([]any)
	require.True(t, ok)
	require.Len(t, content, 2)
	assert.Equal(t, map[string]any{"type": "text/plain", "value": "Hi"}, content[0])
	assert.Equal(t, map[string]any{"type": "text/html", "value": "<p>Hi</p>"}, content[1])
}

func TestClient_SendEmail_ResolvesPathAgainstHost(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := newProvider(t, respondWith(http.StatusAccepted))
	client := newTestClient(t, srv.URL+"/v3/", time.Second)

	// Act
	err := client.SendEmail(context.Background(), recipient(), "Hello", "<p>Hi</p>", "Hi")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/mail/send", srv.requests[0].Path)
}

func TestClient_SendEmail_SucceedsOn2xx(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()

			// Arrange
			srv := newProvider(t, respondWith(status))
			client := newTestClient(t, srv.URL, time.Second)

			// Act
			err := client.SendEmail(context.Background(), recipient(), "Hello", "<p>Hi</p>", "Hi")

			// Assert
			require.NoError(t, err)
			assert.EqualValues(t, 1, srv.hits.Load())
		})
	}
}

func TestClient_SendEmail_FailsOnNon2xx(t *testing.T) {
	t.Parallel()

	statuses := []int{
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusServiceUnavailable,
	}

	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()

			// Arrange
			srv := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"errors":[{"message":"rejected"}]}`))
			})
			client := newTestClient(t, srv.URL, time.Second)

			// Act
			err := client.SendEmail(context.Background(), recipient(), "Hello", "<p>Hi</p>", "Hi")

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStatus)
			assert.NotErrorIs(t, err, ErrTransport)

			var sendErr *SendError
			require.ErrorAs(t, err, &sendErr)
			assert.Equal(t, KindStatus, sendErr.Kind)
			assert.Equal(t, status, sendErr.StatusCode)
			assert.NotContains(t, err.Error(), testToken)

			// no retry
			assert.EqualValues(t, 1, srv.hits.Load())
		})
	}
}

func TestClient_SendEmail_DoesNotFollowRedirects(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusMovedPermanently, http.StatusTemporaryRedirect, http.StatusPermanentRedirect} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()

			// Arrange
			srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == sendPath {
					http.Redirect(w, r, "/elsewhere", status)
					return
				}
				w.WriteHeader(http.StatusOK)
			})
			client := newTestClient(t, srv.URL, time.Second)

			// Act
			err := client.SendEmail(context.Background(), recipient(), "Hello", "<p>Hi</p>", "Hi")

			// Assert
			require.ErrorIs(t, err, ErrStatus)

			var sendErr *SendError
			require.ErrorAs(t, err, &sendErr)
			assert.Equal(t, status, sendErr.StatusCode)
			assert.EqualValues(t, 1, srv.hits.Load())

			srv.mu.Lock()
			defer srv.mu.Unlock()
			require.Len(t, srv.requests, 1)
			assert.Equal(t, sendPath, srv.requests[0].Path)
		})
	}
}

func TestClient_SendEmail_TimesOutWhenProviderIsSlow(t *testing.T) {
	t.Parallel()

	// Arrange
	release := make(chan struct{})
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(3 * time.Minute):
		case <-r.Context().Done():
		case <-release:
		}
		w.WriteHeader(http.StatusOK)
	})
	t.Cleanup(func() { close(release) })
	client := newTestClient(t, srv.URL, 200*time.Millisecond)

	// Act
	start := time.Now()
	err := client.SendEmail(context.Background(), recipient(), "Hello", "<p>Hi</p>", "Hi")
	elapsed := time.Since(start)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Less(t, elapsed, 2*time.Second)
	assert.NotContains(t, err.Error(), testToken)

	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, KindTransport, sendErr.Kind)
	assert.Zero(t, sendErr.StatusCode)
}

func TestClient_SendEmail_HonoursContextCancellation(t *testing.T) {
	t.Parallel()

	// Arrange
	release := make(chan struct{})
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
		w.WriteHeader(http.StatusOK)
	})
	t.Cleanup(func() { close(release) })
	client := newTestClient(t, srv.URL, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Act
	err := client.SendEmail(ctx, recipient(), "Hello", "<p>Hi</p>", "Hi")

	// Assert
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_SendEmail_FailsWhenProviderIsUnreachable(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(respondWith(http.StatusOK)))
	baseURL := srv.URL
	srv.Close()
	client := newTestClient(t, baseURL, time.Second)

	// Act
	err := client.SendEmail(context.Background(), recipient(), "Hello", "<p>Hi</p>", "Hi")

	// Assert
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotContains(t, err.Error(), testToken)
}

func TestClient_DoesNotExposeCredential(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "https://api.example.com", time.Second)

	for _, out := range []string{
		fmt.Sprintf("%v", client),
		fmt.Sprintf("%+v", client),
		fmt.Sprintf("%#v", client),
		fmt.Sprintf("%+v", *client),
		fmt.Sprintf("%#v", *client),
	} {
		assert.NotContains(t, out, testToken)
	}

	b, err := json.Marshal(client)
	require.NoError(t, err)
	assert.NotContains(t, string(b), testToken)
}

func TestClient_Send(t *testing.T) {
	t.Parallel()

	t.Run("delegates to SendEmail", func(t *testing.T) {
		t.Parallel()

		// Arrange
		srv := newProvider(t, respondWith(http.StatusOK))
		client := newTestClient(t, srv.URL, time.Second)

		// Act
		err := client.Send(context.Background(), Message{
			To:       recipient(),
			Subject:  "Hello",
			HTMLBody: "<p>Hi</p>",
			TextBody: "Hi",
		})

		// Assert
		require.NoError(t, err)
		assert.EqualValues(t, 1, srv.hits.Load())
	})

	t.Run("rejects missing recipient", func(t *testing.T) {
		t.Parallel()

		// Arrange
		srv := newProvider(t, respondWith(http.StatusOK))
		client := newTestClient(t, srv.URL, time.Second)

		// Act
		err := client.Send(context.Background(), Message{Subject: "Hello"})

		// Assert
		require.ErrorIs(t, err, ErrNoRecipient)
		assert.Zero(t, srv.hits.Load())
	})
}

func TestClient_SendEmail_IsSafeForConcurrentUse(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := newProvider(t, respondWith(http.StatusOK))
	client := newTestClient(t, srv.URL, 5*time.Second)

	const calls = 20
	errs := make(chan error, calls)

	// Act
	var wg sync.WaitGroup
	for i := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- client.SendEmail(context.Background(), recipient(), fmt.Sprintf("Hello %d", i), "<p>Hi</p>", "Hi")
		}()
	}
	wg.Wait()
	close(errs)

	// Assert
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, calls, srv.hits.Load())
}

func TestSendError(t *testing.T) {
	t.Parallel()

	cause := context.DeadlineExceeded

	transport := &SendError{Kind: KindTransport, Err: cause}
	status := &SendError{Kind: KindStatus, StatusCode: http.StatusBadGateway}

	assert.Equal(t, "mail: transport failure: context deadline exceeded", transport.Error())
	assert.Equal(t, "mail: provider responded with status 502", status.Error())
	assert.ErrorIs(t, transport, cause)
	assert.ErrorIs(t, transport, ErrTransport)
	assert.ErrorIs(t, status, ErrStatus)
	assert.NotErrorIs(t, status, ErrTransport)
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "status", KindStatus.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
