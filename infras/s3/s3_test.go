package s3_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"pms/config"
	otelMocks "pms/infras/otel/mocks"
	"pms/infras/s3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method      string
	path        string
	contentType string
	body        []byte
}

func newServer(t *testing.T, status int) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		requests []recordedRequest
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mu.Lock()
		requests = append(requests, recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		})
		mu.Unlock()

		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return server, &requests
}

func newConfig(endpoint, publicDomain string) *config.Config {
	cfg := &config.Config{}
	cfg.External.S3.APIEndpoint = endpoint
	cfg.External.S3.PublicDomain = publicDomain
	cfg.External.S3.BucketName = "pms"
	cfg.External.S3.AccessKeyID = "key"
	cfg.External.S3.SecretAccessKey = "secret"
	cfg.External.S3.Region = "us-east-1"

	return cfg
}

func TestStorage_Upload(t *testing.T) {
	tests := []struct {
		name         string
		publicDomain string
		status       int
		wantURL      func(endpoint string) string
		wantErr      bool
	}{
		{
			name:         "public domain url",
			publicDomain: "https://files.example.com/",
			status:       http.StatusOK,
			wantURL:      func(string) string { return "https://files.example.com/reports/report.xlsx" },
		},
		{
			name:    "api endpoint url without public domain",
			status:  http.StatusOK,
			wantURL: func(endpoint string) string { return endpoint + "/pms/reports/report.xlsx" },
		},
		{
			name:    "storage rejects the object",
			status:  http.StatusForbidden,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, requests := newServer(t, tt.status)
			storage := s3.New(newConfig(server.URL, tt.publicDomain), otelMocks.NewOtel())

			url, err := storage.Upload(context.Background(), "reports", "report.xlsx", "text/plain", []byte("hello"))

			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, url)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantURL(server.URL), url)
			require.NotEmpty(t, *requests)

			last := (*requests)[len(*requests)-1]
			assert.Equal(t, http.MethodPut, last.method)
			assert.Equal(t, "/pms/reports/report.xlsx", last.path)
			assert.Equal(t, "text/plain", last.contentType)
			assert.Equal(t, "hello", string(last.body))
		})
	}
}
