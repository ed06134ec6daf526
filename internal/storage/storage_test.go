package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(server *httptest.Server) *Client {
	return New(server.URL+"/", "service-key", "resumes", WithRetry(3, time.Millisecond))
}

func TestUpload(t *testing.T) {
	var gotPath, gotAuth, gotKey, gotUpsert, gotType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		gotUpsert = r.Header.Get("x-upsert")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"Key":"resumes/x"}`))
	}))
	defer server.Close()

	err := newTestClient(server).Upload(context.Background(), "/resumes/abc/resume.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/resumes/resumes/abc/resume.pdf", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "service-key", gotKey)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, "%PDF", string(gotBody))
}

func TestUpload_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, newTestClient(server).Upload(context.Background(), "a.pdf", nil, "application/pdf"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestUpload_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"new row violates row-level security policy"}`))
	}))
	defer server.Close()

	err := newTestClient(server).Upload(context.Background(), "a.pdf", nil, "application/pdf")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	var storageErr *Error
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, http.StatusForbidden, storageErr.StatusCode)
	assert.Contains(t, storageErr.Message, "row-level security")
}

func TestSignedURL(t *testing.T) {
	var gotPath string
	var gotBody map[string]int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"signedURL":"/object/sign/resumes/a.pdf?token=t"}`))
	}))
	defer server.Close()

	signed, err := newTestClient(server).SignedURL(context.Background(), "/a.pdf", 0)
	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/sign/resumes/a.pdf", gotPath)
	assert.Equal(t, 3600, gotBody["expiresIn"])
	assert.Equal(t, server.URL+"/storage/v1/object/sign/resumes/a.pdf?token=t", signed)
}

func TestSignedURL_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{"error":"Object not found"}`},
		{"empty url", http.StatusOK, `{}`},
		{"invalid json", http.StatusOK, `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server).SignedURL(context.Background(), "a.pdf", time.Minute)
			assert.Error(t, err)
		})
	}
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "a/b%20c.pdf", cleanPath("//a/b c.pdf"))
	assert.Equal(t, "resumes/x/resume.pdf", cleanPath("resumes/x/resume.pdf"))
}

func TestResumePDFPath(t *testing.T) {
	id := uuid.MustParse("8a4f1c9e-0000-4000-8000-000000000001")
	assert.Equal(t, "resumes/8a4f1c9e-0000-4000-8000-000000000001/resume.pdf", ResumePDFPath(id))
}
