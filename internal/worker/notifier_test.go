package worker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPNotifier_Notify(t *testing.T) {
	var got []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		got, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	id := "d1"
	n := NewHTTPNotifier(server.URL, time.Second)
	err := n.Notify(context.Background(), Callback{
		DocumentID:       json.RawMessage(`42`),
		Status:           StatusCompleted,
		PythonDocumentID: &id,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"documentId":42,"status":"COMPLETED","pythonDocumentId":"d1","errorMessage":null}`, string(got))
}

func TestHTTPNotifier_Failures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewHTTPNotifier(server.URL, time.Second).Notify(context.Background(), Callback{Status: StatusFailed})
	assert.ErrorIs(t, err, ErrCallbackDelivery)
	assert.Contains(t, err.Error(), "500")

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	err = NewHTTPNotifier(closed.URL, time.Second).Notify(context.Background(), Callback{Status: StatusFailed})
	assert.ErrorIs(t, err, ErrCallbackDelivery)
}
