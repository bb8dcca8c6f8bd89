package restyutil

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type recordingOutput struct {
	messages map[string]string
}

func (o *recordingOutput) Write(id string, contents string) {
	o.messages[id] = contents
}

func TestInstrumentClientWritesExchanges(t *testing.T) {
	// exchange dumps must arrive even when the default logger sits at
	// info level
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	output := &recordingOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, "test:restyutil", output)

	_, err := client.R().Get(server.URL)
	require.NoError(t, err)

	require.Len(t, output.messages, 1)
	require.Contains(t, output.messages["1"], "---- REQUEST ----")
	require.Contains(t, output.messages["1"], "---- RESPONSE ----")
	require.Contains(t, output.messages["1"], "<body>ok</body>")
}

func TestInstrumentClientWithoutOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := resty.New()
	InstrumentClient(client, "test:restyutil", nil)

	_, err := client.R().Get(server.URL)
	require.NoError(t, err)
}
