package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/adbpilot"
	"github.com/aretw0/adbpilot/internal/runtime"
	httpAdapter "github.com/aretw0/adbpilot/pkg/adapters/http"
	"github.com/aretw0/adbpilot/pkg/adapters/memory"
	"github.com/aretw0/adbpilot/pkg/device"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contactsOutput = "Row: 0 display_name=Ana Souza, number=+5511988887777\n" +
	"Row: 1 display_name=Bruno Lima, number=+5521977776666\n"

func newServer(t *testing.T, opts ...httpAdapter.Option) (*httptest.Server, *memory.Channel) {
	t.Helper()
	ch := memory.NewChannel().
		On(device.CmdDevices, domain.CommandResult{Success: true, Output: "List of devices attached\nemulator-5554\tdevice\n"}).
		On(device.CmdContacts, domain.CommandResult{Success: true, Output: contactsOutput}).
		On("shell false", domain.CommandResult{Success: false, Error: "exit status 1"})
	pilot := adbpilot.New(
		adbpilot.WithChannel(ch),
		adbpilot.WithRunStore(memory.NewStore()),
		adbpilot.WithPacer(runtime.NoDelay{}),
	)
	handler, err := httpAdapter.NewHandler(pilot, opts...)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, ch
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServer_Info(t *testing.T) {
	srv, _ := newServer(t, httpAdapter.WithVersion("1.2.3\n"))

	resp, body := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "adbpilot", body["service"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	_, body = get(t, srv, "/health")
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_Status(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := get(t, srv, "/status")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["connected"])
	assert.Equal(t, "Found 1 device(s)", body["message"])
}

func TestServer_ScreenSize(t *testing.T) {
	srv, ch := newServer(t)

	resp, body := get(t, srv, "/screen-size")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(domain.DefaultScreenSize.Width), body["width"])

	ch.On(device.CmdScreenSize, domain.CommandResult{Success: true, Output: "Physical size: 1080x2340"})
	_, body = get(t, srv, "/screen-size")
	assert.Equal(t, float64(1080), body["width"])
	assert.Equal(t, float64(2340), body["height"])
}

func TestServer_ExecutePlan(t *testing.T) {
	srv, ch := newServer(t)

	resp, body := post(t, srv, "/execute-plan", `{"steps":[
		{"action":"tap","target":"100,200","reasoning":"focus"},
		{"action":"dance"},
		{"action":"key","target":"66"}
	]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["run_id"])

	results := body["results"].([]any)
	require.Len(t, results, 3)
	first := results[0].(map[string]any)
	assert.Equal(t, "tap", first["step"])
	assert.Equal(t, "focus", first["reasoning"])
	assert.Equal(t, true, first["success"])
	second := results[1].(map[string]any)
	assert.Equal(t, false, second["success"])
	assert.Equal(t, "Unknown action: dance", second["error"])

	assert.Equal(t, []string{"shell input tap 100 200", "shell input keyevent 66"}, ch.Commands())

	runID := body["run_id"].(string)
	resp, run := get(t, srv, "/runs/"+runID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, runID, run["id"])

	_, runs := get(t, srv, "/runs")
	assert.Equal(t, []any{runID}, runs["runs"])
}

func TestServer_ExecutePlanAcceptsNullFields(t *testing.T) {
	srv, ch := newServer(t)

	resp, body := post(t, srv, "/execute-plan", `{"steps":[
		{"action":"key","target":"66","reasoning":null,"text":null},
		{"action":"tap","target":"1,2","browser":null,"subject":null}
	]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %v", body)
	require.Len(t, body["results"], 2)
	assert.Equal(t, []string{"shell input keyevent 66", "shell input tap 1 2"}, ch.Commands())
}

func TestServer_ExecutePlanRejectsMissingSteps(t *testing.T) {
	t.Run("validated", func(t *testing.T) {
		srv, ch := newServer(t)
		resp, body := post(t, srv, "/execute-plan", `{"plan":[]}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.NotEmpty(t, body["detail"])
		assert.Empty(t, ch.Commands())
	})

	t.Run("unvalidated", func(t *testing.T) {
		srv, _ := newServer(t, httpAdapter.WithValidation(false))
		resp, body := post(t, srv, "/execute-plan", `{"plan":[]}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Steps array required", body["detail"])
	})

	t.Run("empty plan", func(t *testing.T) {
		srv, _ := newServer(t)
		resp, body := post(t, srv, "/execute-plan", `{"steps":[]}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body["results"])
	})
}

func TestServer_RawCommand(t *testing.T) {
	srv, _ := newServer(t)

	t.Run("missing command", func(t *testing.T) {
		resp, body := post(t, srv, "/adb", `{}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Missing 'command' field", body["detail"])
	})

	t.Run("channel failure", func(t *testing.T) {
		resp, body := post(t, srv, "/adb", `{"command":"shell false"}`)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "exit status 1", body["detail"])
	})

	t.Run("success", func(t *testing.T) {
		resp, body := post(t, srv, "/adb", `{"command":"devices"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.Contains(t, body["output"], "emulator-5554")
	})
}

func TestServer_DeviceActions(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    string
		command string
	}{
		{"open app", "/open-app", `{"packageName":"com.android.chrome"}`, "shell monkey -p com.android.chrome -c android.intent.category.LAUNCHER 1"},
		{"tap", "/tap", `{"x":10,"y":20}`, "shell input tap 10 20"},
		{"type", "/type", `{"text":"hello world"}`, `shell input text "hello%sworld"`},
		{"key as number", "/key", `{"keycode":4}`, "shell input keyevent 4"},
		{"key as string", "/key", `{"keycode":"66"}`, "shell input keyevent 66"},
		{"swipe", "/swipe", `{"x1":1,"y1":2,"x2":3,"y2":4}`, "shell input swipe 1 2 3 4 300"},
		{"call contact", "/call", `{"contact":"bruno"}`, "shell am start -a android.intent.action.CALL -d tel:+5521977776666"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, ch := newServer(t)
			resp, body := post(t, srv, tt.path, tt.body)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, true, body["success"], "body: %v", body)
			assert.Contains(t, ch.Commands(), tt.command)
		})
	}
}

func TestServer_RejectsInvalidBodies(t *testing.T) {
	srv, ch := newServer(t)

	for _, tc := range []struct{ path, body string }{
		{"/tap", `{"x":"left","y":20}`},
		{"/tap", `{"x":-1,"y":20}`},
		{"/whatsapp", `{"contact":"Ana"}`},
		{"/open-app", `{}`},
		{"/contacts/search", `{"query":""}`},
	} {
		resp, body := post(t, srv, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, tc.path+" "+tc.body)
		assert.NotEmpty(t, body["detail"])
	}
	assert.Empty(t, ch.Commands())
}

func TestServer_Contacts(t *testing.T) {
	srv, _ := newServer(t)

	_, body := get(t, srv, "/contacts")
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["contacts"], 2)

	_, body = post(t, srv, "/contacts/search", `{"query":"ANA"}`)
	assert.Equal(t, true, body["success"])
	contact := body["contact"].(map[string]any)
	assert.Equal(t, "Ana Souza", contact["name"])

	_, body = post(t, srv, "/contacts/search", `{"query":"zed"}`)
	assert.Equal(t, false, body["success"])
	assert.Nil(t, body["contact"])
	assert.Equal(t, []any{"Ana Souza", "Bruno Lima"}, body["suggestions"])
	assert.Contains(t, body["error"], `"zed"`)
}

func TestServer_UIDump(t *testing.T) {
	srv, ch := newServer(t)
	ch.On(device.Cat(device.DumpPath), domain.CommandResult{Success: true, Output: "<hierarchy/>"})

	_, body := get(t, srv, "/ui-dump")
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "<hierarchy/>", body["xml"])
}

func TestServer_ScreenshotFailure(t *testing.T) {
	srv, ch := newServer(t)
	ch.OnPrefix("shell screencap", domain.CommandResult{Success: false, Error: "no device"})

	resp, body := get(t, srv, "/screenshot")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body["detail"], "no device")
}

func TestServer_RunNotFound(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := get(t, srv, "/runs/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, domain.ErrRunNotFound.Error(), body["detail"])
}

func TestServer_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("adbpilot_up 1\n"))
	})
	srv, _ := newServer(t, httpAdapter.WithMetrics(metrics))

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
