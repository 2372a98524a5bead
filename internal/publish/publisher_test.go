package publish_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/nowpublish/internal/config"
	"github.com/waabox/nowpublish/internal/domain"
	"github.com/waabox/nowpublish/internal/poller"
	"github.com/waabox/nowpublish/internal/publish"
	"github.com/waabox/nowpublish/internal/resolver"
	"github.com/waabox/nowpublish/internal/servicenow"
	"github.com/waabox/nowpublish/internal/source"
)

type recordingSink struct {
	outputs map[string]string
	infos   []string
}

func (s *recordingSink) SetOutput(name, value string) {
	if s.outputs == nil {
		s.outputs = map[string]string{}
	}
	s.outputs[name] = value
}
func (s *recordingSink) Info(msg string) { s.infos = append(s.infos, msg) }

// fakeInstance serves the table, publish and progress endpoints.
type fakeInstance struct {
	t            *testing.T
	version      string
	publishCode  int
	publishBody  string
	publishQuery string
}

func (f *fakeInstance) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/now/table/sys_app/abc":
		json.NewEncoder(w).Encode(map[string]interface{}{"result": map[string]string{"version": f.version}})
	case "/api/sn_cicd/app_repo/publish":
		if r.Method != http.MethodPost {
			f.t.Errorf("expected POST, got %s", r.Method)
		}
		f.publishQuery = r.URL.RawQuery
		if f.publishCode != 0 {
			w.WriteHeader(f.publishCode)
			w.Write([]byte(f.publishBody))
			return
		}
		w.Write([]byte(`{"result":{"status":"0","status_label":"Pending","links":{"progress":{"id":"p1","url":"http://` + r.Host + `/api/sn_cicd/progress/p1"}}}}`))
	case "/api/sn_cicd/progress/p1":
		w.Write([]byte(`{"result":{"status":"2","status_label":"Successful","percent_complete":100,"status_message":"Published","status_detail":"done"}}`))
	default:
		http.NotFound(w, r)
	}
}

func newPublisher(t *testing.T, srv *httptest.Server, op config.Operation, sink domain.Sink) *publish.Publisher {
	t.Helper()
	client := servicenow.NewClient(op.Username, op.Password)
	remote := source.ForOperation(op, srv.URL, client, nil)
	local := source.NewManifest(op.Workspace, op.AppSysID, nil)
	res := resolver.New(op, remote, local, sink, nil)
	p := poller.New(client, sink, nil)
	p.Interval = 0
	return publish.NewPublisher(op, srv.URL, client, res, p, nil)
}

func autodetect() config.Operation {
	return config.Operation{
		Instance:    "devinstance",
		Username:    "admin",
		Password:    "secret",
		AppSysID:    "abc",
		Format:      domain.FormatAutoDetect,
		IncrementBy: 1,
		DevNotes:    "release notes",
	}
}

func TestPublish_EndToEnd(t *testing.T) {
	instance := &fakeInstance{t: t, version: "1.0.0"}
	srv := httptest.NewServer(instance)
	defer srv.Close()

	sink := &recordingSink{}
	outcome, err := newPublisher(t, srv, autodetect(), sink).Publish(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Published", outcome.Message)
	assert.Equal(t, "sys_id=abc&version=1.0.1&dev_notes=release%20notes", instance.publishQuery)
	assert.Equal(t, "1.0.0", sink.outputs[domain.OutputRollbackVersion])
	assert.Equal(t, "1.0.1", sink.outputs[domain.OutputNewVersion])
	assert.Equal(t, []string{"Current version is 1.0.0", "Pending", "Published", "done"}, sink.infos)
}

func TestPublish_ForbiddenIgnoresBody(t *testing.T) {
	instance := &fakeInstance{
		t:           t,
		version:     "1.0.0",
		publishCode: http.StatusForbidden,
		publishBody: `{"result":{"error":"not what the user sees"}}`,
	}
	srv := httptest.NewServer(instance)
	defer srv.Close()

	_, err := newPublisher(t, srv, autodetect(), &recordingSink{}).Publish(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindTransport))
	assert.Equal(t, "Forbidden. The user is not an admin or does not have the CICD role.", err.Error())
}

func TestPublish_UnmappedStatusUsesBody(t *testing.T) {
	instance := &fakeInstance{
		t:           t,
		version:     "1.0.0",
		publishCode: http.StatusBadRequest,
		publishBody: `{"result":{"error":"Version 1.0.1 already exists"}}`,
	}
	srv := httptest.NewServer(instance)
	defer srv.Close()

	_, err := newPublisher(t, srv, autodetect(), &recordingSink{}).Publish(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Version 1.0.1 already exists", err.Error())
}

func TestPublish_VersionNotFoundNeverSubmits(t *testing.T) {
	instance := &fakeInstance{t: t, version: "none"}
	srv := httptest.NewServer(instance)
	defer srv.Close()

	_, err := newPublisher(t, srv, autodetect(), &recordingSink{}).Publish(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
	assert.Empty(t, instance.publishQuery)
}

func TestPublish_ConnectionFailureUsesTransportText(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	op := autodetect()
	op.Format = domain.FormatExact
	op.Version = "2.0.0"
	_, err := newPublisher(t, srv, op, &recordingSink{}).Publish(context.Background())
	require.Error(t, err)

	var domainErr *domain.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.KindTransport, domainErr.Kind)
	assert.Contains(t, err.Error(), "executing request")
}

func TestPublisher_ParamsOrder(t *testing.T) {
	op := autodetect()
	op.AppSysID = ""
	op.Scope = "x_acme_app"
	op.DevNotes = ""
	p := publish.NewPublisher(op, "", nil, nil, nil, nil)

	assert.Equal(t, "scope=x_acme_app&version=3.0.0", p.Params("3.0.0").Encode())
}
