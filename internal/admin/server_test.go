package admin_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/textpipe/textpipe/internal/admin"
	"github.com/textpipe/textpipe/internal/metrics"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(ServerTestSuite))

type ServerTestSuite struct{}

func (s *ServerTestSuite) TestHealthzNotReadyThenReady(c *gc.C) {
	srv := admin.NewServer([]string{"upper"}, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	c.Assert(err, gc.IsNil)
	c.Assert(resp.StatusCode, gc.Equals, http.StatusServiceUnavailable)

	srv.Ready()

	resp, err = http.Get(ts.URL + "/healthz")
	c.Assert(err, gc.IsNil)
	c.Assert(resp.StatusCode, gc.Equals, http.StatusOK)
}

func (s *ServerTestSuite) TestStagesReportsRecorderCounts(c *gc.C) {
	rec := metrics.NewRecorder()
	rec.IncProcessed("upper")
	rec.IncProcessed("upper")
	rec.IncDropped("upper")

	srv := admin.NewServer([]string{"upper", "lower"}, rec)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/stages")
	c.Assert(err, gc.IsNil)
	defer resp.Body.Close()

	var stats []admin.StageStats
	c.Assert(json.NewDecoder(resp.Body).Decode(&stats), gc.IsNil)
	c.Assert(stats, gc.HasLen, 2)
	c.Assert(stats[0].Name, gc.Equals, "upper")
	c.Assert(stats[0].Processed, gc.Equals, float64(2))
	c.Assert(stats[0].Dropped, gc.Equals, float64(1))
}

func (s *ServerTestSuite) TestMetricsEndpointServesPrometheusFormat(c *gc.C) {
	srv := admin.NewServer(nil, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	c.Assert(err, gc.IsNil)
	c.Assert(resp.StatusCode, gc.Equals, http.StatusOK)
}
