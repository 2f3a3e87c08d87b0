package metrics_test

import (
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/textpipe/textpipe/internal/metrics"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(RecorderTestSuite))

// RecorderTestSuite shares a single Recorder across its tests: every
// Recorder registers against the default Prometheus registry, and
// registering the same metric name twice in one process panics.
type RecorderTestSuite struct {
	rec *metrics.Recorder
}

func (s *RecorderTestSuite) SetUpSuite(c *gc.C) {
	s.rec = metrics.NewRecorder()
}

func (s *RecorderTestSuite) TestIncProcessedAndDropped(c *gc.C) {
	before := s.rec.Processed("demo-stage")
	s.rec.IncProcessed("demo-stage")
	s.rec.IncProcessed("demo-stage")
	c.Assert(s.rec.Processed("demo-stage"), gc.Equals, before+2)

	beforeDropped := s.rec.Dropped("demo-stage")
	s.rec.IncDropped("demo-stage")
	c.Assert(s.rec.Dropped("demo-stage"), gc.Equals, beforeDropped+1)
}

func (s *RecorderTestSuite) TestNilRecorderIsSafe(c *gc.C) {
	var rec *metrics.Recorder
	rec.IncProcessed("whatever")
	rec.IncDropped("whatever")
	rec.SetBufferLen("whatever", 3)
}

func (s *RecorderTestSuite) TestDistinctStagesAreIndependent(c *gc.C) {
	s.rec.IncProcessed("stage-a")
	c.Assert(s.rec.Processed("stage-b"), gc.Equals, float64(0))
}
