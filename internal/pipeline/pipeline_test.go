package pipeline_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	gc "gopkg.in/check.v1"

	"github.com/textpipe/textpipe/internal/pipeline"
	"github.com/textpipe/textpipe/internal/stage"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(PipelineTestSuite))

type PipelineTestSuite struct{}

func factoriesFor(names ...string) []stage.Factory {
	factories := make([]stage.Factory, len(names))
	for i, n := range names {
		factories[i] = stage.NewRegistryFactory(n, "")
	}
	return factories
}

func runPipeline(c *gc.C, names []string, input string) string {
	logger, _ := test.NewNullLogger()
	p, err := pipeline.Build(factoriesFor(names...), 4, pipeline.WithLogger(logger))
	c.Assert(err, gc.IsNil)

	var out bytes.Buffer
	p.Start(strings.NewReader(input), &out)

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		c.Fatal("pipeline did not terminate")
	}
	return out.String()
}

func (s *PipelineTestSuite) TestScenario1SingleUpper(c *gc.C) {
	c.Assert(runPipeline(c, []string{"upper"}, "hello\n<END>\n"), gc.Equals, "HELLO\n")
}

func (s *PipelineTestSuite) TestScenario2MultiLine(c *gc.C) {
	c.Assert(runPipeline(c, []string{"upper"}, "hello\nworld\n<END>\n"), gc.Equals, "HELLO\nWORLD\n")
}

func (s *PipelineTestSuite) TestScenario3UpperReverse(c *gc.C) {
	c.Assert(runPipeline(c, []string{"upper", "reverse"}, "hello\n<END>\n"), gc.Equals, "OLLEH\n")
}

func (s *PipelineTestSuite) TestScenario4TrimUpperPrefix(c *gc.C) {
	c.Assert(runPipeline(c, []string{"trim", "upper", "prefix"}, "  test  \n<END>\n"), gc.Equals, "PREFIX:TEST\n")
}

func (s *PipelineTestSuite) TestScenario5AllSix(c *gc.C) {
	names := []string{"trim", "upper", "reverse", "prefix", "suffix", "lower"}
	c.Assert(runPipeline(c, names, "  hello  \n<END>\n"), gc.Equals, "prefix:olleh:suffix\n")
}

func (s *PipelineTestSuite) TestScenario6ImmediateEnd(c *gc.C) {
	c.Assert(runPipeline(c, []string{"upper"}, "<END>\n"), gc.Equals, "")
}

func (s *PipelineTestSuite) TestScenario7ThousandLines(c *gc.C) {
	var in bytes.Buffer
	var want bytes.Buffer
	for i := 1; i <= 1000; i++ {
		fmt.Fprintf(&in, "line%d\n", i)
		fmt.Fprintf(&want, "LINE%d\n", i)
	}
	in.WriteString("<END>\n")

	c.Assert(runPipeline(c, []string{"upper"}, in.String()), gc.Equals, want.String())
}

func (s *PipelineTestSuite) TestBuildRejectsEmptyStageList(c *gc.C) {
	_, err := pipeline.Build(nil, 4)
	c.Assert(err, gc.Equals, pipeline.ErrNoStages)
}

func (s *PipelineTestSuite) TestBuildRollsBackOnUnknownStage(c *gc.C) {
	factories := factoriesFor("upper", "not-a-real-stage")
	_, err := pipeline.Build(factories, 4)
	c.Assert(err, gc.ErrorMatches, `.*unknown stage "not-a-real-stage".*`)
}

func (s *PipelineTestSuite) TestStopIsIdempotentAfterNaturalShutdown(c *gc.C) {
	p, err := pipeline.Build(factoriesFor("upper"), 4)
	c.Assert(err, gc.IsNil)

	var out bytes.Buffer
	p.Start(strings.NewReader("hello\n<END>\n"), &out)

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		c.Fatal("pipeline did not terminate")
	}

	// Stop after the chain has already drained must not panic or block:
	// closing an already-closed buffer is a documented no-op (spec.md
	// §4.2, "idempotent close").
	p.Stop()
	c.Assert(out.String(), gc.Equals, "HELLO\n")
}
