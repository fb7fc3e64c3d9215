package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "Conveyor.sub")
	p.OnParseComplete(ctx, "Conveyor.sub", 12, time.Second, nil)
	p.OnLayoutStart(ctx, 12)
	p.OnLayoutComplete(ctx, 0.16, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/render")
	h.OnResponse(ctx, "POST", "/v1/render", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("SetCacheHooks(nil) should keep the noop hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	rec := &testPipelineHooks{}
	SetPipelineHooks(rec)

	ctx := context.Background()
	Pipeline().OnParseComplete(ctx, "Conveyor.sub", 7, time.Millisecond, nil)
	Pipeline().OnLayoutComplete(ctx, 0.2, time.Millisecond, nil)

	if rec.instances != 7 || rec.scale != 0.2 {
		t.Errorf("recorded instances=%d scale=%v, want 7 and 0.2", rec.instances, rec.scale)
	}
}

type testPipelineHooks struct {
	NoopPipelineHooks
	instances int
	scale     float64
}

func (h *testPipelineHooks) OnParseComplete(_ context.Context, _ string, instances int, _ time.Duration, _ error) {
	h.instances = instances
}

func (h *testPipelineHooks) OnLayoutComplete(_ context.Context, scale float64, _ time.Duration, _ error) {
	h.scale = scale
}

type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestCounters(t *testing.T) {
	Reset()
	defer Reset()

	c := NewCounters()
	Use(c)
	ctx := context.Background()

	Pipeline().OnParseComplete(ctx, "Conveyor.sub", 3, time.Millisecond, nil)
	Pipeline().OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	Pipeline().OnParseComplete(ctx, "Broken.sub", 0, time.Millisecond, errors.New("bad x"))
	Cache().OnCacheMiss(ctx, "artifact")
	Cache().OnCacheSet(ctx, "artifact", 2048)
	Cache().OnCacheHit(ctx, "artifact")
	HTTP().OnRequest(ctx, "POST", "/v1/render")
	HTTP().OnResponse(ctx, "POST", "/v1/render", 200, time.Millisecond)
	HTTP().OnRequest(ctx, "POST", "/v1/render")
	HTTP().OnResponse(ctx, "POST", "/v1/render", 500, time.Millisecond)

	want := Snapshot{
		Conversions:  1,
		Failures:     1,
		CacheHits:    1,
		CacheMisses:  1,
		CachedBytes:  2048,
		Requests:     2,
		ServerErrors: 1,
	}
	if got := c.Snapshot(); got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}
