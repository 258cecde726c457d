package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_IndependentRegistries(t *testing.T) {
	// два экземпляра не должны паниковать на повторной регистрации
	a := New(prometheus.NewRegistry())
	b := New(nil)

	a.RecordRevision("length")
	if got := testutil.ToFloat64(b.RevisionsTotal.WithLabelValues("length")); got != 0 {
		t.Errorf("registries leaked: got %v", got)
	}
}

func TestRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordRun("accepted", 3*time.Second)
	m.RecordRevision("quality")
	m.RecordRevision("quality")
	m.RecordJudgeRejection()
	m.RecordJudgeScore(4.5)
	m.RecordLLMRequest("openai", "judge", "success", time.Second)

	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("accepted")); got != 1 {
		t.Errorf("runs accepted = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RevisionsTotal.WithLabelValues("quality")); got != 2 {
		t.Errorf("quality revisions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.JudgeRejectionsTotal); got != 1 {
		t.Errorf("judge rejections = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.JudgeOverall); got != 1 {
		t.Errorf("judge overall series = %d, want 1", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RecordRun("best_effort", time.Second)

	path := filepath.Join(t.TempDir(), "stories.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `bedtime_stories_runs_total{outcome="best_effort"} 1`) {
		t.Errorf("textfile missing run counter:\n%s", data)
	}
}
