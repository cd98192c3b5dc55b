// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/postmeta/pkg/status"
)

const metricsNamespace = "postmeta"

// 📈 Recorder holds the gauges of the last run
type Recorder struct {
	postsPublished prom.Gauge
	pagesWritten   prom.Gauge
	postTotal      prom.Gauge
	pageTotal      prom.Gauge
	files          *prom.GaugeVec
	runDuration    prom.Gauge
}

// NewRecorder constructs the run metrics and registers them with reg
func NewRecorder(reg *prom.Registry) *Recorder {
	r := &Recorder{
		postsPublished: prom.NewGauge(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "posts_published",
			Help:      "New posts published by the last run",
		}),
		pagesWritten: prom.NewGauge(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "pages_opened",
			Help:      "New pages opened by the last run",
		}),
		postTotal: prom.NewGauge(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "post_count",
			Help:      "Posts listed by the comprehensive",
		}),
		pageTotal: prom.NewGauge(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "page_count",
			Help:      "Pages listed by the comprehensive",
		}),
		files: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "files",
			Help:      "Files handled by the last run by status",
		}, []string{"status"}),
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run",
		}),
	}
	reg.MustRegister(r.postsPublished, r.pagesWritten, r.postTotal, r.pageTotal, r.files, r.runDuration)
	return r
}

// Observe records a finished run
func (r *Recorder) Observe(res *Result) {
	r.postsPublished.Set(float64(res.Posts))
	r.pagesWritten.Set(float64(res.Pages))
	if res.Comprehensive != nil {
		r.postTotal.Set(float64(res.Comprehensive.PostCount))
		r.pageTotal.Set(float64(res.Comprehensive.PageCount))
	}
	r.files.WithLabelValues(status.StatusNew.String()).Set(float64(res.Summary.New))
	r.files.WithLabelValues(status.StatusModified.String()).Set(float64(res.Summary.Modified))
	r.files.WithLabelValues(status.StatusUnchanged.String()).Set(float64(res.Summary.Unchanged))
	r.runDuration.Set(res.Duration.Seconds())
}

// WriteMetrics writes the metrics of a run in the node exporter textfile
// format
func WriteMetrics(path string, res *Result) error {
	reg := prom.NewRegistry()
	NewRecorder(reg).Observe(res)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return errors.Errorf("writing textfile: %w", err)
	}
	return nil
}
