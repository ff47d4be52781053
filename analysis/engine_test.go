// SPDX-License-Identifier: MIT
package analysis_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lca/analysis"
	"github.com/katalvlaran/lca/assemble"
	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/impact"
)

var empty = assemble.RawCell{}

// diagSnapshot: A = diag(2,3); B = [[1,1],[2,0]]; GWP co2=1, ch4=2.
func diagSnapshot(t *testing.T, version string) *assemble.Snapshot {
	t.Helper()
	procs := []core.Process{{Name: "Steel", ID: "P1"}, {Name: "Power", ID: "P2"}}
	ct := core.NewCharacterizationTable()
	require.NoError(t, ct.Add("co2", map[string]float64{"GWP": 1}))
	require.NoError(t, ct.Add("ch4", map[string]float64{"GWP": 2}))

	return &assemble.Snapshot{
		Version: version,
		Technology: assemble.RawTechnology{
			Processes: procs,
			Rows: []assemble.RawTechnologyRow{
				{Flow: "steel", FlowID: "F1", Cells: []assemble.RawCell{assemble.Cell(2, "kg"), empty}},
				{Flow: "electricity", FlowID: "F2", Cells: []assemble.RawCell{empty, assemble.Cell(3, "kWh")}},
			},
		},
		Intervention: assemble.RawIntervention{
			Processes: procs,
			Rows: []assemble.RawInterventionRow{
				{Flow: "ch4", Code: "E2", Unit: "kg", Values: []float64{2, 0}},
				{Flow: "co2", Code: "E1", Unit: "kg", Values: []float64{1, 1}},
			},
		},
		Characterization: ct,
	}
}

func static(s *assemble.Snapshot) analysis.Source {
	return analysis.SourceFunc(func(context.Context) (*assemble.Snapshot, error) { return s, nil })
}

func intp(n int) *int { return &n }

func TestCalculateEndToEnd(t *testing.T) {
	e := analysis.New(static(diagSnapshot(t, "v1")))
	res, err := e.Calculate(context.Background(), analysis.Request{Demand: []float64{4, 9}})
	require.NoError(t, err)

	require.NotEqual(t, uuid.Nil, res.ID)
	require.Equal(t, "v1", res.Version)
	require.Equal(t, core.DefaultCategory, res.Category)
	require.InDeltaSlice(t, []float64{2, 3}, res.Scaling, 1e-12)
	require.Equal(t, []string{"co2", "ch4"}, res.InventoryFlows)
	require.InDeltaSlice(t, []float64{5, 4}, res.Inventory, 1e-12)
	require.InDelta(t, 13.0, res.TotalImpact, 1e-12)
	require.Len(t, res.Contributions, 2)
	require.Equal(t, "Steel", res.Contributions[0].Process)
	require.InDelta(t, 10.0, res.Contributions[0].Value, 1e-12)
	require.InDelta(t, 3.0, res.Contributions[1].Value, 1e-12)
	require.Empty(t, res.Warnings)
}

func TestCalculateContributionsSumToTotal(t *testing.T) {
	e := analysis.New(static(diagSnapshot(t, "v1")))
	res, err := e.Calculate(context.Background(), analysis.Request{Demand: []float64{1.5, 7}})
	require.NoError(t, err)

	var sum float64
	for _, c := range res.Contributions {
		sum += c.Value
	}
	require.InDelta(t, res.TotalImpact, sum, 1e-9)
}

func TestCalculateZeroContributionDropped(t *testing.T) {
	e := analysis.New(static(diagSnapshot(t, "v1")))
	res, err := e.Calculate(context.Background(), analysis.Request{Demand: []float64{4, 0}})
	require.NoError(t, err)
	require.Equal(t, []impact.Contribution{{Process: "Steel", Value: 10}}, res.Contributions)
}

func TestCalculateUnknownCategoryWarns(t *testing.T) {
	e := analysis.New(static(diagSnapshot(t, "v1")))
	res, err := e.Calculate(context.Background(), analysis.Request{Demand: []float64{4, 9}, Category: "ODP"})
	require.NoError(t, err)
	require.Zero(t, res.TotalImpact)
	require.Empty(t, res.Contributions)
	require.Len(t, res.Warnings, 2)
	require.Equal(t, core.WarnLookupMiss, res.Warnings[0].Kind)
}

func TestCalculateCharacterizesOnce(t *testing.T) {
	var buf bytes.Buffer
	e := analysis.New(static(diagSnapshot(t, "v1")), analysis.WithLogger(log.New(&buf)))
	res, err := e.Calculate(context.Background(), analysis.Request{Demand: []float64{4, 9}, Category: "ODP"})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 2)
	require.Equal(t, 2, strings.Count(buf.String(), "characterization factor missing"))
	require.Equal(t, 1, strings.Count(buf.String(), "impact category not in characterization table"))

	buf.Reset()
	_, err = e.Calculate(context.Background(), analysis.Request{Demand: []float64{4, 9}})
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "impact category not in characterization table")
}

func TestPreparedCategories(t *testing.T) {
	e := analysis.New(static(diagSnapshot(t, "v1")))
	p, err := e.Prepare(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"GWP"}, p.Categories)
}

func TestCalculateErrors(t *testing.T) {
	singular := diagSnapshot(t, "sing")
	singular.Technology.Rows[0].Cells = []assemble.RawCell{assemble.Cell(1, "kg"), assemble.Cell(-1, "kg")}
	singular.Technology.Rows[1].Cells = []assemble.RawCell{assemble.Cell(-1, "kWh"), assemble.Cell(1, "kWh")}

	badUnit := diagSnapshot(t, "unit")
	badUnit.Technology.Rows[0].Cells[0] = assemble.Cell(2, "furlongs")

	tests := []struct {
		name string
		snap *assemble.Snapshot
		req  analysis.Request
		kind core.Kind
	}{
		{"demand too short", diagSnapshot(t, "v"), analysis.Request{Demand: []float64{4}}, core.KindDimensionMismatch},
		{"padding fills demand", diagSnapshot(t, "v"), analysis.Request{Demand: []float64{4}, NonProductColumns: intp(2)}, core.KindDimensionMismatch},
		{"singular", singular, analysis.Request{Demand: []float64{1, 1}}, core.KindSingularSystem},
		{"unknown unit", badUnit, analysis.Request{Demand: []float64{1, 1}}, core.KindUnitConversion},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := analysis.New(static(tc.snap)).Calculate(context.Background(), tc.req)
			require.Error(t, err)
			require.Equal(t, tc.kind, core.KindOf(err))
		})
	}
}

func TestCalculateNonProductPadding(t *testing.T) {
	e := analysis.New(static(diagSnapshot(t, "v1")), analysis.WithNonProductColumns(1))
	res, err := e.Calculate(context.Background(), analysis.Request{Demand: []float64{4}})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{2, 0}, res.Scaling, 1e-12)

	res, err = e.Calculate(context.Background(), analysis.Request{Demand: []float64{4, 9}, NonProductColumns: intp(0)})
	require.NoError(t, err)
	require.InDelta(t, 13.0, res.TotalImpact, 1e-12)
}

func TestCalculateSourceError(t *testing.T) {
	boom := errors.New("boom")
	e := analysis.New(analysis.SourceFunc(func(context.Context) (*assemble.Snapshot, error) { return nil, boom }))
	_, err := e.Calculate(context.Background(), analysis.Request{Demand: []float64{1, 1}})
	require.ErrorIs(t, err, boom)
	require.Equal(t, core.KindInternal, core.KindOf(err))

	e = analysis.New(analysis.SourceFunc(func(context.Context) (*assemble.Snapshot, error) { return nil, nil }))
	_, err = e.Calculate(context.Background(), analysis.Request{})
	require.ErrorIs(t, err, analysis.ErrNilSnapshot)
}

func TestCalculateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := analysis.New(static(diagSnapshot(t, "v1"))).Calculate(ctx, analysis.Request{Demand: []float64{4, 9}})
	require.ErrorIs(t, err, context.Canceled)
}

// TestCalculateCoProduct: one sawmill making lumber and chips is split into two
// single-output columns before solving.
func TestCalculateCoProduct(t *testing.T) {
	procs := []core.Process{{Name: "Sawmill", ID: "P1"}}
	ct := core.NewCharacterizationTable()
	require.NoError(t, ct.Add("co2", map[string]float64{"GWP": 1}))
	snap := &assemble.Snapshot{
		Version: "saw",
		Technology: assemble.RawTechnology{
			Processes: procs,
			Rows: []assemble.RawTechnologyRow{
				{Flow: "lumber", FlowID: "F1", Cells: []assemble.RawCell{assemble.Cell(10, "kg")}},
				{Flow: "chips", FlowID: "F2", Cells: []assemble.RawCell{assemble.Cell(30, "kg")}},
			},
		},
		Intervention: assemble.RawIntervention{
			Processes: procs,
			Rows:      []assemble.RawInterventionRow{{Flow: "co2", Code: "E1", Unit: "kg", Values: []float64{8}}},
		},
		Characterization: ct,
	}
	res, err := analysis.New(static(snap)).Calculate(context.Background(), analysis.Request{Demand: []float64{10, 0}})
	require.NoError(t, err)
	require.Equal(t, []string{"Sawmill_output_1", "Sawmill_output_2"}, res.Processes)
	require.InDeltaSlice(t, []float64{1, 0}, res.Scaling, 1e-12)
	require.InDelta(t, 2.0, res.TotalImpact, 1e-12)
}

type countingRecorder struct {
	mu     sync.Mutex
	kinds  []core.Kind
	misses int
	hits   int
}

func (r *countingRecorder) ObserveCalculation(k core.Kind, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, k)
}

func (r *countingRecorder) AddLookupMisses(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses += n
}

func (r *countingRecorder) ObserveCache(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	}
}

func TestCalculateRecordsMetrics(t *testing.T) {
	rec := &countingRecorder{}
	e := analysis.New(static(diagSnapshot(t, "v1")), analysis.WithRecorder(rec))
	ctx := context.Background()

	_, err := e.Calculate(ctx, analysis.Request{Demand: []float64{4, 9}})
	require.NoError(t, err)
	_, err = e.Calculate(ctx, analysis.Request{Demand: []float64{4, 9}, Category: "ODP"})
	require.NoError(t, err)
	_, err = e.Calculate(ctx, analysis.Request{Demand: []float64{4}})
	require.Error(t, err)

	require.Equal(t, []core.Kind{"", "", core.KindDimensionMismatch}, rec.kinds)
	require.Equal(t, 2, rec.misses)
	require.Equal(t, 2, rec.hits)
}

func TestEnginePreparesOncePerVersion(t *testing.T) {
	var calls atomic.Int32
	version := atomic.Value{}
	version.Store("v1")
	src := analysis.SourceFunc(func(context.Context) (*assemble.Snapshot, error) {
		calls.Add(1)
		return diagSnapshot(t, version.Load().(string)), nil
	})
	e := analysis.New(src)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.Calculate(context.Background(), analysis.Request{Demand: []float64{4, 9}})
			if assert.NoError(t, err) {
				assert.InDelta(t, 13.0, res.TotalImpact, 1e-12)
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 16, calls.Load())
	require.Equal(t, 1, e.Cache().Len())

	version.Store("v2")
	res, err := e.Calculate(context.Background(), analysis.Request{Demand: []float64{4, 9}})
	require.NoError(t, err)
	require.Equal(t, "v2", res.Version)
	require.Equal(t, 2, e.Cache().Len())
}
