package stress

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/critsec/cmd/util"
	"github.com/ValentinKolb/critsec/lib/critical"
	"github.com/ValentinKolb/critsec/lib/critical/hosted"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var plog = logger.GetLogger("stress")

var (
	// StressCmd hammers the critical region from many goroutines and checks
	// that the mutual-exclusion guarantee held for every single entry
	StressCmd = &cobra.Command{
		Use:     "stress",
		Short:   "Stress the critical region and verify mutual exclusion",
		RunE:    runStress,
		PreRunE: processStressConfig,
	}

	// BenchCmd measures throughput of the critical-section operations
	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Benchmark critical-section operations",
		RunE:    runBench,
		PreRunE: processBenchConfig,
	}

	stressGoroutines = 8
	stressIterations = 10000
	stressNesting    = 1

	benchGoroutines = 8
	benchCSVPath    = ""
)

func init() {
	// add flags
	key := "goroutines"
	StressCmd.Flags().Int(key, 8, util.WrapString("Number of goroutines hammering the critical region"))
	key = "iterations"
	StressCmd.Flags().Int(key, 10000, util.WrapString("Region entries per goroutine"))
	key = "nesting"
	StressCmd.Flags().Int(key, 1, util.WrapString("Nesting depth per entry (1 = no nesting)"))

	key = "goroutines"
	BenchCmd.Flags().Int(key, 8, util.WrapString("Parallelism for the benchmarks"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processStressConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	stressGoroutines = viper.GetInt("goroutines")
	stressIterations = viper.GetInt("iterations")
	stressNesting = viper.GetInt("nesting")

	if stressGoroutines < 1 || stressIterations < 1 || stressNesting < 1 {
		return fmt.Errorf("goroutines, iterations and nesting must all be at least 1")
	}
	return nil
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	benchGoroutines = viper.GetInt("goroutines")
	benchCSVPath = viper.GetString("csv")
	return nil
}

// enterRegion enters the critical region depth times (nested) and runs body
// at the innermost level
func enterRegion(depth int, body func()) {
	critical.With(func(cs critical.CriticalSection) struct{} {
		if depth <= 1 {
			body()
		} else {
			enterRegion(depth-1, body)
		}
		return struct{}{}
	})
}

func runStress(_ *cobra.Command, _ []string) error {

	fmt.Println("Stress testing tool for the critsec critical region")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Goroutines: %d\n", stressGoroutines)
	fmt.Printf("Iterations: %d\n", stressIterations)
	fmt.Printf("Nesting:    %d\n", stressNesting)
	fmt.Println()

	var (
		inside     atomic.Int32
		violations atomic.Int64
		entries    int // protected by the critical region itself
		timer      = gometrics.NewTimer()
		wg         sync.WaitGroup
	)

	body := func() {
		if n := inside.Add(1); n != 1 {
			violations.Add(1)
		}
		entries++
		inside.Add(-1)
	}

	statsBefore := hosted.Get().Stats()
	start := time.Now()

	for i := 0; i < stressGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < stressIterations; j++ {
				t0 := time.Now()
				enterRegion(stressNesting, body)
				timer.UpdateSince(t0)
			}
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	statsAfter := hosted.Get().Stats()

	expected := stressGoroutines * stressIterations

	fmt.Println("Results:")
	fmt.Printf("Entries:     %d (expected %d)\n", entries, expected)
	fmt.Printf("Elapsed:     %v\n", elapsed)
	fmt.Printf("Throughput:  %.0f entries/s\n", float64(expected)/elapsed.Seconds())

	ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})
	fmt.Printf("Latency:     mean %.0f ns, p50 %.0f ns, p95 %.0f ns, p99 %.0f ns, max %d ns\n",
		timer.Mean(), ps[0], ps[1], ps[2], timer.Max())

	fmt.Printf("Provider:    %d outer, %d nested, %d contended acquisitions\n",
		statsAfter.OuterAcquires-statsBefore.OuterAcquires,
		statsAfter.NestedAcquires-statsBefore.NestedAcquires,
		statsAfter.ContendedAcquires-statsBefore.ContendedAcquires)

	if v := violations.Load(); v > 0 {
		plog.Errorf("mutual exclusion violated %d times", v)
		return fmt.Errorf("mutual exclusion violated %d times", v)
	}
	if entries != expected {
		return fmt.Errorf("lost updates inside the critical region: %d of %d entries", entries, expected)
	}

	fmt.Println()
	fmt.Println("OK - mutual exclusion held for every entry")
	return nil
}

func runBench(_ *cobra.Command, _ []string) error {

	fmt.Println("Benchmarking tool for the critsec critical region")
	fmt.Println()
	fmt.Printf("Parallelism: %d\n", benchGoroutines)
	fmt.Println()

	results := make(map[string]testing.BenchmarkResult)

	withResult := testing.Benchmark(func(b *testing.B) {
		b.SetParallelism(benchGoroutines)
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				critical.With(func(cs critical.CriticalSection) struct{} { return struct{}{} })
			}
		})
	})
	results["with"] = withResult
	printResult("with", withResult)

	nestedResult := testing.Benchmark(func(b *testing.B) {
		b.SetParallelism(benchGoroutines)
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				enterRegion(3, func() {})
			}
		})
	})
	results["with-nested-3"] = nestedResult
	printResult("with-nested-3", nestedResult)

	acquireResult := testing.Benchmark(func(b *testing.B) {
		b.SetParallelism(benchGoroutines)
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				token := critical.Acquire()
				critical.Release(token)
			}
		})
	})
	results["acquire-release"] = acquireResult
	printResult("acquire-release", acquireResult)

	if benchCSVPath != "" {
		return writeCSV(benchCSVPath, results)
	}
	return nil
}

func printResult(name string, r testing.BenchmarkResult) {
	fmt.Printf("%-20s %12d ops %14.1f ns/op\n", name, r.N, float64(r.T.Nanoseconds())/float64(r.N))
}

func writeCSV(path string, results map[string]testing.BenchmarkResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"benchmark", "ops", "ns_per_op"}); err != nil {
		return err
	}
	for name, r := range results {
		row := []string{
			name,
			strconv.Itoa(r.N),
			strconv.FormatFloat(float64(r.T.Nanoseconds())/float64(r.N), 'f', 1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	plog.Infof("benchmark results written to %s", path)
	return nil
}
