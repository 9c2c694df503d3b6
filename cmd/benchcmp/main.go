// Command benchcmp compares two benchmark session files produced by
// `accel bench` and flags performance regressions.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

type comparison struct {
	Name    string
	Device  string
	Status  string // "PASS", "SLOWER", "FASTER", "FAIL"
	Speedup float64
	Message string
}

type session struct {
	RunID   string                  `json:"run_id"`
	Results []accel.BenchmarkResult `json:"results"`
}

func main() {
	var (
		baselineFile = flag.String("baseline", "", "baseline session file")
		currentFile  = flag.String("current", "", "current session file")
		perfRegress  = flag.Float64("perf-regress", 1.1, "regression threshold (1.1 = 10% slower)")
	)
	flag.Parse()

	if *baselineFile == "" || *currentFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	baseline, err := loadSession(*baselineFile)
	if err != nil {
		log.Fatalf("failed to load baseline: %v", err)
	}
	current, err := loadSession(*currentFile)
	if err != nil {
		log.Fatalf("failed to load current results: %v", err)
	}

	comparisons := compareSessions(baseline, current, *perfRegress)
	printSummary(baseline.RunID, current.RunID, comparisons)

	for _, c := range comparisons {
		if c.Status == "FAIL" || c.Status == "SLOWER" {
			os.Exit(1)
		}
	}
}

func loadSession(filename string) (session, error) {
	var s session
	data, err := os.ReadFile(filename)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// key identifies a workload run: the same workload timed on different
// devices compares independently.
func key(r accel.BenchmarkResult) string {
	return r.Name + "/" + r.Device
}

func compareSessions(baseline, current session, perfRegress float64) []comparison {
	currentMap := make(map[string]accel.BenchmarkResult, len(current.Results))
	for _, r := range current.Results {
		currentMap[key(r)] = r
	}

	comparisons := make([]comparison, 0, len(baseline.Results))
	for _, base := range baseline.Results {
		c := comparison{Name: base.Name, Device: base.Device}

		curr, ok := currentMap[key(base)]
		if !ok {
			c.Status = "FAIL"
			c.Message = "workload missing in current session"
			comparisons = append(comparisons, c)
			continue
		}
		if curr.Status != "pass" {
			c.Status = "FAIL"
			c.Message = "workload failed: " + curr.Error
			comparisons = append(comparisons, c)
			continue
		}

		c.Speedup = float64(base.Duration) / float64(curr.Duration)
		switch {
		case c.Speedup < 1.0/perfRegress:
			c.Status = "SLOWER"
			c.Message = fmt.Sprintf("%.2fx slower", 1.0/c.Speedup)
		case c.Speedup > 1.2:
			c.Status = "FASTER"
			c.Message = fmt.Sprintf("%.2fx faster", c.Speedup)
		default:
			c.Status = "PASS"
		}
		comparisons = append(comparisons, c)
	}
	return comparisons
}

func printSummary(baseRunID, currRunID string, comparisons []comparison) {
	fmt.Printf("baseline run %s vs current run %s\n\n", baseRunID, currRunID)

	statusCount := make(map[string]int)
	for _, c := range comparisons {
		statusCount[c.Status]++
		fmt.Printf("  %-7s %s/%s", c.Status, c.Name, c.Device)
		if c.Message != "" {
			fmt.Printf("  (%s)", c.Message)
		}
		fmt.Println()
	}

	fmt.Printf("\nTotal: %d  PASS: %d  FASTER: %d  SLOWER: %d  FAIL: %d\n",
		len(comparisons), statusCount["PASS"], statusCount["FASTER"],
		statusCount["SLOWER"], statusCount["FAIL"])
}
