// benchmark measures headless simulation throughput: ticks per second and
// render cost for a frame of the given size, with output discarded.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/lixenwraith/asnow/constant"
	"github.com/lixenwraith/asnow/scenery"
	"github.com/lixenwraith/asnow/sim"
	"github.com/lixenwraith/asnow/terminal"
)

var (
	duration    = flag.Duration("duration", 5*time.Second, "Benchmark duration")
	columns     = flag.Int("columns", 0, "Frame width (0 = current terminal)")
	rows        = flag.Int("rows", 0, "Frame height (0 = current terminal)")
	intensity   = flag.Int("intensity", constant.MaxSnow, "Active flakes")
	temperature = flag.Float64("temperature", constant.DefaultTemperature, "Temperature in °C")
)

func main() {
	flag.Parse()
	if *columns <= 0 || *rows <= 0 {
		*columns, *rows = terminal.Size()
	}

	s, err := sim.New(sim.Config{
		Columns:     *columns,
		Rows:        *rows,
		Intensity:   *intensity,
		Temperature: *temperature,
		Seed:        1,
		Scenery:     scenery.Options{Trees: constant.DefaultTrees, Ground: true, Moon: true},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		os.Exit(1)
	}

	var ticks, landed, melts int64
	var tickTotal, renderTotal time.Duration
	start := time.Now()

	for time.Since(start) < *duration {
		t0 := time.Now()
		st, err := s.Tick()
		if err != nil {
			fmt.Fprintf(os.Stderr, "tick: %v\n", err)
			os.Exit(1)
		}
		tickTotal += time.Since(t0)

		t1 := time.Now()
		if err := s.Screen().Render(io.Discard); err != nil {
			fmt.Fprintf(os.Stderr, "render: %v\n", err)
			os.Exit(1)
		}
		renderTotal += time.Since(t1)

		ticks++
		landed += int64(st.Landed)
		if st.MeltPass {
			melts++
		}
	}

	elapsed := time.Since(start)
	if ticks == 0 {
		fmt.Println("no ticks completed")
		return
	}

	fmt.Printf("Benchmark Results:\n")
	fmt.Printf("  Resolution:   %dx%d (%d cells)\n", *columns, *rows, *columns**rows)
	fmt.Printf("  Flakes:       %d\n", s.Intensity())
	fmt.Printf("  Total Ticks:  %d\n", ticks)
	fmt.Printf("  Total Time:   %v\n", elapsed)
	fmt.Printf("  Ticks/sec:    %.2f\n", float64(ticks)/elapsed.Seconds())
	fmt.Printf("  Avg Tick:     %v\n", tickTotal/time.Duration(ticks))
	fmt.Printf("  Avg Render:   %v\n", renderTotal/time.Duration(ticks))
	fmt.Printf("  Landed:       %d\n", landed)
	fmt.Printf("  Melt Passes:  %d\n", melts)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Printf("  Total Alloc:  %d bytes\n", m.TotalAlloc)
	fmt.Printf("  Mallocs:      %d\n", m.Mallocs)
}
