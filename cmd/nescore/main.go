package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/golang/glog"
	"github.com/nevisdale/nescore/internal/cart"
	"github.com/nevisdale/nescore/internal/cpu"
	"github.com/nevisdale/nescore/internal/nes"
	"github.com/nevisdale/nescore/internal/ui"
	"github.com/pkg/profile"
)

const statsviewURL = "/debug/statsview"

var (
	romPath       = flag.String("rom", "", "path to an iNES rom")
	scale         = flag.Int("scale", 2, "window scale")
	tracePath     = flag.String("trace", "", "write a CPU trace to this file")
	profileMode   = flag.String("profile", "", "profile the run: cpu or mem")
	statsviewAddr = flag.String("statsview", "", "serve runtime stats on this address, e.g. localhost:12600")
	frames        = flag.Int("frames", 0, "stop after this many frames, 0 runs until interrupted")
	headless      = flag.Bool("headless", false, "run without a window")
	verifyPC      = flag.Bool("verify-pc", false, "check PC after every straight-line instruction")
)

func main() {
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		glog.Errorf("nescore: %s", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run() error {
	if *romPath == "" {
		flag.Usage()
		return fmt.Errorf("-rom is required")
	}

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profileMode)
	}

	if *statsviewAddr != "" {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(*statsviewAddr))
			mgr := statsview.New()
			mgr.Start()
		}()
		glog.Infof("stats server available at %s%s", *statsviewAddr, statsviewURL)
	}

	c, err := cart.LoadFile(*romPath)
	if err != nil {
		return err
	}

	var opts []nes.Option
	opts = append(opts, nes.WithVerifyPC(*verifyPC))
	if *tracePath != "" {
		f, err := os.Create(*tracePath)
		if err != nil {
			return fmt.Errorf("couldn't create the trace file: %w", err)
		}
		defer f.Close()
		w := bufio.NewWriter(f)
		defer w.Flush()
		tracer := cpu.NewLogTracer(w)
		defer func() {
			if err := tracer.Err(); err != nil {
				glog.Errorf("trace: %s", err)
			}
		}()
		opts = append(opts, nes.WithTracer(tracer))
	}

	con, err := nes.New(c, opts...)
	if err != nil {
		return err
	}

	if *headless {
		return runHeadless(con)
	}
	return ui.RunUI(ui.New(con, *scale), "nescore - "+filepath.Base(*romPath))
}

func runHeadless(con *nes.Console) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	err := con.Run(ctx, *frames)
	elapsed := time.Since(start)

	stats := con.Stats()
	glog.Infof("%s in %s (%.1f fps)", stats, elapsed.Round(time.Millisecond), float64(stats.Frames)/elapsed.Seconds())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
