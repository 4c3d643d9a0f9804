// Copyright 2024 Intel Corporation. All Rights Reserved.
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

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/schedsim/schedsim/pkg/buddy"
	"github.com/schedsim/schedsim/pkg/clock"
	"github.com/schedsim/schedsim/pkg/ingress"
	logger "github.com/schedsim/schedsim/pkg/log"
	"github.com/schedsim/schedsim/pkg/metrics"
	"github.com/schedsim/schedsim/pkg/sched"
	"github.com/schedsim/schedsim/pkg/version"
	"github.com/schedsim/schedsim/pkg/worker"
	"github.com/schedsim/schedsim/pkg/workload"
)

// our logger instance
var log = logger.NewLogger("schedsim")

type options struct {
	workloadPath string
	tick         time.Duration
	logFile      string
	perfFile     string
	poolSize     int
	dumpMetrics  bool
	configPath   string
	debug        bool
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "schedsim <process-count> <algorithm-id> <quantum>",
		Short: "Discrete-time process scheduling simulator with buddy memory allocation",
		Long: `schedsim simulates scheduling a synthetic workload on a single CPU.

The three positional arguments are the number of processes the
generator will send, the scheduling algorithm (0 = HPF, 1 = SRTN,
2 = RR) and the round-robin quantum (ignored unless RR).`,
		Example: `  schedsim 5 0 0 --workload processes.txt
  schedsim 5 2 3 --workload processes.txt --tick 100ms`,
		Version:      version.String(),
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.workloadPath, "workload", "processes.txt", "workload file to feed to the scheduler")
	flags.DurationVar(&o.tick, "tick", clock.DefaultInterval, "wall-clock duration of one simulated tick")
	flags.StringVar(&o.logFile, "log-file", "scheduler.log", "file receiving a copy of the event lines, empty to disable")
	flags.StringVar(&o.perfFile, "perf-file", "scheduler.perf", "file receiving the run statistics, empty to disable")
	flags.IntVar(&o.poolSize, "pool", buddy.PoolSize, "memory pool size in bytes, a power of two")
	flags.BoolVar(&o.dumpMetrics, "dump-metrics", false, "dump prometheus metrics after the run")
	flags.StringVar(&o.configPath, "config", "", "YAML configuration file")
	flags.BoolVar(&o.debug, "debug", false, "enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, o *options, args []string) error {
	if o.configPath != "" {
		if err := o.loadConfigFile(cmd, o.configPath); err != nil {
			return err
		}
	}
	if o.debug {
		logger.SetDebug("*", true)
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count < 0 {
		return errors.Errorf("invalid process count %q", args[0])
	}
	algoID, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.Errorf("invalid algorithm id %q", args[1])
	}
	quantum := 0
	if algoID == sched.AlgoRR {
		if quantum, err = strconv.Atoi(args[2]); err != nil {
			return errors.Errorf("invalid quantum %q", args[2])
		}
	}

	policy, err := sched.NewPolicyByID(algoID, quantum)
	if err != nil {
		return err
	}
	pool, err := buddy.NewWithSize(o.poolSize)
	if err != nil {
		return err
	}

	procs, err := workload.Load(o.workloadPath)
	if err != nil {
		return err
	}
	if len(procs) != count {
		return errors.Errorf("process count %d does not match the %d processes in %q",
			count, len(procs), o.workloadPath)
	}

	eventOut := io.Writer(os.Stdout)
	if o.logFile != "" {
		f, err := os.Create(o.logFile)
		if err != nil {
			return errors.Wrap(err, "create log file")
		}
		defer f.Close()
		eventOut = io.MultiWriter(os.Stdout, f)
	}
	events := sched.NewEventLog(eventOut)
	stats := sched.NewRunStats()

	queue := ingress.NewQueue(len(procs) + 1)
	runner := worker.NewRunner()
	defer func() {
		if err := runner.Shutdown(); err != nil {
			log.Error("worker shutdown: %v", err)
		}
	}()

	clk := clock.NewSimClock(o.tick)
	clk.Start()
	defer clk.Stop()

	engine, err := sched.NewEngine(sched.Config{
		Clock:     clk,
		Source:    queue,
		Spawner:   runner,
		Policy:    policy,
		Allocator: pool,
		Events:    events,
		Stats:     stats,
		Expected:  len(procs),
	})
	if err != nil {
		return err
	}

	// On interrupt, destroy the ingress channel; the engine notices
	// on its next poll and winds down.
	var interrupted int32
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		if _, ok := <-sigs; ok {
			atomic.StoreInt32(&interrupted, 1)
			queue.Close()
		}
	}()

	// The generator role: feed each process into the channel at its
	// arrival tick.
	feeder := &errgroup.Group{}
	feeder.Go(func() error {
		pause := o.tick / 4
		if pause <= 0 {
			pause = time.Millisecond
		}
		for i := range procs {
			for clk.Now() < procs[i].ArrivalTime {
				time.Sleep(pause)
			}
			if err := queue.Send(procs[i]); err != nil {
				return err
			}
		}
		return nil
	})

	events.Banner(policy.Name())
	runErr := engine.Run()
	feedErr := feeder.Wait()

	if atomic.LoadInt32(&interrupted) == 1 && errors.Is(runErr, sched.ErrChannelClosed) {
		log.Info("interrupt received, ingress channel destroyed")
		return nil
	}
	if runErr != nil {
		return runErr
	}
	if feedErr != nil && !errors.Is(feedErr, sched.ErrChannelClosed) {
		return feedErr
	}

	if err := writeReport(stats, o.perfFile); err != nil {
		return err
	}
	if o.dumpMetrics {
		if err := dumpMetrics(engine, pool); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(stats *sched.RunStats, path string) error {
	if err := stats.WriteReport(os.Stdout); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create perf file")
	}
	defer f.Close()
	return stats.WriteReport(f)
}

func dumpMetrics(engine *sched.Engine, pool *buddy.Allocator) error {
	err := metrics.RegisterCollector("schedsim", func() (c prometheus.Collector, err error) {
		return metrics.NewRunCollector(func() metrics.RunSnapshot {
			s := engine.Stats().Snapshot()
			return metrics.RunSnapshot{
				Received:      s.Received,
				Finished:      s.Finished,
				TotalTicks:    s.TotalTicks,
				BusyTicks:     s.BusyTicks,
				AllocFailures: s.AllocFailures,
				BytesInUse:    pool.InUse(),
			}
		}), nil
	})
	if err != nil {
		return err
	}
	gatherer, err := metrics.NewMetricGatherer()
	if err != nil {
		return err
	}
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := 0.0
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			}
			fmt.Printf("%s %g\n", mf.GetName(), value)
		}
	}
	return nil
}
