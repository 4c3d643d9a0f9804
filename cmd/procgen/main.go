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
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/schedsim/schedsim/pkg/sched"
	"github.com/schedsim/schedsim/pkg/version"
	"github.com/schedsim/schedsim/pkg/workload"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "procgen",
		Short:        "Workload generator and interactive front-end for schedsim",
		Version:      version.String(),
		SilenceUsage: true,
	}
	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newRunCommand())
	return cmd
}

func newGenerateCommand() *cobra.Command {
	var (
		count  int
		output string
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random workload file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.Errorf("invalid process count %d", count)
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			f, err := os.Create(output)
			if err != nil {
				return errors.Wrap(err, "create workload file")
			}
			defer f.Close()
			if err := workload.Generate(f, count, rand.New(rand.NewSource(seed))); err != nil {
				return err
			}
			fmt.Printf("wrote %d processes to %s\n", count, output)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of processes to generate")
	cmd.Flags().StringVarP(&output, "output", "o", "processes.txt", "output workload file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	cobra.CheckErr(cmd.MarkFlagRequired("count"))
	return cmd
}

func newRunCommand() *cobra.Command {
	var (
		workloadPath string
		scheduler    string
		tick         time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Pick a scheduling algorithm interactively and run the scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			procs, err := workload.Load(workloadPath)
			if err != nil {
				return err
			}

			in := bufio.NewReader(os.Stdin)
			fmt.Println("[0]HPF   [1]SRTN   [2]RR")
			fmt.Print("Please, choose a scheduling algo: ")
			algo, err := readInt(in)
			if err != nil {
				return err
			}
			if algo < sched.AlgoHPF || algo > sched.AlgoRR {
				return errors.Errorf("wrong input %d", algo)
			}
			quantum := 0
			if algo == sched.AlgoRR {
				fmt.Print("Enter the quantum size: ")
				if quantum, err = readInt(in); err != nil {
					return err
				}
			}

			sim := exec.Command(scheduler,
				strconv.Itoa(len(procs)), strconv.Itoa(algo), strconv.Itoa(quantum),
				"--workload", workloadPath, "--tick", tick.String())
			sim.Stdout = os.Stdout
			sim.Stderr = os.Stderr
			return errors.Wrapf(sim.Run(), "run %s", scheduler)
		},
	}
	cmd.Flags().StringVar(&workloadPath, "workload", "processes.txt", "workload file to run")
	cmd.Flags().StringVar(&scheduler, "scheduler", "schedsim", "scheduler binary to launch")
	cmd.Flags().DurationVar(&tick, "tick", time.Second, "wall-clock duration of one simulated tick")
	return cmd
}

func readInt(in *bufio.Reader) (int, error) {
	line, err := in.ReadString('\n')
	if err != nil {
		return 0, errors.Wrap(err, "read input")
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %q", strings.TrimSpace(line))
	}
	return v, nil
}
