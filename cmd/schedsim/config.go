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
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the command line flags; explicitly given flags
// take precedence over the file.
type fileConfig struct {
	Workload    string `yaml:"workload"`
	Tick        string `yaml:"tick"`
	LogFile     string `yaml:"logFile"`
	PerfFile    string `yaml:"perfFile"`
	PoolSize    int    `yaml:"poolSize"`
	DumpMetrics bool   `yaml:"dumpMetrics"`
	Debug       bool   `yaml:"debug"`
}

func (o *options) loadConfigFile(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	cfg := fileConfig{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return errors.Wrapf(err, "error in %q", path)
	}

	flags := cmd.Flags()
	if cfg.Workload != "" && !flags.Changed("workload") {
		o.workloadPath = cfg.Workload
	}
	if cfg.Tick != "" && !flags.Changed("tick") {
		tick, err := time.ParseDuration(cfg.Tick)
		if err != nil {
			return errors.Wrapf(err, "error in %q: tick", path)
		}
		o.tick = tick
	}
	if cfg.LogFile != "" && !flags.Changed("log-file") {
		o.logFile = cfg.LogFile
	}
	if cfg.PerfFile != "" && !flags.Changed("perf-file") {
		o.perfFile = cfg.PerfFile
	}
	if cfg.PoolSize != 0 && !flags.Changed("pool") {
		o.poolSize = cfg.PoolSize
	}
	if cfg.DumpMetrics && !flags.Changed("dump-metrics") {
		o.dumpMetrics = true
	}
	if cfg.Debug && !flags.Changed("debug") {
		o.debug = true
	}
	return nil
}
