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

// Package metrics collects prometheus collectors for the simulator
// and gathers them through one registry.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// InitCollector instantiates a registered collector.
type InitCollector func() (prometheus.Collector, error)

// collectors maps collector name -> initializer.
var collectors = make(map[string]InitCollector)

// RegisterCollector makes a collector available for gathering.
func RegisterCollector(name string, init InitCollector) error {
	if _, found := collectors[name]; found {
		return errors.Errorf("collector %s already registered", name)
	}
	collectors[name] = init
	return nil
}

// NewMetricGatherer instantiates every registered collector into a
// fresh registry and returns it.
func NewMetricGatherer() (prometheus.Gatherer, error) {
	reg := prometheus.NewPedanticRegistry()
	for name, init := range collectors {
		c, err := init()
		if err != nil {
			return nil, errors.Wrapf(err, "initialize collector %s", name)
		}
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(err, "register collector %s", name)
		}
	}
	return reg, nil
}
