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

package ingress

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/schedsim/schedsim/pkg/sched"
)

func TestEmptyPoll(t *testing.T) {
	q := NewQueue(4)
	_, err := q.TryReceive()
	require.True(t, errors.Is(err, sched.ErrNoMessage))
}

func TestSendReceiveOrder(t *testing.T) {
	q := NewQueue(4)
	for id := 1; id <= 3; id++ {
		require.NoError(t, q.Send(sched.PCB{ID: id, ArrivalTime: id}))
	}
	for id := 1; id <= 3; id++ {
		p, err := q.TryReceive()
		require.NoError(t, err)
		require.Equal(t, id, p.ID)
	}
	_, err := q.TryReceive()
	require.True(t, errors.Is(err, sched.ErrNoMessage))
}

func TestCloseReportsClosedAfterDrain(t *testing.T) {
	q := NewQueue(4)
	require.NoError(t, q.Send(sched.PCB{ID: 1}))
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	// The buffered message is still delivered before closure shows.
	p, err := q.TryReceive()
	require.NoError(t, err)
	require.Equal(t, 1, p.ID)

	_, err = q.TryReceive()
	require.True(t, errors.Is(err, sched.ErrChannelClosed))

	err = q.Send(sched.PCB{ID: 2})
	require.True(t, errors.Is(err, sched.ErrChannelClosed))
}

func TestCloseReleasesBlockedSender(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Send(sched.PCB{ID: 1}))

	sent := make(chan error, 1)
	go func() {
		sent <- q.Send(sched.PCB{ID: 2}) // buffer full, blocks
	}()
	require.NoError(t, q.Close())
	require.True(t, errors.Is(<-sent, sched.ErrChannelClosed))
}
