package mq

import (
	"encoding/json"
	"strings"
	"testing"

	"dex-parser-sol/internal/core"

	"github.com/stretchr/testify/require"
)

func TestBuildResultJobs(t *testing.T) {
	sig := strings.Repeat("5Kt9xYz1", 11) // 典型签名长度 88
	results := []*core.Result{
		nil,
		{State: true}, // 空结果跳过
		{
			State:  true,
			Trades: []core.TradeInfo{{Signature: sig}},
		},
		{
			State:       true,
			Liquidities: []core.PoolEvent{{Signature: sig}},
		},
		{
			State: false,
			Msg:   "tx=" + sig + ": boom",
		},
	}

	jobs := BuildResultJobs("dex_parsed_tx", 8, results)
	require.Len(t, jobs, 3)

	for _, job := range jobs {
		require.Equal(t, "dex_parsed_tx", job.Topic)
		require.GreaterOrEqual(t, job.Partition, int32(0))
		require.Less(t, job.Partition, int32(8))

		var decoded core.Result
		require.NoError(t, json.Unmarshal(job.Value, &decoded))
	}

	// 同一签名散列到固定分区
	require.Equal(t, jobs[0].Partition, jobs[1].Partition)
}

func TestBuildResultJobsKeepsFailedResult(t *testing.T) {
	jobs := BuildResultJobs("t", 4, []*core.Result{
		{State: false, Msg: "tx=abc: panic"},
	})
	require.Len(t, jobs, 1)

	var decoded core.Result
	require.NoError(t, json.Unmarshal(jobs[0].Value, &decoded))
	require.False(t, decoded.State)
	require.Equal(t, "tx=abc: panic", decoded.Msg)
}
